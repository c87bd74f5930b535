package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the resolved run configuration: file values overlaid with
// environment variables and, eventually, command-line flags.
type Config struct {
	Scan struct {
		Roots         []string `mapstructure:"roots"`
		MaxDepth      int      `mapstructure:"max_depth"`
		MaxFiles      int      `mapstructure:"max_files"`
		IncludeHidden bool     `mapstructure:"include_hidden"`
		Categories    []string `mapstructure:"categories"`
		Extensions    []string `mapstructure:"extensions"`
		Randomize     bool     `mapstructure:"randomize"`
		Sort          bool     `mapstructure:"sort"`
	} `mapstructure:"scan"`

	Organize struct {
		TargetRoot string `mapstructure:"target_root"`
		DryRun     bool   `mapstructure:"dry_run"`
		BatchSize  int    `mapstructure:"batch_size"`
		MaxPreview int    `mapstructure:"max_preview"`
		OneByOne   bool   `mapstructure:"one_by_one"`
		Context    string `mapstructure:"context"`
	} `mapstructure:"organize"`

	Backends struct {
		Order         []string `mapstructure:"order"`
		OnDeviceBin   string   `mapstructure:"on_device_bin"`
		OllamaHost    string   `mapstructure:"ollama_host"`
		OllamaModel   string   `mapstructure:"ollama_model"`
		GeminiAPIKey  string   `mapstructure:"gemini_api_key"`
		GeminiModel   string   `mapstructure:"gemini_model"`
		HeuristicOnly bool     `mapstructure:"heuristic_only"`
	} `mapstructure:"backends"`

	History struct {
		Path     string `mapstructure:"path"`
		Disabled bool   `mapstructure:"disabled"`
	} `mapstructure:"history"`
}

// LoadConfig reads tidy.yaml from the working directory or ~/.config/tidy,
// overlays environment variables, and applies defaults. A missing config
// file is not an error.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("tidy")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "tidy"))
	}

	viper.AutomaticEnv()
	viper.BindEnv("backends.gemini_api_key", "GEMINI_API_KEY")
	viper.BindEnv("backends.ollama_host", "OLLAMA_HOST")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	applyFallbacks(&cfg)
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("organize.dry_run", true)
	viper.SetDefault("organize.batch_size", 50)
	viper.SetDefault("organize.max_preview", 1800)
	viper.SetDefault("backends.order", []string{"on-device", "ollama"})
	viper.SetDefault("backends.on_device_bin", "llmtool")
	viper.SetDefault("backends.ollama_host", "http://localhost:11434")
	viper.SetDefault("history.path", ".tidy-history.db")
}

func applyFallbacks(cfg *Config) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if cfg.Organize.TargetRoot == "" {
		cfg.Organize.TargetRoot = filepath.Join(home, "Organized")
	}
	if len(cfg.Scan.Roots) == 0 {
		cfg.Scan.Roots = []string{filepath.Join(home, "Downloads")}
	}
	for i, root := range cfg.Scan.Roots {
		cfg.Scan.Roots[i] = expandHome(root, home)
	}
	cfg.Organize.TargetRoot = expandHome(cfg.Organize.TargetRoot, home)

	// The decision log lives under the target root unless pointed elsewhere.
	cfg.History.Path = expandHome(cfg.History.Path, home)
	if cfg.History.Path != "" && !filepath.IsAbs(cfg.History.Path) {
		cfg.History.Path = filepath.Join(cfg.Organize.TargetRoot, cfg.History.Path)
	}
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
