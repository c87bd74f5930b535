package config

import (
	"errors"
	"fmt"
	"os"
)

var knownBackends = map[string]bool{
	"on-device": true,
	"ollama":    true,
	"gemini":    true,
}

// Validate rejects configurations the pipeline cannot run with. At least one
// scan root must exist; contradictory ordering flags are refused rather than
// silently resolved.
func (c *Config) Validate() error {
	if len(c.Scan.Roots) == 0 {
		return errors.New("scan.roots must list at least one directory")
	}
	existing := 0
	for _, root := range c.Scan.Roots {
		info, err := os.Stat(root)
		if err == nil && info.IsDir() {
			existing++
		}
	}
	if existing == 0 {
		return fmt.Errorf("none of the %d scan roots exist", len(c.Scan.Roots))
	}

	if c.Scan.Randomize && c.Scan.Sort {
		return errors.New("scan.randomize and scan.sort are mutually exclusive")
	}
	if c.Scan.MaxDepth < 0 {
		return errors.New("scan.max_depth must not be negative")
	}
	if c.Scan.MaxFiles < 0 {
		return errors.New("scan.max_files must not be negative")
	}

	if c.Organize.TargetRoot == "" {
		return errors.New("organize.target_root is required")
	}
	if c.Organize.BatchSize <= 0 {
		return errors.New("organize.batch_size must be positive")
	}
	if c.Organize.MaxPreview <= 0 {
		return errors.New("organize.max_preview must be positive")
	}

	for _, name := range c.Backends.Order {
		if !knownBackends[name] {
			return fmt.Errorf("unknown backend %q in backends.order", name)
		}
	}

	for _, cat := range c.Scan.Categories {
		if _, ok := categoryExtensions[cat]; !ok {
			return fmt.Errorf("unknown scan category %q", cat)
		}
	}
	return nil
}
