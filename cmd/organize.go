package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tidy/internal/config"
	"tidy/internal/organizer"
	"tidy/internal/scanner"
)

var (
	organizeApply      bool
	organizeDryRun     bool
	organizeExplain    bool
	organizeOneByOne   bool
	organizeRandomize  bool
	organizeSort       bool
	organizeHidden     bool
	organizeHeuristic  bool
	organizeTarget     string
	organizeContext    string
	organizeBackend    string
	organizeModel      string
	organizeMaxFiles   int
	organizeMaxDepth   int
	organizeBatchSize  int
	organizeCategories []string
	organizeExtensions []string
)

var organizeCmd = &cobra.Command{
	Use:   "organize [roots...]",
	Short: "Scan, name, categorize, and optionally move files",
	Long: `Runs the full pipeline over the configured (or given) roots. Phase one
proposes a descriptive name per file from extracted metadata; phase two
assigns each file to a category folder in batches. Without --apply nothing
on disk changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config

		order := scanner.OrderSorted
		if cfg.Scan.Randomize {
			order = scanner.OrderRandom
		}
		files, summary, err := scanner.Scan(scanner.Options{
			Roots:         cfg.Scan.Roots,
			MaxDepth:      cfg.Scan.MaxDepth,
			MaxFiles:      cfg.Scan.MaxFiles,
			IncludeHidden: cfg.Scan.IncludeHidden,
			Extensions:    config.ExpandCategories(cfg.Scan.Categories, cfg.Scan.Extensions),
			Order:         order,
			Seed:          time.Now().UnixNano(),
		})
		if err != nil {
			return err
		}
		printScanSummary(appInstance.Out, summary)
		if len(files) == 0 {
			fmt.Fprintln(appInstance.Out, "nothing to organize")
			return nil
		}

		org := appInstance.Organizer(organizeExplain)
		plan, _, err := org.Run(cmd.Context(), files, appInstance.Renamer, cfg.Organize.DryRun)
		if err != nil {
			return err
		}
		organizer.WriteSummary(appInstance.Out, plan)
		return nil
	},
}

// applyFlagOverrides folds changed command-line flags (and positional roots)
// into the loaded config before validation.
func applyFlagOverrides(cmd *cobra.Command, args []string, cfg *config.Config) {
	if cmd.Name() == "organize" && len(args) > 0 {
		cfg.Scan.Roots = args
	}
	flags := cmd.Flags()
	if flags.Changed("apply") {
		cfg.Organize.DryRun = !organizeApply
	}
	if flags.Changed("dry-run") && organizeDryRun {
		cfg.Organize.DryRun = true
	}
	if flags.Changed("target") {
		cfg.Organize.TargetRoot = organizeTarget
	}
	if flags.Changed("context") {
		cfg.Organize.Context = organizeContext
	}
	if flags.Changed("batch-size") {
		cfg.Organize.BatchSize = organizeBatchSize
	}
	if flags.Changed("one-by-one") {
		cfg.Organize.OneByOne = organizeOneByOne
	}
	if flags.Changed("max-files") {
		cfg.Scan.MaxFiles = organizeMaxFiles
	}
	if flags.Changed("max-depth") {
		cfg.Scan.MaxDepth = organizeMaxDepth
	}
	if flags.Changed("include-hidden") {
		cfg.Scan.IncludeHidden = organizeHidden
	}
	if flags.Changed("randomize") {
		cfg.Scan.Randomize = organizeRandomize
	}
	if flags.Changed("sort") {
		cfg.Scan.Sort = organizeSort
	}
	if flags.Changed("category") {
		cfg.Scan.Categories = organizeCategories
	}
	if flags.Changed("ext") {
		cfg.Scan.Extensions = organizeExtensions
	}
	if flags.Changed("backend") {
		if organizeBackend == "heuristic" {
			cfg.Backends.HeuristicOnly = true
		} else {
			cfg.Backends.Order = []string{organizeBackend}
		}
	}
	if flags.Changed("model") {
		cfg.Backends.OllamaModel = organizeModel
		cfg.Backends.GeminiModel = organizeModel
	}
	if flags.Changed("heuristic-only") {
		cfg.Backends.HeuristicOnly = organizeHeuristic
	}
}

func printScanSummary(out io.Writer, summary scanner.Summary) {
	fmt.Fprintf(out, "scanned %d root(s): %d found, %d selected (%d bytes)\n",
		summary.Roots, summary.Found, summary.Selected, summary.TotalBytes)
	for _, row := range summary.Histogram {
		fmt.Fprintf(out, "  .%s  %d\n", row.Ext, row.Count)
	}
}

func init() {
	organizeCmd.Flags().BoolVarP(&organizeApply, "apply", "a", false, "actually move files (default is a dry run)")
	organizeCmd.Flags().BoolVarP(&organizeDryRun, "dry-run", "d", true, "plan without touching the filesystem")
	organizeCmd.Flags().BoolVar(&organizeExplain, "explain", false, "print the reason behind every decision")
	organizeCmd.Flags().BoolVar(&organizeOneByOne, "one-by-one", false, "plan and apply each file in isolation")
	organizeCmd.Flags().BoolVarP(&organizeRandomize, "randomize", "z", false, "shuffle scan order")
	organizeCmd.Flags().BoolVar(&organizeSort, "sort", false, "force sorted scan order")
	organizeCmd.Flags().BoolVar(&organizeHidden, "include-hidden", false, "include hidden files and directories")
	organizeCmd.Flags().BoolVar(&organizeHeuristic, "heuristic-only", false, "skip model backends, use extension heuristics")
	organizeCmd.Flags().StringVarP(&organizeTarget, "target", "t", "", "target root for organized files")
	organizeCmd.Flags().StringVarP(&organizeContext, "context", "x", "", "free-text hint passed to the model")
	organizeCmd.Flags().StringVar(&organizeBackend, "backend", "", "use a single backend (on-device, ollama, gemini, heuristic)")
	organizeCmd.Flags().StringVarP(&organizeModel, "model", "o", "", "override the backend model name")
	organizeCmd.Flags().IntVarP(&organizeMaxFiles, "max-files", "m", 0, "cap the number of files per run")
	organizeCmd.Flags().IntVar(&organizeMaxDepth, "max-depth", 0, "limit directory recursion depth")
	organizeCmd.Flags().IntVar(&organizeBatchSize, "batch-size", 0, "files per categorization batch")
	organizeCmd.Flags().StringSliceVarP(&organizeCategories, "category", "g", nil, "scan category shorthands (docs, data, images, audio, video, code)")
	organizeCmd.Flags().StringSliceVarP(&organizeExtensions, "ext", "e", nil, "extra extensions to scan")
	rootCmd.AddCommand(organizeCmd)
}
