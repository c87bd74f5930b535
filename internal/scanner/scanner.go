package scanner

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"tidy/internal/metadata"
)

// Order controls how discovered files are arranged before the file cap is
// applied.
type Order string

const (
	OrderSorted Order = "sorted"
	OrderRandom Order = "random"
)

// Options configures a scan. Zero values mean: no depth limit, no extension
// filter, no file cap, hidden entries skipped, sorted order.
type Options struct {
	Roots         []string
	MaxDepth      int
	MaxFiles      int
	IncludeHidden bool
	Extensions    []string
	Order         Order
	Seed          int64
}

// File is one discovered regular file.
type File struct {
	Path string
	Name string
	Ext  string
	Size int64
}

// Summary aggregates a finished scan for display.
type Summary struct {
	Roots      int
	Found      int
	Selected   int
	TotalBytes int64
	Histogram  []ExtCount
}

// ExtCount is one row of the extension histogram.
type ExtCount struct {
	Ext   string
	Count int
}

// Scan walks every root and returns the selected files plus a summary.
// Missing roots are logged and skipped; ordering is applied before MaxFiles
// so the cap selects a deterministic prefix.
func Scan(opts Options) ([]File, Summary, error) {
	allowed := extensionSet(opts.Extensions)
	var files []File
	summary := Summary{}

	for _, root := range opts.Roots {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			log.Warnf("skipping root %s: %v", root, err)
			continue
		}
		if !info.IsDir() {
			log.Warnf("skipping root %s: not a directory", root)
			continue
		}
		summary.Roots++

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warnf("skipping %s: %v", path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			name := d.Name()
			hidden := strings.HasPrefix(name, ".") && path != root
			if d.IsDir() {
				if hidden && !opts.IncludeHidden {
					return filepath.SkipDir
				}
				if opts.MaxDepth > 0 && depthOf(root, path) >= opts.MaxDepth {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if hidden && !opts.IncludeHidden {
				return nil
			}
			ext := metadata.ExtensionOf(name)
			if len(allowed) > 0 && !allowed[ext] {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				log.Warnf("skipping %s: %v", path, err)
				return nil
			}
			files = append(files, File{Path: path, Name: name, Ext: ext, Size: fi.Size()})
			return nil
		})
		if walkErr != nil {
			return nil, Summary{}, fmt.Errorf("walking %s: %w", root, walkErr)
		}
	}

	if summary.Roots == 0 && len(opts.Roots) > 0 {
		return nil, Summary{}, fmt.Errorf("none of the %d configured roots exist", len(opts.Roots))
	}

	summary.Found = len(files)
	arrange(files, opts)
	if opts.MaxFiles > 0 && len(files) > opts.MaxFiles {
		files = files[:opts.MaxFiles]
	}
	summary.Selected = len(files)
	for _, f := range files {
		summary.TotalBytes += f.Size
	}
	summary.Histogram = histogram(files, 8)
	return files, summary, nil
}

func arrange(files []File, opts Options) {
	switch opts.Order {
	case OrderRandom:
		rng := rand.New(rand.NewSource(opts.Seed))
		rng.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
	default:
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	}
}

// depthOf counts path separators between root and path.
func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func extensionSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))] = true
	}
	return set
}

// histogram returns the top-n extensions by count, ties broken alphabetically.
func histogram(files []File, n int) []ExtCount {
	counts := make(map[string]int)
	for _, f := range files {
		ext := f.Ext
		if ext == "" {
			ext = "(none)"
		}
		counts[ext]++
	}
	rows := make([]ExtCount, 0, len(counts))
	for ext, count := range counts {
		rows = append(rows, ExtCount{Ext: ext, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Ext < rows[j].Ext
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
