package pathwalk

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentwarden/warden/internal/filetype"
	"github.com/agentwarden/warden/internal/iosafe"
)

// FileDescriptor is a single walked file: its path, detected type, and
// content once phase two has read it. Error is set instead of Content when
// the read or a safety check failed; such files are excluded from scanning
// by the caller, with a warning, not an abort.
type FileDescriptor struct {
	Path     string // relative to Root, forward-slash separated
	AbsPath  string
	FileType string
	Size     int64
	Content  string
	Error    error
}

// WalkerConfig configures a single Walk call.
type WalkerConfig struct {
	Root          string
	Ignorer       Ignorer
	PatternFilter *PatternFilter
	SizePolicy    iosafe.FileSizePolicy
	Concurrency   int
}

// WalkResult is the outcome of a single Walk call: the surviving files plus
// counters useful for a scan summary report.
type WalkResult struct {
	Files        []FileDescriptor
	TotalFound   int // files that reached the content-read phase
	TotalSkipped int // files rejected during the collection phase
	SkipReasons  map[string]int
}

// Walker discovers files under a root, applies the ignore chain and
// pattern filter, then reads the survivors' content with bounded
// concurrency.
type Walker struct {
	logger *slog.Logger
}

// NewWalker creates a Walker.
func NewWalker() *Walker {
	return &Walker{logger: slog.Default().With("component", "walker")}
}

// Walk traverses cfg.Root in two phases: a synchronous filepath.WalkDir pass
// that applies ignore rules, symlink safety, binary sniffing, size limits,
// and pattern filtering; then a bounded-concurrency errgroup pass that reads
// the survivors' content. Per-file errors are captured on the descriptor,
// never propagated as a Walk failure.
func (w *Walker) Walk(ctx context.Context, cfg WalkerConfig) (WalkResult, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = minInt(32, maxInt(4, runtime.NumCPU()/2))
	}
	if cfg.SizePolicy == (iosafe.FileSizePolicy{}) {
		cfg.SizePolicy = iosafe.DefaultFileSizePolicy()
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return WalkResult{}, fmt.Errorf("resolving root path %s: %w", cfg.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return WalkResult{}, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return WalkResult{}, fmt.Errorf("root %s is not a directory", root)
	}

	visited := iosafe.NewVisitedSet()

	var descriptors []*FileDescriptor
	var mu sync.Mutex
	skipReasons := make(map[string]int)
	recordSkip := func(reason string) {
		mu.Lock()
		skipReasons[reason]++
		mu.Unlock()
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, entryErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if entryErr != nil {
			w.logger.Debug("walk error", "path", path, "error", entryErr)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		isDir := d.IsDir()

		if isDir && d.Name() == ".git" {
			return fs.SkipDir
		}

		if cfg.Ignorer != nil && cfg.Ignorer.IsIgnored(relPath, isDir) {
			if isDir {
				return fs.SkipDir
			}
			recordSkip("ignored")
			return nil
		}

		if isDir {
			return nil
		}

		safe, reason := iosafe.IsSafePath(path, root, visited)
		if !safe {
			w.logger.Debug("unsafe path skipped", "path", relPath, "reason", reason)
			recordSkip(string(reason))
			return nil
		}

		fi, err := os.Stat(path)
		if err != nil {
			w.logger.Debug("stat error", "path", relPath, "error", err)
			recordSkip("stat_error")
			return nil
		}

		if cfg.SizePolicy.Check(fi.Size()) {
			w.logger.Debug("file too large, skipping", "path", relPath, "size", fi.Size())
			recordSkip("large_file")
			return nil
		}

		if isBin, err := iosafe.IsBinaryFile(path); err == nil && isBin {
			w.logger.Debug("binary file skipped", "path", relPath)
			recordSkip("binary")
			return nil
		}

		if cfg.PatternFilter != nil && cfg.PatternFilter.HasFilters() && !cfg.PatternFilter.Matches(relPath) {
			recordSkip("pattern_filter")
			return nil
		}

		fd := &FileDescriptor{
			Path:     relPath,
			AbsPath:  path,
			FileType: filetype.Detect(path),
			Size:     fi.Size(),
		}
		mu.Lock()
		descriptors = append(descriptors, fd)
		mu.Unlock()

		return nil
	})
	if walkErr != nil {
		return WalkResult{}, fmt.Errorf("walking directory %s: %w", root, walkErr)
	}

	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Path < descriptors[j].Path })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for _, fd := range descriptors {
		fd := fd
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, err := os.ReadFile(fd.AbsPath)
			if err != nil {
				fd.Error = fmt.Errorf("reading %s: %w", fd.Path, err)
				return nil
			}
			fd.Content = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return WalkResult{}, fmt.Errorf("reading file contents: %w", err)
	}

	out := make([]FileDescriptor, len(descriptors))
	for i, fd := range descriptors {
		out[i] = *fd
	}

	totalSkipped := 0
	for _, n := range skipReasons {
		totalSkipped += n
	}

	return WalkResult{
		Files:        out,
		TotalFound:   len(out),
		TotalSkipped: totalSkipped,
		SkipReasons:  skipReasons,
	}, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
