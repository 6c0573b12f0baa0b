package scanpipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/pathwalk"
	"github.com/agentwarden/warden/internal/resultcache"
	"github.com/agentwarden/warden/internal/scanengine"
)

// DefaultParallelThreshold is the file count above which a target switches
// to the coarser concurrency width.
const DefaultParallelThreshold = 10

// DefaultMaxFindingsPerFile caps findings retained per file after a scan;
// any excess is dropped with a warning, not truncated silently.
const DefaultMaxFindingsPerFile = 100

// Options configures a Pipeline. Zero values fall back to the package
// defaults.
type Options struct {
	ParallelThreshold  int
	MaxFindingsPerFile int
	EnableHeuristics   bool
	Concurrency        int // overrides the computed worker width when > 0

	// Progress, when set, is notified of per-target lifecycle events as Run
	// walks the target list. It exists so a terminal progress view can stay
	// current without polling Result; a nil Progress is a no-op.
	Progress ProgressReporter
}

// ProgressReporter receives per-target lifecycle events during a Run. Both
// methods must return quickly since Run calls them inline, between targets,
// never concurrently.
type ProgressReporter interface {
	TargetStarted(name string)
	TargetFinished(name string, findingCount int, err error)
}

// noopProgress discards every event; used when Options.Progress is nil so
// Run never needs a nil check at each call site.
type noopProgress struct{}

func (noopProgress) TargetStarted(string)              {}
func (noopProgress) TargetFinished(string, int, error) {}

func (o Options) withDefaults() Options {
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	if o.MaxFindingsPerFile <= 0 {
		o.MaxFindingsPerFile = DefaultMaxFindingsPerFile
	}
	if o.Progress == nil {
		o.Progress = noopProgress{}
	}
	return o
}

// Result is the aggregate outcome of a Run across every target.
type Result struct {
	Findings     []model.Finding
	Warnings     []string
	FilesScanned int
	TargetStats  map[string]pathwalk.WalkResult
	BudgetUsed   int
	Truncated    bool // true if the global finding budget cut the run short
}

// Pipeline ties the walker, engine, and cache together into a full scan
// run. Construct one per invocation; it holds no state between Runs beyond
// what Cache persists.
type Pipeline struct {
	Engine *scanengine.Engine
	Cache  *resultcache.Cache
	Walker *pathwalk.Walker
	Budget *FindingBudget
	Logger *slog.Logger
	Opts   Options
}

// NewPipeline constructs a Pipeline with defaults filled in for any
// zero-valued field.
func NewPipeline(engine *scanengine.Engine, cache *resultcache.Cache, opts Options) *Pipeline {
	return &Pipeline{
		Engine: engine,
		Cache:  cache,
		Walker: pathwalk.NewWalker(),
		Budget: NewFindingBudget(DefaultMaxTotalFindings),
		Logger: slog.Default().With("component", "pipeline"),
		Opts:   opts.withDefaults(),
	}
}

// Run scans every target in order, stopping early once the global finding
// budget is exhausted. A per-target walk or read failure is recorded as a
// warning on Result, not returned as an error; Run only returns an error for
// a context cancellation or an unrecoverable setup failure.
func (p *Pipeline) Run(ctx context.Context, targets []Target) (Result, error) {
	result := Result{TargetStats: make(map[string]pathwalk.WalkResult, len(targets))}

	for _, target := range targets {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if p.Budget.Exhausted() {
			msg := fmt.Sprintf("global finding budget exhausted, skipping remaining targets starting at %q", target.Name)
			p.Logger.Warn(msg)
			result.Warnings = append(result.Warnings, msg)
			result.Truncated = true
			break
		}

		p.Opts.Progress.TargetStarted(target.Name)

		files, stats, err := p.resolveFiles(ctx, target)
		if err != nil {
			msg := fmt.Sprintf("target %q: %v", target.Name, err)
			p.Logger.Warn("failed to walk target", "target", target.Name, "error", err)
			result.Warnings = append(result.Warnings, msg)
			p.Opts.Progress.TargetFinished(target.Name, 0, err)
			continue
		}
		result.TargetStats[target.Name] = stats

		findings, warnings, truncated, err := p.scanFiles(ctx, files)
		if err != nil {
			p.Opts.Progress.TargetFinished(target.Name, 0, err)
			return result, err
		}

		result.Findings = append(result.Findings, findings...)
		result.Warnings = append(result.Warnings, warnings...)
		result.FilesScanned += len(files)
		if truncated {
			result.Truncated = true
		}
		p.Opts.Progress.TargetFinished(target.Name, len(findings), nil)
	}

	result.BudgetUsed = p.Budget.Used()
	return result, nil
}

func (p *Pipeline) resolveFiles(ctx context.Context, target Target) ([]pathwalk.FileDescriptor, pathwalk.WalkResult, error) {
	if target.PreloadedFiles != nil {
		stats := pathwalk.WalkResult{
			Files:      target.PreloadedFiles,
			TotalFound: len(target.PreloadedFiles),
		}
		return target.PreloadedFiles, stats, nil
	}

	walkResult, err := p.Walker.Walk(ctx, pathwalk.WalkerConfig{
		Root:          target.Root,
		Ignorer:       target.Ignorer,
		PatternFilter: target.PatternFilter,
	})
	if err != nil {
		return nil, pathwalk.WalkResult{}, err
	}
	return walkResult.Files, walkResult, nil
}

// scanWidth picks the bounded-concurrency worker count for a given file
// count, per the two-tier rule: a coarser cap above the parallel threshold,
// a finer bound below it.
func (p *Pipeline) scanWidth(fileCount int) int {
	if p.Opts.Concurrency > 0 {
		return p.Opts.Concurrency
	}
	cpus := runtime.NumCPU()
	if fileCount >= p.Opts.ParallelThreshold {
		return minInt(cpus, minInt(fileCount, 8))
	}
	return minInt(32, maxInt(4, cpus/2))
}

func (p *Pipeline) scanFiles(ctx context.Context, files []pathwalk.FileDescriptor) ([]model.Finding, []string, bool, error) {
	var (
		mu        sync.Mutex
		findings  []model.Finding
		warnings  []string
		truncated bool
	)

	width := p.scanWidth(len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(width)

	for _, fd := range files {
		fd := fd
		if fd.Error != nil {
			mu.Lock()
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", fd.Path, fd.Error))
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fileFindings, fileWarnings := p.scanOneFile(fd)

			admitted := p.Budget.Take(len(fileFindings))
			if admitted < len(fileFindings) {
				fileFindings = fileFindings[:admitted]
				mu.Lock()
				truncated = true
				mu.Unlock()
			}

			mu.Lock()
			findings = append(findings, fileFindings...)
			warnings = append(warnings, fileWarnings...)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, false, err
	}

	sort.SliceStable(findings, func(i, j int) bool { return findings[i].File < findings[j].File })

	return findings, warnings, truncated, nil
}

// scanOneFile is cache-first: a hit returns the cached findings unchanged; a
// miss runs the engine (plus heuristics if enabled), truncates to
// MaxFindingsPerFile with a warning, and writes the result back.
func (p *Pipeline) scanOneFile(fd pathwalk.FileDescriptor) ([]model.Finding, []string) {
	if p.Cache != nil {
		if cached, ok := p.Cache.Get(fd.AbsPath); ok {
			return cached, nil
		}
	}

	scanResult := p.Engine.ScanContent(fd.Path, fd.Content, fd.FileType)
	findings := scanResult.Findings
	warnings := scanResult.Warnings

	if p.Opts.EnableHeuristics {
		findings = append(findings, p.Engine.RunHeuristics(fd.Path, fd.Content, fd.FileType)...)
	}

	var truncationWarning string
	if len(findings) > p.Opts.MaxFindingsPerFile {
		truncationWarning = fmt.Sprintf("%s: %d findings exceed per-file cap %d, truncating", fd.Path, len(findings), p.Opts.MaxFindingsPerFile)
		findings = findings[:p.Opts.MaxFindingsPerFile]
	}
	if truncationWarning != "" {
		warnings = append(warnings, truncationWarning)
	}

	if p.Cache != nil {
		if err := p.Cache.Set(fd.AbsPath, findings); err != nil {
			warnings = append(warnings, fmt.Sprintf("cache write failed for %s: %v", fd.Path, err))
		}
	}

	return findings, warnings
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
