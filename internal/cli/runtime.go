package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/agentwarden/warden/internal/fixapply"
	"github.com/agentwarden/warden/internal/history"
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/resultcache"
	"github.com/agentwarden/warden/internal/rulecatalog"
	"github.com/agentwarden/warden/internal/scanconfig"
	"github.com/agentwarden/warden/internal/scanengine"
	"github.com/agentwarden/warden/internal/scanlog"
	"github.com/agentwarden/warden/internal/scanpipeline"
	"github.com/agentwarden/warden/internal/scantui"
)

// runtime bundles every long-lived collaborator a scan command needs,
// assembled once per invocation from the resolved scanconfig.Config. It is
// the generalized descendant of the teacher's single global pipeline.Run
// entry point, split out so scan/mcp/watch/interactive all share identical
// wiring instead of each re-deriving it.
type runtime struct {
	cfg       scanconfig.Config
	engine    *scanengine.Engine
	cache     *resultcache.Cache
	cachePath string
	history   history.Store
}

// newRuntime loads the rule catalog (default plus any configured extras),
// builds the engine, and opens the result cache, from a resolved config.
func newRuntime(cfg scanconfig.Config) (*runtime, error) {
	lr, err := rulecatalog.LoadWithExtras(cfg.RuleCatalogPaths)
	if err != nil {
		return nil, fmt.Errorf("loading rule catalog: %w", err)
	}
	idx := rulecatalog.NewIndexedRuleEngine(lr)
	engine := scanengine.NewEngine(idx, scanengine.Options{
		RegexTimeout: time.Duration(cfg.RegexTimeoutMS) * time.Millisecond,
	})

	cachePath := cfg.Cache.Dir
	var cache *resultcache.Cache
	if cfg.Cache.Enabled {
		if cachePath == "" {
			cachePath, err = resultcache.DefaultCachePath()
			if err != nil {
				return nil, fmt.Errorf("resolving cache path: %w", err)
			}
		}
		cache, err = resultcache.LoadFromFile(cachePath, cfg.CacheOptions(idx.Version()))
		if err != nil {
			return nil, fmt.Errorf("loading cache: %w", err)
		}
	}

	store, err := newHistoryStore(cfg)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, engine: engine, cache: cache, cachePath: cachePath, history: store}, nil
}

// newHistoryStore opens the configured history backend. Only the JSON
// backend is implemented in the core; "sqlite" is accepted but deferred to
// an external collaborator binary (see internal/history's package doc), so
// it resolves to the same JSONStore here with a warning-free no-op fallback.
func newHistoryStore(cfg scanconfig.Config) (history.Store, error) {
	dir, err := history.DefaultHistoryDir()
	if err != nil {
		return nil, fmt.Errorf("resolving history dir: %w", err)
	}
	return history.NewJSONStore(dir)
}

// closeCache persists the cache if one was opened.
func (r *runtime) closeCache() {
	if r.cache == nil {
		return
	}
	if err := r.cache.Persist(r.cachePath); err != nil {
		scanlog.Warn(globalFlags.Format, "cache persist failed", "error", err)
	}
}

// run drives the full pipeline over targets: walk/scan, post-pass
// (meta-dedup, confidence, threshold filter, fix), and assembles the final
// model.ScanResult. progress, if non-nil, is wired as the pipeline's live
// progress reporter.
func (r *runtime) run(ctx context.Context, runID string, targets []scanpipeline.Target, builtTargets []model.Target, progress scanpipeline.ProgressReporter) (model.ScanResult, error) {
	opts := r.cfg.PipelineOptions(globalFlags.UseBehavioral)
	opts.Progress = progress

	pipeline := scanpipeline.NewPipeline(r.engine, r.cache, opts)

	start := time.Now()
	result, err := pipeline.Run(ctx, targets)
	elapsed := time.Since(start)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("running scan: %w", err)
	}

	findings := result.Findings
	var dropped int
	if globalFlags.EnableMeta {
		var fixFn scanpipeline.FixFunc
		if globalFlags.Fix {
			fixFn = fixapply.Apply
		}
		postPassed, summary, err := scanpipeline.RunPostPass(findings, scanpipeline.PostPassOptions{
			MetaDedup:           true,
			AttachConfidence:    true,
			ConfidenceThreshold: globalFlags.MinConfidence,
			Fix:                 fixFn,
		})
		if err != nil {
			return model.ScanResult{}, fmt.Errorf("post-pass: %w", err)
		}
		findings = postPassed
		dropped = summary.DroppedByFilter
		result.Warnings = append(result.Warnings, summary.FixWarnings...)
	}

	return model.ScanResult{
		RunID:               runID,
		Targets:             builtTargets,
		Findings:            findings,
		ScannedFiles:        result.FilesScanned,
		ElapsedMS:           elapsed.Milliseconds(),
		DroppedByConfidence: dropped,
		Warnings:            result.Warnings,
	}, nil
}

// newProgressReporter returns a scantui.Reporter wired into the pipeline's
// ProgressReporter interface, or nil when progress is disabled (TUI turned
// off, no targets, or any --format other than table). Whether stdout is a
// terminal is not checked.
func newProgressReporter(title string, targetNames []string) *scantui.Reporter {
	if !globalFlags.TUI || len(targetNames) == 0 {
		return nil
	}
	if globalFlags.Format != "table" {
		return nil
	}
	return scantui.NewReporter(title, targetNames)
}

// progressReporterOrNil adapts a possibly-nil *scantui.Reporter to a
// possibly-nil scanpipeline.ProgressReporter -- a nil *scantui.Reporter
// boxed into the interface is non-nil, which scanpipeline.Options.withDefaults
// would then call into, so the conversion is explicit here rather than left
// to an implicit interface assignment.
func progressReporterOrNil(r *scantui.Reporter) scanpipeline.ProgressReporter {
	if r == nil {
		return nil
	}
	return r
}
