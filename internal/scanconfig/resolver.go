package scanconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"
)

const repoConfigFileName = "warden.toml"

// ResolveOptions configures the multi-source resolution.
type ResolveOptions struct {
	// TargetDir is searched for a repo-local warden.toml. Defaults to ".".
	TargetDir string

	// GlobalConfigPath overrides the default
	// ~/.config/warden/config.toml, for tests.
	GlobalConfigPath string

	// CLIFlags holds explicit, user-set CLI flag overrides (highest
	// precedence). Keys are the same flat dotted names as the Config's
	// koanf tags, e.g. "parallel.workers", "max_file_size".
	CLIFlags map[string]any
}

// Resolved is the outcome of resolving a Config across all five layers.
type Resolved struct {
	Config  Config
	Sources SourceMap
}

// Resolve runs the 5-layer resolution: built-in defaults, optional global
// config file, optional repo-local config file, SCANNER_* environment
// variables, then CLI flags.
func Resolve(opts ResolveOptions) (*Resolved, error) {
	k := koanf.New(".")
	sources := make(SourceMap)

	if err := loadLayer(k, toFlatMap(Default()), sources, SourceDefault); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			globalPath = filepath.Join(home, ".config", "warden", "config.toml")
		}
	}
	if globalPath != "" {
		if err := loadTOMLLayer(k, globalPath, sources, SourceGlobal); err != nil {
			return nil, err
		}
	}

	targetDir := opts.TargetDir
	if targetDir == "" {
		targetDir = "."
	}
	repoPath := filepath.Join(targetDir, repoConfigFileName)
	if err := loadTOMLLayer(k, repoPath, sources, SourceRepo); err != nil {
		return nil, err
	}

	if envLayer := buildEnvLayer(); len(envLayer) > 0 {
		if err := loadLayer(k, envLayer, sources, SourceEnv); err != nil {
			return nil, fmt.Errorf("loading env vars: %w", err)
		}
	}

	if len(opts.CLIFlags) > 0 {
		if err := loadLayer(k, opts.CLIFlags, sources, SourceFlag); err != nil {
			return nil, fmt.Errorf("loading CLI flags: %w", err)
		}
	}

	return &Resolved{Config: fromFlatMap(k), Sources: sources}, nil
}

// loadTOMLLayer parses a TOML file into a raw map and merges only the keys
// it actually contains. A missing file is silently skipped.
func loadTOMLLayer(k *koanf.Koanf, path string, sources SourceMap, src Source) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("config file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	flat := make(map[string]any)
	flattenRaw("", raw, flat)
	return loadLayer(k, flat, sources, src)
}

// flattenRaw recursively flattens a raw TOML-decoded map into dotted keys,
// converting int64 scalars to int and []interface{} string arrays to
// []string so the result matches Config's native field types.
func flattenRaw(prefix string, raw map[string]any, out map[string]any) {
	for key, v := range raw {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch val := v.(type) {
		case map[string]any:
			flattenRaw(full, val, out)
		case int64:
			out[full] = int(val)
		case []any:
			out[full] = toStringSlice(val)
		default:
			out[full] = v
		}
	}
}

func toStringSlice(v []any) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// loadLayer merges a flat map into k, attributing every key it touches to
// src. Later layers override earlier ones by construction (koanf.Load
// overwrites).
func loadLayer(k *koanf.Koanf, m map[string]any, sources SourceMap, src Source) error {
	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return fmt.Errorf("merge layer %s: %w", src.String(), err)
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sources[key] = src
	}
	return nil
}

func toFlatMap(c Config) map[string]any {
	return map[string]any{
		"parallel.enabled":   c.Parallel.Enabled,
		"parallel.workers":   c.Parallel.Workers,
		"parallel.threshold": c.Parallel.Threshold,

		"cache.enabled":       c.Cache.Enabled,
		"cache.max_age_hours": c.Cache.MaxAgeHours,
		"cache.dir":           c.Cache.Dir,
		"cache.max_entries":   c.Cache.MaxEntries,
		"cache.max_size_mb":   c.Cache.MaxSizeMB,

		"storage.backend":          c.Storage.Backend,
		"storage.sqlite_path":      c.Storage.SQLitePath,
		"storage.max_stored_scans": c.Storage.MaxStoredScans,

		"streaming.enabled":         c.Streaming.Enabled,
		"streaming.threshold_bytes": c.Streaming.ThresholdBytes,

		"mcp.max_retries":    c.MCP.MaxRetries,
		"mcp.retry_delay_ms": c.MCP.RetryDelayMS,
		"mcp.timeout_ms":     c.MCP.TimeoutMS,

		"max_file_size":         c.MaxFileSize,
		"max_total_findings":    c.MaxTotalFindings,
		"max_findings_per_file": c.MaxFindingsPerFile,
		"regex_timeout_ms":      c.RegexTimeoutMS,

		"rule_catalog_paths": c.RuleCatalogPaths,
		"extra_skip_dirs":    c.ExtraSkipDirs,
	}
}

func fromFlatMap(k *koanf.Koanf) Config {
	return Config{
		Parallel: ParallelConfig{
			Enabled:   k.Bool("parallel.enabled"),
			Workers:   k.Int("parallel.workers"),
			Threshold: k.Int("parallel.threshold"),
		},
		Cache: CacheConfig{
			Enabled:     k.Bool("cache.enabled"),
			MaxAgeHours: k.Int("cache.max_age_hours"),
			Dir:         k.String("cache.dir"),
			MaxEntries:  k.Int("cache.max_entries"),
			MaxSizeMB:   k.Int("cache.max_size_mb"),
		},
		Storage: StorageConfig{
			Backend:        k.String("storage.backend"),
			SQLitePath:     k.String("storage.sqlite_path"),
			MaxStoredScans: k.Int("storage.max_stored_scans"),
		},
		Streaming: StreamingConfig{
			Enabled:        k.Bool("streaming.enabled"),
			ThresholdBytes: k.Int64("streaming.threshold_bytes"),
		},
		MCP: MCPConfig{
			MaxRetries:   k.Int("mcp.max_retries"),
			RetryDelayMS: k.Int("mcp.retry_delay_ms"),
			TimeoutMS:    k.Int("mcp.timeout_ms"),
		},
		MaxFileSize:        k.Int64("max_file_size"),
		MaxTotalFindings:   k.Int("max_total_findings"),
		MaxFindingsPerFile: k.Int("max_findings_per_file"),
		RegexTimeoutMS:     k.Int("regex_timeout_ms"),
		RuleCatalogPaths:   k.Strings("rule_catalog_paths"),
		ExtraSkipDirs:      k.Strings("extra_skip_dirs"),
	}
}
