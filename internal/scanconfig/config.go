// Package scanconfig resolves Warden's runtime configuration from five
// layers, lowest to highest precedence: built-in defaults, an optional
// global config file, an optional repo-local config file, SCANNER_*/DEBUG
// environment variables, and CLI flags. It is a generalization of the
// teacher's profile-oriented config.Resolve to a single flat scan config,
// since the scanner has one active configuration per run rather than
// named, inheriting profiles.
package scanconfig

// Config is the fully resolved runtime configuration for one scan.
type Config struct {
	Parallel  ParallelConfig  `koanf:"parallel"`
	Cache     CacheConfig     `koanf:"cache"`
	Storage   StorageConfig   `koanf:"storage"`
	Streaming StreamingConfig `koanf:"streaming"`
	MCP       MCPConfig       `koanf:"mcp"`

	MaxFileSize        int64 `koanf:"max_file_size"`
	MaxTotalFindings   int   `koanf:"max_total_findings"`
	MaxFindingsPerFile int   `koanf:"max_findings_per_file"`
	RegexTimeoutMS     int   `koanf:"regex_timeout_ms"`

	// RuleCatalogPaths and ExtraSkipDirs are warden.toml-only enrichments:
	// non-secret scan defaults with no SCANNER_* env var equivalent, since
	// spec.md's env surface never named them.
	RuleCatalogPaths []string `koanf:"rule_catalog_paths"`
	ExtraSkipDirs    []string `koanf:"extra_skip_dirs"`
}

// ParallelConfig controls the pipeline's worker concurrency.
type ParallelConfig struct {
	Enabled   bool `koanf:"enabled"`
	Workers   int  `koanf:"workers"` // 0 means auto-detect from runtime.NumCPU
	Threshold int  `koanf:"threshold"`
}

// CacheConfig controls the persisted per-file result cache.
type CacheConfig struct {
	Enabled     bool   `koanf:"enabled"`
	MaxAgeHours int    `koanf:"max_age_hours"`
	Dir         string `koanf:"dir"`
	MaxEntries  int    `koanf:"max_entries"`
	MaxSizeMB   int    `koanf:"max_size_mb"`
}

// StorageConfig selects and configures the history backend.
type StorageConfig struct {
	Backend        string `koanf:"backend"` // "json" | "sqlite"
	SQLitePath     string `koanf:"sqlite_path"`
	MaxStoredScans int    `koanf:"max_stored_scans"`
}

// StreamingConfig controls the (currently unused by any read path)
// streaming file reader threshold, carried through so a future streaming
// reader has a ready-made knob.
type StreamingConfig struct {
	Enabled        bool  `koanf:"enabled"`
	ThresholdBytes int64 `koanf:"threshold_bytes"`
}

// MCPConfig controls the MCP client's retry/backoff/timeout behavior.
type MCPConfig struct {
	MaxRetries   int `koanf:"max_retries"`
	RetryDelayMS int `koanf:"retry_delay_ms"`
	TimeoutMS    int `koanf:"timeout_ms"`
}
