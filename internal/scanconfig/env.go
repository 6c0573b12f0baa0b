package scanconfig

import (
	"os"
	"strconv"
)

// Environment variable names recognized by Resolve, exactly as named in
// the CLI surface this package backs.
const (
	EnvParallelEnabled    = "SCANNER_PARALLEL_ENABLED"
	EnvParallelWorkers    = "SCANNER_PARALLEL_WORKERS"
	EnvParallelThreshold  = "SCANNER_PARALLEL_THRESHOLD"
	EnvCacheEnabled       = "SCANNER_CACHE_ENABLED"
	EnvCacheMaxAge        = "SCANNER_CACHE_MAX_AGE" // hours
	EnvCacheDir           = "SCANNER_CACHE_DIR"
	EnvCacheMaxEntries    = "SCANNER_CACHE_MAX_ENTRIES"
	EnvCacheMaxSizeMB     = "SCANNER_CACHE_MAX_SIZE_MB"
	EnvStorageBackend     = "SCANNER_STORAGE_BACKEND"
	EnvSQLitePath         = "SCANNER_SQLITE_PATH"
	EnvMaxStoredScans     = "SCANNER_MAX_STORED_SCANS"
	EnvMaxFileSize        = "SCANNER_MAX_FILE_SIZE"
	EnvStreamingEnabled   = "SCANNER_STREAMING_ENABLED"
	EnvStreamingThreshold = "SCANNER_STREAMING_THRESHOLD"
	EnvMaxTotalFindings   = "SCANNER_MAX_TOTAL_FINDINGS"
	EnvMaxFindingsPerFile = "SCANNER_MAX_FINDINGS_PER_FILE"
	EnvRegexTimeoutMS     = "SCANNER_REGEX_TIMEOUT_MS"
	EnvMCPMaxRetries      = "SCANNER_MCP_MAX_RETRIES"
	EnvMCPRetryDelayMS    = "SCANNER_MCP_RETRY_DELAY_MS"
	EnvMCPTimeoutMS       = "SCANNER_MCP_TIMEOUT_MS"
	EnvDebug              = "DEBUG"
)

// envIntBindings maps an env var name to the flat koanf key it feeds, for
// every integer-valued setting.
var envIntBindings = map[string]string{
	EnvParallelWorkers:    "parallel.workers",
	EnvParallelThreshold:  "parallel.threshold",
	EnvCacheMaxAge:        "cache.max_age_hours",
	EnvCacheMaxEntries:    "cache.max_entries",
	EnvCacheMaxSizeMB:     "cache.max_size_mb",
	EnvMaxStoredScans:     "storage.max_stored_scans",
	EnvMaxTotalFindings:   "max_total_findings",
	EnvMaxFindingsPerFile: "max_findings_per_file",
	EnvRegexTimeoutMS:     "regex_timeout_ms",
	EnvMCPMaxRetries:      "mcp.max_retries",
	EnvMCPRetryDelayMS:    "mcp.retry_delay_ms",
	EnvMCPTimeoutMS:       "mcp.timeout_ms",
}

var envInt64Bindings = map[string]string{
	EnvMaxFileSize:        "max_file_size",
	EnvStreamingThreshold: "streaming.threshold_bytes",
}

var envBoolBindings = map[string]string{
	EnvParallelEnabled:  "parallel.enabled",
	EnvCacheEnabled:     "cache.enabled",
	EnvStreamingEnabled: "streaming.enabled",
}

var envStringBindings = map[string]string{
	EnvCacheDir:       "cache.dir",
	EnvStorageBackend: "storage.backend",
	EnvSQLitePath:     "storage.sqlite_path",
}

// buildEnvLayer reads every recognized SCANNER_* variable present in the
// process environment and returns a flat koanf-compatible map containing
// only the variables actually set. Unset variables leave the lower layer's
// value untouched.
func buildEnvLayer() map[string]any {
	out := make(map[string]any)

	for env, key := range envStringBindings {
		if v, ok := os.LookupEnv(env); ok {
			out[key] = v
		}
	}
	for env, key := range envBoolBindings {
		if v, ok := os.LookupEnv(env); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				out[key] = b
			}
		}
	}
	for env, key := range envIntBindings {
		if v, ok := os.LookupEnv(env); ok {
			if n, err := strconv.Atoi(v); err == nil {
				out[key] = n
			}
		}
	}
	for env, key := range envInt64Bindings {
		if v, ok := os.LookupEnv(env); ok {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				out[key] = n
			}
		}
	}

	return out
}

// DebugEnabled reports whether DEBUG=1 is set, per spec.md's verbose-warning
// escape hatch.
func DebugEnabled() bool {
	return os.Getenv(EnvDebug) == "1"
}
