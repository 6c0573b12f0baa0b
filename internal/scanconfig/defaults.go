package scanconfig

import (
	"time"

	"github.com/agentwarden/warden/internal/iosafe"
	"github.com/agentwarden/warden/internal/mcpclient"
	"github.com/agentwarden/warden/internal/resultcache"
	"github.com/agentwarden/warden/internal/scanengine"
	"github.com/agentwarden/warden/internal/scanpipeline"
)

const (
	DefaultStorageBackend = "json"
	DefaultMaxStoredScans = 200
)

// Default returns the built-in configuration layer, sourced from each
// collaborator package's own default constant so scanconfig never drifts
// out of sync with the packages it configures.
func Default() Config {
	sizePolicy := iosafe.DefaultFileSizePolicy()

	return Config{
		Parallel: ParallelConfig{
			Enabled:   true,
			Workers:   0, // auto-detect
			Threshold: scanpipeline.DefaultParallelThreshold,
		},
		Cache: CacheConfig{
			Enabled:     true,
			MaxAgeHours: int(resultcache.DefaultTTL / time.Hour),
			MaxEntries:  resultcache.DefaultMaxEntries,
			MaxSizeMB:   resultcache.DefaultMaxSizeMB,
		},
		Storage: StorageConfig{
			Backend:        DefaultStorageBackend,
			MaxStoredScans: DefaultMaxStoredScans,
		},
		Streaming: StreamingConfig{
			Enabled:        false,
			ThresholdBytes: sizePolicy.StreamingThreshold,
		},
		MCP: MCPConfig{
			MaxRetries:   mcpclient.DefaultMaxRetries,
			RetryDelayMS: int(mcpclient.DefaultRetryBaseDelay / time.Millisecond),
			TimeoutMS:    int(mcpclient.DefaultCallTimeout / time.Millisecond),
		},
		MaxFileSize:        sizePolicy.MaxScanBytes,
		MaxTotalFindings:   scanpipeline.DefaultMaxTotalFindings,
		MaxFindingsPerFile: scanpipeline.DefaultMaxFindingsPerFile,
		RegexTimeoutMS:     scanengine.DefaultRegexTimeoutMS,
	}
}

// FileSizePolicy derives an iosafe.FileSizePolicy from the resolved config.
func (c Config) FileSizePolicy() iosafe.FileSizePolicy {
	return iosafe.FileSizePolicy{
		MaxScanBytes:       c.MaxFileSize,
		StreamingThreshold: c.Streaming.ThresholdBytes,
	}
}

// CacheOptions derives resultcache.Options from the resolved config.
func (c Config) CacheOptions(ruleVersion string) resultcache.Options {
	return resultcache.Options{
		MaxEntries:   c.Cache.MaxEntries,
		MaxSizeBytes: int64(c.Cache.MaxSizeMB) * 1024 * 1024,
		TTL:          time.Duration(c.Cache.MaxAgeHours) * time.Hour,
		RuleVersion:  ruleVersion,
	}
}

// PipelineOptions derives scanpipeline.Options from the resolved config.
// enableHeuristics is threaded separately since it is a --use-behavioral
// CLI flag, not a SCANNER_* environment knob.
func (c Config) PipelineOptions(enableHeuristics bool) scanpipeline.Options {
	concurrency := c.Parallel.Workers
	if !c.Parallel.Enabled {
		concurrency = 1
	}
	return scanpipeline.Options{
		ParallelThreshold:  c.Parallel.Threshold,
		MaxFindingsPerFile: c.MaxFindingsPerFile,
		EnableHeuristics:   enableHeuristics,
		Concurrency:        concurrency,
	}
}

// MCPClientConfig derives mcpclient.Config from the resolved config, layered
// with the per-target connection details the target builder supplies.
func (c Config) MCPClientConfig(baseURL, bearerToken string, headers map[string]string) mcpclient.Config {
	return mcpclient.Config{
		BaseURL:        baseURL,
		BearerToken:    bearerToken,
		Headers:        headers,
		MaxRetries:     c.MCP.MaxRetries,
		RetryBaseDelay: time.Duration(c.MCP.RetryDelayMS) * time.Millisecond,
		CallTimeout:    time.Duration(c.MCP.TimeoutMS) * time.Millisecond,
	}
}
