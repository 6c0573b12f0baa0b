package model

import "time"

// CacheEntry is the content-addressed per-file result cache's value type.
// It is valid only when RuleVersion matches the live catalog's version AND
// now-Timestamp < TTL AND re-hashing the file yields the same SHA256.
type CacheEntry struct {
	SHA256      string    `json:"sha256"`
	Findings    []Finding `json:"findings"`
	Timestamp   time.Time `json:"timestamp"`
	RuleVersion string    `json:"ruleVersion"`
}
