// Package model defines the data types shared across every scanning stage in
// Warden: the rule catalog, the scan engine, the cache, the pipeline, and the
// MCP virtualizer all operate on these DTOs. model has zero dependency on
// any other internal package so it can sit at the bottom of the import
// graph.
package model

import "strings"

// Severity is a totally ordered finding severity.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String renders the severity using the catalog's canonical spelling.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity parses the canonical spelling (case-insensitive) back into a
// Severity. It returns false for anything else, so callers can distinguish a
// genuinely unknown value from SeverityLow.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToUpper(s) {
	case "LOW":
		return SeverityLow, true
	case "MEDIUM":
		return SeverityMedium, true
	case "HIGH":
		return SeverityHigh, true
	case "CRITICAL":
		return SeverityCritical, true
	default:
		return SeverityLow, false
	}
}
