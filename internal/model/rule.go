package model

import "github.com/dlclark/regexp2"

// CompiledPattern pairs a rule pattern's original source with its compiled
// regexp2 form. regexp2 (rather than stdlib regexp) is used because its
// Regexp.MatchTimeout field gives the per-match ReDoS bound the scan engine
// requires natively, and it understands the PCRE (?i) inline flag the rule
// catalog's source patterns may carry.
type CompiledPattern struct {
	Source   string
	Compiled *regexp2.Regexp
}

// Rule is immutable after load. A rule with zero compiled patterns is
// retained only when a heuristic references its ID; otherwise it is inert.
type Rule struct {
	ID              string
	Category        string
	Severity        Severity
	Patterns        []CompiledPattern
	ExcludePatterns []CompiledPattern
	FileTypes       []string // "any" is the wildcard
	Description     string
	Remediation     string
}

// FileTypeAny is the wildcard file-type tag matched by every file.
const FileTypeAny = "any"

// MatchesFileType reports whether the rule applies to fileType, either via
// an exact tag match or the "any" wildcard.
func (r Rule) MatchesFileType(fileType string) bool {
	for _, t := range r.FileTypes {
		if t == FileTypeAny || t == fileType {
			return true
		}
	}
	return false
}
