// Package scanerrors defines Warden's error taxonomy: a tagged error per
// recoverable failure variant, all implementing the shared ExitCoder
// interface so internal/cli's Execute can extract a process exit code
// through CodeOf.
package scanerrors

import "fmt"

// ExitCode is the process exit code a failure should produce.
type ExitCode int

const (
	ExitSuccess        ExitCode = 0
	ExitUsageError     ExitCode = 1
	ExitFindingsFailed ExitCode = 2
)

// ExitCoder is implemented by every error type in this package.
type ExitCoder interface {
	error
	ExitCode() ExitCode
}

// taggedError is the shared implementation behind every variant below.
type taggedError struct {
	tag  string
	code ExitCode
	msg  string
	err  error
}

func (e *taggedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.tag, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.tag, e.msg)
}

func (e *taggedError) ExitCode() ExitCode { return e.code }
func (e *taggedError) Unwrap() error      { return e.err }

// PathUnsafe is returned by iosafe when a path fails the safety check; the
// file is skipped, no exit code implication beyond usage success.
func PathUnsafe(reason, path string) error {
	return &taggedError{tag: "PathUnsafe", code: ExitSuccess, msg: reason + ": " + path}
}

// FileTooLarge is returned when a file exceeds MaxScanBytes.
func FileTooLarge(path string, size int64) error {
	return &taggedError{tag: "FileTooLarge", code: ExitSuccess, msg: fmt.Sprintf("%s (%d bytes)", path, size)}
}

// BinaryDetected is returned when a file is classified binary.
func BinaryDetected(path string) error {
	return &taggedError{tag: "BinaryDetected", code: ExitSuccess, msg: path}
}

// RegexTimeout is returned when a rule's cumulative match budget is
// exhausted on a file; that rule stops on that file.
func RegexTimeout(ruleID, path string) error {
	return &taggedError{tag: "RegexTimeout", code: ExitSuccess, msg: ruleID + " on " + path}
}

// RuleCompileError is returned for a pattern dropped at catalog load time.
func RuleCompileError(ruleID, pattern string, cause error) error {
	return &taggedError{tag: "RuleCompileError", code: ExitSuccess, msg: ruleID + ": " + pattern, err: cause}
}

// CacheIOError is logged and the pipeline proceeds without caching.
func CacheIOError(op string, cause error) error {
	return &taggedError{tag: "CacheIOError", code: ExitSuccess, msg: op, err: cause}
}

// MCPMethodNotFound corresponds to JSON-RPC -32601; the feature is treated
// as absent, not a failure.
func MCPMethodNotFound(method string) error {
	return &taggedError{tag: "McpMethodNotFound", code: ExitSuccess, msg: method}
}

// IsMethodNotFound reports whether err is an MCPMethodNotFound error.
func IsMethodNotFound(err error) bool {
	te, ok := err.(*taggedError)
	return ok && te.tag == "McpMethodNotFound"
}

// MCPRPCError is a JSON-RPC error response after retry exhaustion.
func MCPRPCError(code int, message string) error {
	return &taggedError{tag: "McpRpcError", code: ExitUsageError, msg: fmt.Sprintf("[%d] %s", code, message)}
}

// MCPNetworkError is a transport failure after retry exhaustion.
func MCPNetworkError(cause error) error {
	return &taggedError{tag: "McpNetworkError", code: ExitUsageError, msg: "network error", err: cause}
}

// Usage is a fatal CLI usage error.
func Usage(msg string) error {
	return &taggedError{tag: "UsageError", code: ExitUsageError, msg: msg}
}

// FindingBudgetExceeded is a warning; the scan still succeeds.
func FindingBudgetExceeded(cap int) error {
	return &taggedError{tag: "FindingBudgetExceeded", code: ExitSuccess, msg: fmt.Sprintf("cap=%d", cap)}
}

// FindingsThreshold indicates --fail-on (or --fail-on-findings) matched;
// the process should exit 2 even though the scan itself succeeded.
func FindingsThreshold(msg string) error {
	return &taggedError{tag: "FindingsThreshold", code: ExitFindingsFailed, msg: msg}
}

// CodeOf extracts the process exit code from err, defaulting to
// ExitUsageError for any non-nil error that isn't an ExitCoder, and
// ExitSuccess for nil.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	if ec, ok := err.(ExitCoder); ok {
		return ec.ExitCode()
	}
	return ExitUsageError
}
