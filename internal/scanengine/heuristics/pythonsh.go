package heuristics

import (
	"regexp"

	"github.com/agentwarden/warden/internal/model"
)

const (
	CategoryPythonShellInjection  = "PYTHON_SHELL_INJECTION"
	CategoryPythonUnsafeDeserialize = "PYTHON_UNSAFE_DESERIALIZE"
	CategoryShellRemoteExec       = "SHELL_REMOTE_EXEC"
)

var (
	subprocessShellTrueRe = regexp.MustCompile(`subprocess\.(run|call|Popen|check_output)\s*\([^)]*shell\s*=\s*True`)
	pickleLoadRe          = regexp.MustCompile(`pickle\.loads?\s*\(`)
	curlPipeShellRe       = regexp.MustCompile(`(curl|wget)[^|\n]*\|\s*(sh|bash)\b`)
)

// ScanPython runs the subprocess/pickle command-injection and unsafe
// deserialization heuristics over Python source.
func ScanPython(path, content string) []model.Finding {
	li := newOffsetLineLocator(content)
	var out []model.Finding

	for _, loc := range subprocessShellTrueRe.FindAllStringIndex(content, -1) {
		out = append(out, model.Finding{
			RuleID:   CategoryPythonShellInjection,
			Severity: model.SeverityHigh,
			Message:  "subprocess call with shell=True risks command injection",
			File:     path,
			Line:     li.lineAt(loc[0]),
			Category: CategoryPythonShellInjection,
			Source:   model.SourceHeuristic,
		})
	}

	for _, loc := range pickleLoadRe.FindAllStringIndex(content, -1) {
		out = append(out, model.Finding{
			RuleID:   CategoryPythonUnsafeDeserialize,
			Severity: model.SeverityHigh,
			Message:  "pickle.load(s) deserializes untrusted data unsafely",
			File:     path,
			Line:     li.lineAt(loc[0]),
			Category: CategoryPythonUnsafeDeserialize,
			Source:   model.SourceHeuristic,
		})
	}

	return out
}

// ScanShell runs the curl/wget-piped-into-shell remote execution heuristic
// over shell script source.
func ScanShell(path, content string) []model.Finding {
	li := newOffsetLineLocator(content)
	var out []model.Finding

	for _, loc := range curlPipeShellRe.FindAllStringIndex(content, -1) {
		out = append(out, model.Finding{
			RuleID:   CategoryShellRemoteExec,
			Severity: model.SeverityCritical,
			Message:  "pipes a remote download directly into a shell",
			File:     path,
			Line:     li.lineAt(loc[0]),
			Category: CategoryShellRemoteExec,
			Source:   model.SourceHeuristic,
		})
	}

	return out
}
