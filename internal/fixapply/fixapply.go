// Package fixapply comments out the lines named by a finding, grouped by
// file, preserving indentation and line endings. It is idempotent: a line
// already commented per its file's style is left untouched.
package fixapply

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agentwarden/warden/internal/model"
)

// Apply fixes every eligible finding in place on disk and returns the
// findings that were NOT fixed (heuristic-sourced, missing a line number,
// targeting a virtual mcp:// path, or whose extension has no safe comment
// convention), plus a warning per file read/write failure. It satisfies
// scanpipeline.FixFunc's signature.
func Apply(findings []model.Finding) (remaining []model.Finding, warnings []string, err error) {
	byFile := make(map[string][]int) // file -> indices into findings
	for i, f := range findings {
		byFile[f.File] = append(byFile[f.File], i)
	}

	fixed := make(map[int]bool, len(findings))

	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		indices := byFile[file]

		if isVirtualPath(file) {
			continue
		}

		style := StyleForPath(file)
		if style.None {
			continue
		}

		var targets []int
		for _, idx := range indices {
			f := findings[idx]
			if f.Source == model.SourceHeuristic || f.Line <= 0 {
				continue
			}
			targets = append(targets, idx)
		}
		if len(targets) == 0 {
			continue
		}

		if applyErr := applyToFile(file, style, findings, targets, fixed); applyErr != nil {
			warnings = append(warnings, fmt.Sprintf("fixapply: %s: %v", file, applyErr))
		}
	}

	remaining = make([]model.Finding, 0, len(findings))
	for i, f := range findings {
		if !fixed[i] {
			remaining = append(remaining, f)
		}
	}
	return remaining, warnings, nil
}

func isVirtualPath(path string) bool {
	return strings.HasPrefix(path, "mcp://")
}

// applyToFile rewrites the targeted lines of file in place, marking each
// finding index in fixed once its line has been (or already was) commented.
func applyToFile(file string, style CommentStyle, findings []model.Finding, targets []int, fixed map[int]bool) error {
	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	ending := detectLineEnding(data)
	lines := strings.Split(normalizeToLF(data), "\n")

	linesByNumber := make(map[int][]int) // 1-based line -> finding indices targeting it
	for _, idx := range targets {
		line := findings[idx].Line
		linesByNumber[line] = append(linesByNumber[line], idx)
	}

	changed := false
	for lineNo, idxs := range linesByNumber {
		pos := lineNo - 1
		if pos < 0 || pos >= len(lines) {
			continue
		}

		indent, content := splitIndent(lines[pos])
		if style.AlreadyCommented(content) {
			for _, idx := range idxs {
				fixed[idx] = true
			}
			continue
		}

		lines[pos] = style.Apply(indent, content)
		changed = true
		for _, idx := range idxs {
			fixed[idx] = true
		}
	}

	if !changed {
		return nil
	}

	out := strings.Join(lines, ending)
	return os.WriteFile(file, []byte(out), info.Mode().Perm())
}

// detectLineEnding returns "\r\n" if the first newline in data is preceded
// by a carriage return, else "\n".
func detectLineEnding(data []byte) string {
	idx := strings.IndexByte(string(data), '\n')
	if idx > 0 && data[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func normalizeToLF(data []byte) string {
	return strings.ReplaceAll(string(data), "\r\n", "\n")
}

func splitIndent(line string) (indent, content string) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i], line[i:]
}
