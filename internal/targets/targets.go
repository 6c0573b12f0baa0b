// Package targets builds scan-ready targets from a resolved filesystem path
// or a reachable MCP server. It sits between whatever enumerates candidate
// roots (the CLI's path argument and the subdirectories of its --skills-dir/
// --extensions-dir/--ide-extensions-dir flags, or an `mcp remote` URL
// argument) and the scan pipeline: every constructor here returns both the
// caller-facing model.Target (for reporting) and the scanpipeline.Target the
// pipeline actually consumes, built from the same validated root.
package targets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentwarden/warden/internal/iosafe"
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/pathwalk"
	"github.com/agentwarden/warden/internal/scanpipeline"
)

// Built bundles a logical target with the concrete scan unit derived from
// it, plus any non-fatal warnings collected while building it.
type Built struct {
	Model    model.Target
	Scan     scanpipeline.Target
	Warnings []string
}

// FilesystemOptions configures the ignore chain layered on top of the
// mandatory default skip-dir/extension blacklist for a directory-rooted
// target.
type FilesystemOptions struct {
	UseGitignore    bool
	UseWardenignore bool
	ExtraExcludes   []string
}

const wardenIgnoreFileName = ".wardenignore"

// buildFilesystemTarget validates root and assembles its ignore chain,
// returning the sanitized root, its base name, the composite ignorer, and
// the optional pattern filter. Callers build the Built from these and fill
// in the Model's Kind, Name, and Meta.
func buildFilesystemTarget(root string, opts FilesystemOptions) (string, string, *pathwalk.CompositeIgnorer, *pathwalk.PatternFilter, error) {
	sanitized := iosafe.SanitizePath(root)

	info, err := os.Stat(sanitized)
	if err != nil {
		return "", "", nil, nil, fmt.Errorf("targets: stat %s: %w", sanitized, err)
	}
	if !info.IsDir() {
		return "", "", nil, nil, fmt.Errorf("targets: %s is not a directory", sanitized)
	}

	name := filepath.Base(sanitized)

	ignorers := []pathwalk.Ignorer{pathwalk.NewDefaultIgnoreMatcher()}
	if opts.UseGitignore {
		if m, err := pathwalk.NewGlobIgnoreMatcher(sanitized, ".gitignore"); err == nil {
			ignorers = append(ignorers, m)
		}
	}
	if opts.UseWardenignore {
		if m, err := pathwalk.NewGlobIgnoreMatcher(sanitized, wardenIgnoreFileName); err == nil {
			ignorers = append(ignorers, m)
		}
	}

	var patternFilter *pathwalk.PatternFilter
	if len(opts.ExtraExcludes) > 0 {
		patternFilter = pathwalk.NewPatternFilter(pathwalk.PatternFilterOptions{Excludes: opts.ExtraExcludes})
	}

	return sanitized, name, pathwalk.NewCompositeIgnorer(ignorers...), patternFilter, nil
}

// hasBasename reports whether root directly contains a file named basename.
// Used as an advisory check, not a hard gate: a skill directory missing
// SKILL.md or an extension directory missing manifest.json is still scanned,
// just flagged to the caller so it can decide whether to warn or skip.
func hasBasename(root, basename string) bool {
	info, err := os.Stat(filepath.Join(root, basename))
	return err == nil && !info.IsDir()
}

// HasSkillManifest reports whether root contains a SKILL.md file.
func HasSkillManifest(root string) bool {
	return hasBasename(root, "SKILL.md")
}

// HasExtensionManifest reports whether root contains a manifest.json file.
func HasExtensionManifest(root string) bool {
	return hasBasename(root, "manifest.json")
}
