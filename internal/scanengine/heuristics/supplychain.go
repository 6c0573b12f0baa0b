package heuristics

import (
	"encoding/json"
	"regexp"
	"sort"

	"github.com/agentwarden/warden/internal/model"
)

const (
	CategorySupplyChainInstallScript    = "SUPPLY_CHAIN_INSTALL_SCRIPT"
	CategorySupplyChainRemoteFetch      = "SUPPLY_CHAIN_REMOTE_FETCH"
	CategorySupplyChainRemoteExec       = "SUPPLY_CHAIN_REMOTE_EXEC"
	CategorySupplyChainPermissionChange = "SUPPLY_CHAIN_PERMISSION_CHANGE"
)

var installScriptNames = map[string]bool{
	"preinstall": true, "install": true, "postinstall": true,
	"prepare": true, "prepublish": true, "prepack": true, "postpack": true,
}

var (
	downloaderRe     = regexp.MustCompile(`\b(curl|wget)\b`)
	shellPipeRe      = regexp.MustCompile(`\|\s*(sh|bash|zsh)\b`)
	permissionRe     = regexp.MustCompile(`\b(chmod|chown)\b`)
)

// packageJSON is the minimal subset of package.json this heuristic reads.
type packageJSON struct {
	Scripts map[string]string `json:"scripts"`
}

// ScanPackageJSON inspects a package.json's scripts block for install-time
// and remote-execution supply-chain risk patterns.
func ScanPackageJSON(path, content string) []model.Finding {
	var pkg packageJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil
	}

	names := make([]string, 0, len(pkg.Scripts))
	for name := range pkg.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []model.Finding
	for _, name := range names {
		cmd := pkg.Scripts[name]

		if installScriptNames[name] {
			findings = append(findings, finding(path, model.SeverityMedium, CategorySupplyChainInstallScript,
				"install-time script \""+name+"\" runs: "+cmd))
		}

		hasDownloader := downloaderRe.MatchString(cmd)
		hasShellPipe := shellPipeRe.MatchString(cmd)

		if hasDownloader && hasShellPipe {
			findings = append(findings, finding(path, model.SeverityCritical, CategorySupplyChainRemoteExec,
				"script \""+name+"\" pipes a remote download into a shell: "+cmd))
		} else if hasDownloader {
			findings = append(findings, finding(path, model.SeverityHigh, CategorySupplyChainRemoteFetch,
				"script \""+name+"\" fetches a remote resource: "+cmd))
		}

		if permissionRe.MatchString(cmd) {
			findings = append(findings, finding(path, model.SeverityHigh, CategorySupplyChainPermissionChange,
				"script \""+name+"\" changes file permissions: "+cmd))
		}
	}

	return findings
}

// finding builds a heuristic-sourced Finding, using category as the rule ID
// as well -- heuristic categories are already rule-identifier shaped, so
// there is no separate rule taxonomy to maintain for these detectors.
func finding(path string, sev model.Severity, category, msg string) model.Finding {
	return model.Finding{
		RuleID:   category,
		Severity: sev,
		Message:  msg,
		File:     path,
		Category: category,
		Source:   model.SourceHeuristic,
	}
}
