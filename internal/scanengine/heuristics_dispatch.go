package scanengine

import (
	"path/filepath"

	"github.com/agentwarden/warden/internal/filetype"
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanengine/heuristics"
)

// RunHeuristics dispatches to the behavioral detectors relevant to path's
// file type and basename. Callers gate this behind behavioral-scan mode;
// the engine itself runs it unconditionally once invoked.
func (e *Engine) RunHeuristics(path, content, fType string) []model.Finding {
	var out []model.Finding

	out = append(out, heuristics.ScanEntropy(path, content)...)

	base := filepath.Base(path)

	switch {
	case fType == filetype.JSON && base == "package.json":
		out = append(out, heuristics.ScanPackageJSON(path, content)...)
	case fType == filetype.Manifest && base == "manifest.json":
		out = append(out, heuristics.ScanExtensionManifest(path, content)...)
	case fType == filetype.JavaScript || fType == filetype.TypeScript:
		out = append(out, heuristics.ScanJSCode(path, content)...)
	case fType == filetype.Python:
		out = append(out, heuristics.ScanPython(path, content)...)
	case fType == filetype.Bash:
		out = append(out, heuristics.ScanShell(path, content)...)
	}

	for i := range out {
		out[i].FileType = fType
	}

	return out
}
