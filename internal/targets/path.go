package targets

import (
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanpipeline"
)

// Path builds a Built for a plain filesystem directory with no particular
// asset-kind semantics -- the fallback for a scan path argument whose
// directory has no SKILL.md.
func Path(root string, opts FilesystemOptions) (Built, error) {
	sanitized, name, ignorer, filter, err := buildFilesystemTarget(root, opts)
	if err != nil {
		return Built{}, err
	}

	return Built{
		Model: model.Target{
			Kind: model.TargetPath,
			Name: name,
			Path: sanitized,
			Meta: model.TargetMeta{Path: &model.PathMeta{RootPath: sanitized}},
		},
		Scan: scanpipeline.Target{
			Name:          name,
			Root:          sanitized,
			Ignorer:       ignorer,
			PatternFilter: filter,
		},
	}, nil
}
