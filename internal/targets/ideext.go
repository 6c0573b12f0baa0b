package targets

import (
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanpipeline"
)

// IDEExtension builds a Built for an installed IDE extension directory. ide
// identifies the originating IDE family ("vscode", "jetbrains", "zed").
func IDEExtension(root, ide string, opts FilesystemOptions) (Built, error) {
	sanitized, name, ignorer, filter, err := buildFilesystemTarget(root, opts)
	if err != nil {
		return Built{}, err
	}

	return Built{
		Model: model.Target{
			Kind: model.TargetIDEExtension,
			Name: name,
			Path: sanitized,
			Meta: model.TargetMeta{IDE: &model.IDEMeta{IDE: ide}},
		},
		Scan: scanpipeline.Target{
			Name:          name,
			Root:          sanitized,
			Ignorer:       ignorer,
			PatternFilter: filter,
		},
	}, nil
}
