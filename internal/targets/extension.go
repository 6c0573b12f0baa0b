package targets

import (
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanpipeline"
)

// Extension builds a Built for an unpacked browser extension directory.
// browser identifies the originating browser ("chrome", "firefox", "edge",
// ...); profile is the browser profile name the extension was found under,
// when the caller knows it.
func Extension(root, browser, profile string, opts FilesystemOptions) (Built, error) {
	sanitized, name, ignorer, filter, err := buildFilesystemTarget(root, opts)
	if err != nil {
		return Built{}, err
	}

	built := Built{
		Model: model.Target{
			Kind: model.TargetExtension,
			Name: name,
			Path: sanitized,
			Meta: model.TargetMeta{Browser: &model.BrowserMeta{Browser: browser, Profile: profile}},
		},
		Scan: scanpipeline.Target{
			Name:          name,
			Root:          sanitized,
			Ignorer:       ignorer,
			PatternFilter: filter,
		},
	}

	if !HasExtensionManifest(sanitized) {
		built.Warnings = append(built.Warnings, "extension target "+name+" has no manifest.json at its root")
	}

	return built, nil
}
