package targets

import (
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanpipeline"
)

// Skill builds a Built for a skill bundle directory: a SKILL.md plus
// whatever supporting code the skill ships. Manifest absence is not an
// error; callers that want to reject bundles without a manifest should
// check HasSkillManifest themselves before or after calling Skill.
func Skill(root string, opts FilesystemOptions) (Built, error) {
	sanitized, name, ignorer, filter, err := buildFilesystemTarget(root, opts)
	if err != nil {
		return Built{}, err
	}

	built := Built{
		Model: model.Target{
			Kind: model.TargetSkill,
			Name: name,
			Path: sanitized,
		},
		Scan: scanpipeline.Target{
			Name:          name,
			Root:          sanitized,
			Ignorer:       ignorer,
			PatternFilter: filter,
		},
	}

	if !HasSkillManifest(sanitized) {
		built.Warnings = append(built.Warnings, "skill target "+name+" has no SKILL.md at its root")
	}

	return built, nil
}
