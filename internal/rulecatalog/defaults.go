package rulecatalog

import (
	_ "embed"
	"crypto/sha256"
	"encoding/hex"
)

//go:embed assets/default_rules.yaml
var defaultRulesYAML []byte

// LoadDefault parses the catalog shipped with the binary. It is the base
// layer every run starts from; scanconfig.Config.RuleCatalogPaths names
// additional files merged on top.
func LoadDefault() (*LoadResult, error) {
	return Load(defaultRulesYAML)
}

// LoadWithExtras loads the default catalog plus any extra catalog files,
// in order, concatenating their rule sets. A later file's rules simply add
// to the index; duplicate rule IDs across files are both kept, matching
// Load's own no-dedup behavior for file_types.
func LoadWithExtras(extraPaths []string) (*LoadResult, error) {
	base, err := LoadDefault()
	if err != nil {
		return nil, err
	}

	versions := []byte(base.RuleVersion)
	for _, path := range extraPaths {
		extra, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		base.Rules = append(base.Rules, extra.Rules...)
		base.Dropped = append(base.Dropped, extra.Dropped...)
		versions = append(versions, []byte(extra.RuleVersion)...)
	}

	if len(extraPaths) > 0 {
		sum := sha256.Sum256(versions)
		base.RuleVersion = hex.EncodeToString(sum[:])
	}

	return base, nil
}
