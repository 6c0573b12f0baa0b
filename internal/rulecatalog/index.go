package rulecatalog

import "github.com/agentwarden/warden/internal/model"

// IndexedRuleEngine partitions a rule set into a file-type map plus a
// universal list for fast per-file lookup.
type IndexedRuleEngine struct {
	byType    map[string][]model.Rule
	universal []model.Rule
	version   string
}

// NewIndexedRuleEngine builds an IndexedRuleEngine from a LoadResult.
func NewIndexedRuleEngine(lr *LoadResult) *IndexedRuleEngine {
	idx := &IndexedRuleEngine{
		byType:  make(map[string][]model.Rule),
		version: lr.RuleVersion,
	}

	for _, rule := range lr.Rules {
		isUniversal := false
		for _, ft := range rule.FileTypes {
			if ft == model.FileTypeAny {
				isUniversal = true
				continue
			}
			idx.byType[ft] = append(idx.byType[ft], rule)
		}
		if isUniversal {
			idx.universal = append(idx.universal, rule)
		}
	}

	return idx
}

// RulesFor returns universal rules plus rules indexed for fileType.
// Duplicates are retained (not deduped) when a rule lists both "any" and
// fileType.
func (idx *IndexedRuleEngine) RulesFor(fileType string) []model.Rule {
	out := make([]model.Rule, 0, len(idx.universal)+len(idx.byType[fileType]))
	out = append(out, idx.universal...)
	out = append(out, idx.byType[fileType]...)
	return out
}

// Version returns the rule-version hash cache entries are keyed against.
func (idx *IndexedRuleEngine) Version() string {
	return idx.version
}

// RuleCount returns the length of the universal list plus the length of
// every per-type list, so a rule indexed under several file types is
// counted once per type.
func (idx *IndexedRuleEngine) RuleCount() int {
	n := len(idx.universal)
	for _, rules := range idx.byType {
		n += len(rules)
	}
	return n
}
