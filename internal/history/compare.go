package history

import "github.com/agentwarden/warden/internal/model"

// Diff is the result of comparing a previous scan against the current one,
// backing `--compare-with <id>`.
type Diff struct {
	New      []model.Finding // present now, absent from the prior scan
	Resolved []model.Finding // present in the prior scan, absent now
}

// Compare classifies findings by DedupKey membership in each scan.
func Compare(previous, current model.ScanResult) Diff {
	prevKeys := make(map[[4]string]model.Finding, len(previous.Findings))
	for _, f := range previous.Findings {
		prevKeys[f.DedupKey()] = f
	}
	currKeys := make(map[[4]string]bool, len(current.Findings))

	var diff Diff
	for _, f := range current.Findings {
		key := f.DedupKey()
		currKeys[key] = true
		if _, existed := prevKeys[key]; !existed {
			diff.New = append(diff.New, f)
		}
	}
	for key, f := range prevKeys {
		if !currKeys[key] {
			diff.Resolved = append(diff.Resolved, f)
		}
	}
	return diff
}
