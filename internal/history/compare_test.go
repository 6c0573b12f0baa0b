package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentwarden/warden/internal/model"
)

func TestCompare_NewFindingDetected(t *testing.T) {
	previous := model.ScanResult{}
	current := model.ScanResult{Findings: []model.Finding{
		{RuleID: "R1", File: "a.sh", Line: 1, Message: "m"},
	}}

	diff := Compare(previous, current)
	assert.Len(t, diff.New, 1)
	assert.Empty(t, diff.Resolved)
}

func TestCompare_ResolvedFindingDetected(t *testing.T) {
	previous := model.ScanResult{Findings: []model.Finding{
		{RuleID: "R1", File: "a.sh", Line: 1, Message: "m"},
	}}
	current := model.ScanResult{}

	diff := Compare(previous, current)
	assert.Empty(t, diff.New)
	assert.Len(t, diff.Resolved, 1)
}

func TestCompare_UnchangedFindingNeitherNewNorResolved(t *testing.T) {
	finding := model.Finding{RuleID: "R1", File: "a.sh", Line: 1, Message: "m"}
	previous := model.ScanResult{Findings: []model.Finding{finding}}
	current := model.ScanResult{Findings: []model.Finding{finding}}

	diff := Compare(previous, current)
	assert.Empty(t, diff.New)
	assert.Empty(t, diff.Resolved)
}

func TestCompare_DistinguishesByLineAndMessage(t *testing.T) {
	previous := model.ScanResult{Findings: []model.Finding{
		{RuleID: "R1", File: "a.sh", Line: 1, Message: "m"},
	}}
	current := model.ScanResult{Findings: []model.Finding{
		{RuleID: "R1", File: "a.sh", Line: 2, Message: "m"},
	}}

	diff := Compare(previous, current)
	assert.Len(t, diff.New, 1)
	assert.Len(t, diff.Resolved, 1)
}
