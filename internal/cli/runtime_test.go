package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentwarden/warden/internal/scanpipeline"
)

func TestNewProgressReporterNilWhenTUIDisabled(t *testing.T) {
	prevTUI, prevFormat := globalFlags.TUI, globalFlags.Format
	globalFlags.TUI = false
	globalFlags.Format = "table"
	defer func() { globalFlags.TUI, globalFlags.Format = prevTUI, prevFormat }()

	assert.Nil(t, newProgressReporter("scan", []string{"target-a"}))
}

func TestNewProgressReporterNilWhenNoTargets(t *testing.T) {
	prevTUI, prevFormat := globalFlags.TUI, globalFlags.Format
	globalFlags.TUI = true
	globalFlags.Format = "table"
	defer func() { globalFlags.TUI, globalFlags.Format = prevTUI, prevFormat }()

	assert.Nil(t, newProgressReporter("scan", nil))
}

func TestNewProgressReporterNilForNonTableFormat(t *testing.T) {
	prevTUI, prevFormat := globalFlags.TUI, globalFlags.Format
	globalFlags.TUI = true
	globalFlags.Format = "json"
	defer func() { globalFlags.TUI, globalFlags.Format = prevTUI, prevFormat }()

	assert.Nil(t, newProgressReporter("scan", []string{"target-a"}))
}

func TestNewProgressReporterBuiltWhenEnabled(t *testing.T) {
	prevTUI, prevFormat := globalFlags.TUI, globalFlags.Format
	globalFlags.TUI = true
	globalFlags.Format = "table"
	defer func() { globalFlags.TUI, globalFlags.Format = prevTUI, prevFormat }()

	reporter := newProgressReporter("scan", []string{"target-a"})
	assert.NotNil(t, reporter)
}

func TestProgressReporterOrNilHandlesNilPointer(t *testing.T) {
	var got scanpipeline.ProgressReporter = progressReporterOrNil(nil)
	assert.Nil(t, got)
}
