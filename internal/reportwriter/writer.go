// Package reportwriter renders a completed scan result to an external
// format. Only the formats the core owns directly (JSON and SARIF) have
// implementations here; CSV and HTML are external-collaborator concerns
// that consume the JSON envelope rather than this interface.
package reportwriter

import (
	"io"

	"github.com/agentwarden/warden/internal/model"
)

// Writer renders a ScanResult to w in one report format.
type Writer interface {
	Write(w io.Writer, result model.ScanResult) error
}

// ForFormat returns the Writer for a named format, and false if the format
// isn't one the core renders directly.
func ForFormat(format string) (Writer, bool) {
	switch format {
	case "json":
		return JSONWriter{}, true
	case "sarif":
		return SARIFWriter{}, true
	default:
		return nil, false
	}
}
