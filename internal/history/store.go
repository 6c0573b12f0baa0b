// Package history persists completed scans for later retrieval and
// comparison (the CLI's `history` subcommand and `--compare-with` flag).
//
// Only a JSON-file-backed Store is implemented in the core. The
// SQLite-backed Store that SCANNER_STORAGE_BACKEND=sqlite selects is left
// as documented interface + schema: the core never imports a SQLite
// driver, so that Store implementation lives in an external binary built
// against this package's interface.
//
// SQLite schema (external collaborator):
//
//	CREATE TABLE scans (
//	  id            TEXT PRIMARY KEY,
//	  created_at    TEXT NOT NULL,
//	  tag           TEXT,
//	  notes         TEXT,
//	  scanned_files INTEGER NOT NULL,
//	  elapsed_ms    INTEGER NOT NULL
//	);
//	CREATE TABLE targets (
//	  scan_id TEXT NOT NULL REFERENCES scans(id),
//	  kind    TEXT NOT NULL,
//	  name    TEXT NOT NULL,
//	  path    TEXT NOT NULL,
//	  error   TEXT
//	);
//	CREATE TABLE findings (
//	  id       TEXT PRIMARY KEY,
//	  scan_id  TEXT NOT NULL REFERENCES scans(id),
//	  rule_id  TEXT NOT NULL,
//	  severity TEXT NOT NULL,
//	  message  TEXT NOT NULL,
//	  file     TEXT NOT NULL,
//	  line     INTEGER,
//	  category TEXT,
//	  source   TEXT NOT NULL
//	);
package history

import (
	"time"

	"github.com/agentwarden/warden/internal/model"
)

// Record is one saved scan: its result plus the save-time metadata the
// `--save --tag --notes` flags attach.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Tag       string    `json:"tag,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Result    model.ScanResult `json:"result"`
}

// Summary is the lightweight listing shape `history list` renders without
// loading every finding of every saved scan.
type Summary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Tag          string    `json:"tag,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ScannedFiles int       `json:"scannedFiles"`
	ElapsedMS    int64     `json:"elapsedMs"`
	FindingCount int       `json:"findingCount"`
}

// Store persists and retrieves scan Records.
type Store interface {
	// Save assigns rec an ID and CreatedAt if either is zero-valued, then
	// persists it, returning the final ID.
	Save(rec Record) (string, error)
	Load(id string) (Record, error)
	List() ([]Summary, error)
	Delete(id string) error
}

func summarize(rec Record) Summary {
	return Summary{
		ID:           rec.ID,
		CreatedAt:    rec.CreatedAt,
		Tag:          rec.Tag,
		Notes:        rec.Notes,
		ScannedFiles: rec.Result.ScannedFiles,
		ElapsedMS:    rec.Result.ElapsedMS,
		FindingCount: len(rec.Result.Findings),
	}
}
