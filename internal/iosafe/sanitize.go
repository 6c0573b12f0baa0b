// Package iosafe provides path sanitization and safety classification,
// binary sniffing, encoding detection, and the file-size policy used
// before any file's content is handed to the scan engine.
package iosafe

import (
	"os"
	"path/filepath"
	"strings"
)

// SanitizePath strips null bytes, expands a leading ~/~ to the user's home
// directory, normalizes . and .. segments, and converts to an absolute path.
// It is idempotent: SanitizePath(SanitizePath(p)) == SanitizePath(p) for any
// non-empty input.
func SanitizePath(p string) string {
	p = strings.ReplaceAll(p, "\x00", "")

	if p == "" {
		p = "."
	}

	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			p = home
		}
	} else if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}

	p = filepath.Clean(p)

	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}

	return p
}
