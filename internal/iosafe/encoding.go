package iosafe

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding is the detected text encoding of a file's content.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF16BE Encoding = "utf-16be"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingLatin1  Encoding = "latin1"
	EncodingBinary  Encoding = "binary"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// sniffWindow is how much of the file DetectEncoding inspects for a null
// byte before calling it binary.
const sniffWindow = 8192

// DetectEncoding runs the encoding heuristic: BOM sniffing first, then a
// null-byte-in-first-8KiB binary check, then a UTF-8 validity vote against
// high-bit bytes to decide between utf-8 and latin1.
//
// The latin1 fallback decodes through golang.org/x/text/encoding/charmap
// (already pulled in for bubbles' rune-width tables, promoted to direct use
// here) rather than a hand-rolled byte-range table.
func DetectEncoding(content []byte) Encoding {
	if bytes.HasPrefix(content, bomUTF8) {
		return EncodingUTF8
	}
	if bytes.HasPrefix(content, bomUTF16BE) {
		return EncodingUTF16BE
	}
	if bytes.HasPrefix(content, bomUTF16LE) {
		return EncodingUTF16LE
	}

	window := content
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	if bytes.IndexByte(window, 0) != -1 {
		return EncodingBinary
	}

	highBytes := 0
	validSequences := 0
	invalidSequences := 0

	for i := 0; i < len(window); {
		b := window[i]
		if b < 0x80 {
			i++
			continue
		}
		highBytes++

		r, size := utf8.DecodeRune(window[i:])
		if r == utf8.RuneError && size <= 1 {
			invalidSequences++
			i++
			continue
		}
		validSequences++
		i += size
	}

	if highBytes == 0 {
		return EncodingUTF8
	}
	if invalidSequences > validSequences {
		return EncodingLatin1
	}
	return EncodingUTF8
}

// DecodeLatin1 converts a Latin-1 (ISO-8859-1) byte sequence to a UTF-8 Go
// string using golang.org/x/text/encoding/charmap's ISO8859_1 decoder.
func DecodeLatin1(b []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
