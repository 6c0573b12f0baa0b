package iosafe

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// GitStyleSniffBytes is the sample window of IsBinarySample, the
// authoritative 512-byte/ratio classification the scan engine relies on.
// IsBinaryFile, the cheap directory-walk prefilter, reads its own 8KiB
// window instead.
const GitStyleSniffBytes = 512

// IsBinaryFile reads the first 8KiB of the file at path and reports whether
// it contains a null byte -- a cheap Git-style heuristic for directory-walk
// prefiltering.
func IsBinaryFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s for binary detection: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 8192)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading %s for binary detection: %w", path, err)
	}
	if n == 0 {
		return false, nil
	}
	return bytes.IndexByte(buf[:n], 0) != -1, nil
}

// IsBinarySample is the authoritative binary sniff: an empty sample is not
// binary; any null byte in the first 512 bytes makes it binary; otherwise
// count bytes in [0x00,0x09) ∪ (0x0D,0x20) ∪ {0x7F} and classify binary when
// that ratio exceeds 0.2.
func IsBinarySample(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content
	if len(sample) > GitStyleSniffBytes {
		sample = sample[:GitStyleSniffBytes]
	}

	if bytes.IndexByte(sample, 0) != -1 {
		return true
	}

	controlCount := 0
	for _, b := range sample {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			controlCount++
		}
	}

	ratio := float64(controlCount) / float64(len(sample))
	return ratio > 0.2
}

// FileSizePolicy bundles the two size thresholds the scanner enforces.
type FileSizePolicy struct {
	MaxScanBytes       int64
	StreamingThreshold int64
}

// DefaultFileSizePolicy returns the default policy: 5MiB max, 10MiB
// streaming threshold (the latter currently unused by any read path; it
// exists so a future streaming reader can be wired in without a new
// constant).
func DefaultFileSizePolicy() FileSizePolicy {
	return FileSizePolicy{
		MaxScanBytes:       5 * 1024 * 1024,
		StreamingThreshold: 10 * 1024 * 1024,
	}
}

// Check reports whether size exceeds the max-scan-bytes cap.
func (p FileSizePolicy) Check(size int64) (tooLarge bool) {
	return size > p.MaxScanBytes
}
