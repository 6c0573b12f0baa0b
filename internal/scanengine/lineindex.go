// Package scanengine runs the compiled rule catalog against file content:
// line indexing, a bounded per-rule match loop with ReDoS timeouts and caps,
// and post-hoc confidence scoring. Heuristics live in the heuristics
// subpackage.
package scanengine

import "sort"

// LineIndex translates a byte offset into a 1-based line number in O(log n).
type LineIndex struct {
	starts []int // byte offset of the start of each line; starts[0] == 0
}

// BuildLineIndex scans content once for line-start offsets.
func BuildLineIndex(content string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// LineAt returns the 1-based line number containing byte offset.
func (li *LineIndex) LineAt(offset int) int {
	// Find the last line-start <= offset.
	i := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	return i // i is 1-based already since starts[0]==0 maps to line 1.
}
