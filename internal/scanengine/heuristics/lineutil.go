package heuristics

import "sort"

// offsetLineLocator is a minimal, package-local line index so heuristics
// doesn't need to import the parent scanengine package (which imports
// heuristics, not the other way around).
type offsetLineLocator struct {
	starts []int
}

func newOffsetLineLocator(content string) *offsetLineLocator {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &offsetLineLocator{starts: starts}
}

func (l *offsetLineLocator) lineAt(offset int) int {
	return sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
}
