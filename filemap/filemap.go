// Package filemap translates line numbers in the aggregated source text, built
// by concatenating input files in a fixed order, back to file-relative lines.
package filemap

import (
	"sort"
)

// File is one input in concatenation order.
type File struct {
	Name      string
	LineCount int
}

type segment struct {
	name  string
	start int // first aggregated line, 1-based
	end   int // last aggregated line, inclusive
}

// Index maps aggregated line numbers to files.
type Index struct {
	segments []segment
}

// NewIndex builds an Index for files concatenated in the given order. Files
// with no lines occupy no range.
func NewIndex(files ...File) *Index {
	idx := &Index{}
	next := 1
	for _, f := range files {
		if f.LineCount <= 0 {
			continue
		}
		idx.segments = append(idx.segments, segment{
			name:  f.Name,
			start: next,
			end:   next + f.LineCount - 1,
		})
		next += f.LineCount
	}
	return idx
}

// Resolve returns the file and file-relative line for an aggregated line.
func (idx *Index) Resolve(line int) (string, int, bool) {
	if idx == nil || line <= 0 {
		return "", 0, false
	}
	i := sort.Search(len(idx.segments), func(i int) bool {
		return idx.segments[i].end >= line
	})
	if i == len(idx.segments) || idx.segments[i].start > line {
		return "", 0, false
	}
	seg := idx.segments[i]
	return seg.name, line - seg.start + 1, true
}

// Lines returns the total number of aggregated lines.
func (idx *Index) Lines() int {
	if idx == nil || len(idx.segments) == 0 {
		return 0
	}
	return idx.segments[len(idx.segments)-1].end
}
