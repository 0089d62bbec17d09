package app

import (
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/metaed/metaed/event"
	"github.com/metaed/metaed/filemap"
)

// ExpandInputs resolves input globs to files in lexical order, the order in
// which a unit's sources are concatenated. A file matched by several globs is
// listed once.
func ExpandInputs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand input %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// readEvents decodes the recorded events of one file. It returns the number
// of source lines the events span.
func readEvents(path string) ([]event.Event, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	events, err := event.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	lines := 0
	for _, ev := range events {
		lines = max(lines, ev.Location.Line)
	}
	return events, lines, nil
}

// concat joins per-file event streams into one stream over the aggregated
// source text, shifting line numbers past the preceding files. The returned
// index maps aggregated lines back to files.
func concat(files []string, streams [][]event.Event, lineCounts []int) ([]event.Event, *filemap.Index) {
	var (
		out    []event.Event
		index  []filemap.File
		offset int
	)
	for i, stream := range streams {
		for _, ev := range stream {
			if ev.Location.Line > 0 {
				ev.Location.Line += offset
			}
			out = append(out, ev)
		}
		index = append(index, filemap.File{Name: files[i], LineCount: lineCounts[i]})
		offset += lineCounts[i]
	}
	return out, filemap.NewIndex(index...)
}
