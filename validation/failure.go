// Package validation holds the diagnostics produced while building the entity
// repository. Failures are collected, never returned as errors: a build keeps
// going past them.
package validation

import (
	"fmt"
	"iter"
	"strings"

	"github.com/metaed/metaed/entity"
)

// Category is the severity of a Failure.
type Category string

const (
	CategoryError   Category = "error"
	CategoryWarning Category = "warning"
)

// FilePosition is a Location translated back to the input file it came from.
type FilePosition struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Failure describes one problem found in user input.
type Failure struct {
	ValidatorName string          `json:"validatorName"`
	Category      Category        `json:"category"`
	Message       string          `json:"message"`
	SourceMap     entity.Location `json:"sourceMap"`
	File          *FilePosition   `json:"fileMap,omitempty"`
}

// String formats the failure for display, including validator and location.
func (f Failure) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", f.Category, f.ValidatorName, f.Message))
	switch {
	case f.File != nil:
		b.WriteString(fmt.Sprintf(" (%s:%d:%d)", f.File.File, f.File.Line, f.File.Column))
	case f.SourceMap.Line > 0:
		b.WriteString(fmt.Sprintf(" (line %d, column %d)", f.SourceMap.Line, f.SourceMap.Column))
	}
	return b.String()
}

// Failures accumulates failures in the order they are detected.
type Failures struct {
	list []Failure
}

// Add appends an error category failure.
func (fs *Failures) Add(validatorName string, loc entity.Location, format string, args ...any) Failure {
	f := Failure{
		ValidatorName: validatorName,
		Category:      CategoryError,
		Message:       fmt.Sprintf(format, args...),
		SourceMap:     loc,
	}
	fs.list = append(fs.list, f)
	return f
}

// Len returns the number of failures collected.
func (fs *Failures) Len() int {
	return len(fs.list)
}

// All returns the failures in detection order.
func (fs *Failures) All() iter.Seq[Failure] {
	return func(yield func(Failure) bool) {
		for _, f := range fs.list {
			if !yield(f) {
				return
			}
		}
	}
}

// List returns a copy of the collected failures.
func (fs *Failures) List() []Failure {
	out := make([]Failure, len(fs.list))
	copy(out, fs.list)
	return out
}

// HasErrors reports whether any failure has the error category.
func (fs *Failures) HasErrors() bool {
	for _, f := range fs.list {
		if f.Category == CategoryError {
			return true
		}
	}
	return false
}

// Resolve fills in File for every failure using resolve. Failures resolve
// cannot place are left untouched.
func (fs *Failures) Resolve(resolve func(line int) (string, int, bool)) {
	for i := range fs.list {
		f := &fs.list[i]
		if f.SourceMap.Line <= 0 {
			continue
		}
		file, line, ok := resolve(f.SourceMap.Line)
		if !ok {
			continue
		}
		f.File = &FilePosition{File: file, Line: line, Column: f.SourceMap.Column}
	}
}
