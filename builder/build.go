package builder

import (
	"iter"

	"github.com/metaed/metaed/entity"
	"github.com/metaed/metaed/event"
	"github.com/metaed/metaed/id"
	"github.com/metaed/metaed/validation"
)

// Result is the outcome of a build: the populated repository and every
// validation failure found along the way, in detection order.
type Result struct {
	BuildID    id.BuildID
	Repository *entity.Repository
	Failures   []validation.Failure
}

// HasErrors reports whether any failure has the error category.
func (r *Result) HasErrors() bool {
	for _, f := range r.Failures {
		if f.Category == validation.CategoryError {
			return true
		}
	}
	return false
}

// Build runs a Builder over events. A structural error aborts the build and
// is returned; validation failures are returned in the Result.
func Build(events iter.Seq[event.Event], opts ...Option) (*Result, error) {
	l := NewListener(New(opts...))
	for ev := range events {
		if err := l.Handle(ev); err != nil {
			return nil, err
		}
	}
	return l.Finish()
}
