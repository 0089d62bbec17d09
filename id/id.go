package id

import "go.jetify.com/typeid"

type ID interface {
	typeid.Subtype
	IsZero() bool
}

type buildPrefix struct{}

func (buildPrefix) Prefix() string { return "build" }

// BuildID identifies one build invocation. Independent builds never share one.
type BuildID struct {
	typeid.TypeID[buildPrefix]
}

// New creates a new instance of the specified ID type. It panics if the ID
// cannot be generated.
func New[T ID, PI typeid.SubtypePtr[T]]() T {
	return typeid.Must(typeid.New[T, PI]())
}
