package entity

import (
	"github.com/joshjon/kit/errtag"
)

type Model interface {
	Namespace | Entity
}

type ErrTagNotFound[T Model] struct{ errtag.NotFound }

func (ErrTagNotFound[T]) Msg() string {
	return getTypeName[T]() + " not found"
}

func (e ErrTagNotFound[T]) Unwrap() error {
	return errtag.Tag[errtag.NotFound](e.Cause())
}

func getTypeName[T Model]() string {
	var t T
	switch any(t).(type) {
	case Namespace:
		return "Namespace"
	default:
		return "Entity"
	}
}
