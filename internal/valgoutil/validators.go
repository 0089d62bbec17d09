package valgoutil

import (
	"unicode"

	"github.com/cohesivestack/valgo"
)

// IsIdentifier reports whether s is a model identifier: an uppercase ASCII
// letter followed by ASCII letters and digits.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case i == 0 && !unicode.IsUpper(r):
			return false
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return false
		}
	}
	return true
}

// IsNamespaceName reports whether s is a namespace name: an ASCII letter of
// either case followed by ASCII letters and digits.
func IsNamespaceName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case i == 0 && !unicode.IsLetter(r):
			return false
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return false
		}
	}
	return true
}

func EntityNameValidator(name string, nameAndTitle ...string) valgo.Validator {
	return valgo.String(name, nameAndTitle...).Not().Blank().Passing(IsIdentifier,
		"must begin with an uppercase letter and contain only letters and digits")
}

func NamespaceNameValidator(name string, nameAndTitle ...string) valgo.Validator {
	return valgo.String(name, nameAndTitle...).Passing(IsNamespaceName,
		"must begin with a letter and contain only letters and digits")
}

func NonEmptySliceValidator[T any](items []T, nameAndTitle ...string) valgo.Validator {
	return valgo.Any(items, nameAndTitle...).Passing(func(v any) bool {
		return len(v.([]T)) > 0
	}, "{{title}} must not be empty")
}
