package builder

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/metaed/metaed/entity"
)

// checkRestriction validates restriction values against the rules of simple
// type t. Problems are reported under validator but do not prevent the commit.
func (b *Builder) checkRestriction(validator string, t entity.Type, subject string, r entity.Restriction, sm entity.SourceMap) {
	report := func(field entity.Field, format string, args ...any) {
		loc, _ := sm.Get(field)
		b.report(validator, loc, format, args...)
	}

	counts := map[entity.Field]string{
		entity.FieldTotalDigits:   r.TotalDigits,
		entity.FieldDecimalPlaces: r.DecimalPlaces,
		entity.FieldMinLength:     r.MinLength,
		entity.FieldMaxLength:     r.MaxLength,
	}
	parsed := map[entity.Field]int{}
	for _, field := range entity.RestrictionFields {
		raw, ok := counts[field]
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			report(field, "%s has %s %q, which is not a non-negative integer.", subject, field, raw)
			continue
		}
		parsed[field] = n
	}
	total, hasTotal := parsed[entity.FieldTotalDigits]
	places, hasPlaces := parsed[entity.FieldDecimalPlaces]
	if hasTotal && hasPlaces && places > total {
		report(entity.FieldDecimalPlaces, "%s has decimal places %d greater than total digits %d.", subject, places, total)
	}
	minLen, hasMinLen := parsed[entity.FieldMinLength]
	maxLen, hasMaxLen := parsed[entity.FieldMaxLength]
	if hasMinLen && hasMaxLen && minLen > maxLen {
		report(entity.FieldMinLength, "%s has min length %d greater than max length %d.", subject, minLen, maxLen)
	}

	parse := boundParser(t)
	bounds := map[entity.Field]decimal.Decimal{}
	for _, bound := range []struct {
		field entity.Field
		raw   string
	}{{entity.FieldMinValue, r.MinValue}, {entity.FieldMaxValue, r.MaxValue}} {
		if bound.raw == "" {
			continue
		}
		v, err := parse(bound.raw)
		if err != nil {
			report(bound.field, "%s has %s %q, which is not a valid %s value.", subject, bound.field, bound.raw, valueKind(t))
			continue
		}
		bounds[bound.field] = v
	}
	lo, hasLo := bounds[entity.FieldMinValue]
	hi, hasHi := bounds[entity.FieldMaxValue]
	if hasLo && hasHi && lo.GreaterThan(hi) {
		report(entity.FieldMinValue, "%s has min value %s greater than max value %s.", subject, r.MinValue, r.MaxValue)
	}
}

// boundParser returns the parser for min/max values of simple type t.
func boundParser(t entity.Type) func(string) (decimal.Decimal, error) {
	bits := 0
	switch t {
	case entity.TypeSharedShort:
		bits = 16
	case entity.TypeSharedInteger:
		bits = 32
	default:
		return decimal.NewFromString
	}
	return func(s string) (decimal.Decimal, error) {
		n, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromInt(n), nil
	}
}

func valueKind(t entity.Type) string {
	switch t {
	case entity.TypeSharedShort:
		return "short"
	case entity.TypeSharedInteger:
		return "integer"
	}
	return "decimal"
}
