// Package event defines the boundary with the parser: a flat stream of rule
// enter/exit events and terminal captures, in source order.
package event

import (
	"fmt"
	"strings"

	"github.com/metaed/metaed/entity"
)

// Type distinguishes the three event shapes.
type Type int

const (
	TypeEnter Type = iota + 1
	TypeExit
	TypeCapture
)

var typeNames = map[Type]string{
	TypeEnter:   "enter",
	TypeExit:    "exit",
	TypeCapture: "capture",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Rule tags a grammar rule. Top-level entity rules are named after the entity
// type ("domainEntity"), property rules after the property type with a
// "Property" suffix ("integerProperty").
type Rule string

const (
	RuleNamespace Rule = "namespace"

	propertyRuleSuffix = "Property"
)

// EntityRule returns the rule tag for a top-level entity type.
func EntityRule(t entity.Type) Rule {
	return Rule(t.String())
}

// PropertyRule returns the rule tag for a property type.
func PropertyRule(t entity.PropertyType) Rule {
	return Rule(t.String() + propertyRuleSuffix)
}

// EntityType returns the entity type the rule opens, if any.
func (r Rule) EntityType() (entity.Type, bool) {
	t := entity.ParseType(string(r))
	return t, t.IsValid()
}

// PropertyType returns the property type the rule opens, if any.
func (r Rule) PropertyType() (entity.PropertyType, bool) {
	name, ok := strings.CutSuffix(string(r), propertyRuleSuffix)
	if !ok {
		return entity.PropertyUnspecified, false
	}
	t := entity.ParsePropertyType(name)
	return t, t.IsValid()
}

// Event is one parser event. Enter and Exit carry Rule; Capture carries Field
// and optionally Value. When Value is nil the matched text is the value.
type Event struct {
	Type     Type
	Rule     Rule
	Field    entity.Field
	Value    *string
	Location entity.Location
}

// Enter returns a rule enter event.
func Enter(rule Rule, loc entity.Location) Event {
	return Event{Type: TypeEnter, Rule: rule, Location: loc}
}

// Exit returns a rule exit event.
func Exit(rule Rule) Event {
	return Event{Type: TypeExit, Rule: rule}
}

// Capture returns a terminal capture whose value is the matched text.
func Capture(field entity.Field, loc entity.Location) Event {
	return Event{Type: TypeCapture, Field: field, Location: loc}
}

// CaptureValue returns a terminal capture with an explicit value.
func CaptureValue(field entity.Field, value string, loc entity.Location) Event {
	return Event{Type: TypeCapture, Field: field, Value: &value, Location: loc}
}

// Token returns the captured value and its location.
func (e Event) Token() entity.Token {
	value := e.Location.Text
	if e.Value != nil {
		value = *e.Value
	}
	return entity.Token{Value: value, Location: e.Location}
}

func (e Event) String() string {
	switch e.Type {
	case TypeEnter, TypeExit:
		return fmt.Sprintf("%s %s", e.Type, e.Rule)
	case TypeCapture:
		return fmt.Sprintf("capture %s=%q at %s", e.Field, e.Token().Value, e.Location)
	default:
		return "unknown event"
	}
}
