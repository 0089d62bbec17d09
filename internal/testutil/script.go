package testutil

import (
	"iter"
	"slices"

	"github.com/metaed/metaed/entity"
	"github.com/metaed/metaed/event"
)

// Script records the event stream a parser would emit for a small model. Each
// rule enter starts a new source line.
type Script struct {
	events []event.Event
	line   int
	indent int
}

func NewScript() *Script {
	return &Script{}
}

// Namespace appends a namespace rule with its header captures. An empty
// projectExtension marks a core namespace.
func (s *Script) Namespace(name string, projectExtension string, body func(s *Script)) *Script {
	at := s.newLine("Begin Namespace")
	s.events = append(s.events, event.Enter(event.RuleNamespace, at))
	s.events = append(s.events, event.Capture(entity.FieldNamespaceName, s.sameLine(at, name)))
	if projectExtension != "" {
		s.events = append(s.events, event.Capture(entity.FieldProjectExtension, s.sameLine(at, projectExtension)))
	}
	s.nested(body)
	s.events = append(s.events, event.Exit(event.RuleNamespace))
	return s
}

// Entity appends a top-level entity rule named name.
func (s *Script) Entity(t entity.Type, name string, body func(s *Script)) *Script {
	rule := event.EntityRule(t)
	at := s.newLine(t.Humanized())
	s.events = append(s.events, event.Enter(rule, at))
	s.events = append(s.events, event.Capture(entity.FieldMetaEdName, s.sameLine(at, name)))
	s.nested(body)
	s.events = append(s.events, event.Exit(rule))
	return s
}

// Property appends a property rule named name.
func (s *Script) Property(t entity.PropertyType, name string, body func(s *Script)) *Script {
	rule := event.PropertyRule(t)
	at := s.newLine(t.String())
	s.events = append(s.events, event.Enter(rule, at))
	s.events = append(s.events, event.Capture(entity.FieldMetaEdName, s.sameLine(at, name)))
	s.nested(body)
	s.events = append(s.events, event.Exit(rule))
	return s
}

// Capture appends a capture of field with the given value on its own line.
func (s *Script) Capture(field entity.Field, value string) *Script {
	s.events = append(s.events, event.CaptureValue(field, value, s.newLine(value)))
	return s
}

// Flag appends a capture of a boolean marker.
func (s *Script) Flag(field entity.Field) *Script {
	s.events = append(s.events, event.Capture(field, s.newLine(string(field))))
	return s
}

// Raw appends events as given.
func (s *Script) Raw(events ...event.Event) *Script {
	s.events = append(s.events, events...)
	return s
}

// Events returns a copy of the recorded events.
func (s *Script) Events() []event.Event {
	return slices.Clone(s.events)
}

// Seq returns the recorded events as a sequence.
func (s *Script) Seq() iter.Seq[event.Event] {
	return slices.Values(s.Events())
}

// EnterLocations returns the locations of every enter event of rule, in
// order.
func (s *Script) EnterLocations(rule event.Rule) []entity.Location {
	var out []entity.Location
	for _, ev := range s.events {
		if ev.Type == event.TypeEnter && ev.Rule == rule {
			out = append(out, ev.Location)
		}
	}
	return out
}

func (s *Script) newLine(text string) entity.Location {
	s.line++
	return entity.Location{Line: s.line, Column: s.indent * 4, Text: text}
}

func (s *Script) sameLine(at entity.Location, text string) entity.Location {
	return entity.Location{Line: at.Line, Column: at.Column + len(at.Text) + 1, Text: text}
}

func (s *Script) nested(body func(s *Script)) {
	if body == nil {
		return
	}
	s.indent++
	body(s)
	s.indent--
}
