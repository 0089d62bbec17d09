package event

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/metaed/metaed/entity"
)

// record is the YAML shape of one recorded event, e.g.
//
//	- enter: domainEntity
//	  line: 2
//	  column: 0
//	  text: Domain Entity
//	- capture: metaEdName
//	  value: Student
//	  line: 2
//	  column: 14
//	  text: Student
//	- exit: domainEntity
type record struct {
	Enter   string  `yaml:"enter,omitempty"`
	Exit    string  `yaml:"exit,omitempty"`
	Capture string  `yaml:"capture,omitempty"`
	Value   *string `yaml:"value,omitempty"`
	Line    int     `yaml:"line,omitempty"`
	Column  int     `yaml:"column,omitempty"`
	Text    string  `yaml:"text,omitempty"`
}

func (r record) event() (Event, error) {
	loc := entity.Location{Line: r.Line, Column: r.Column, Text: r.Text}
	set := 0
	var ev Event
	if r.Enter != "" {
		set++
		ev = Enter(Rule(r.Enter), loc)
	}
	if r.Exit != "" {
		set++
		ev = Exit(Rule(r.Exit))
		ev.Location = loc
	}
	if r.Capture != "" {
		set++
		ev = Event{Type: TypeCapture, Field: entity.Field(r.Capture), Value: r.Value, Location: loc}
	}
	if set != 1 {
		return Event{}, errors.New("exactly one of enter, exit or capture is required")
	}
	return ev, nil
}

// Decode reads a YAML list of recorded events.
func Decode(r io.Reader) ([]Event, error) {
	var records []record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]Event, 0, len(records))
	for i, rec := range records {
		ev, err := rec.event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Encode writes events in the format read by Decode.
func Encode(w io.Writer, events []Event) error {
	records := make([]record, len(events))
	for i, ev := range events {
		rec := record{
			Value:  ev.Value,
			Line:   ev.Location.Line,
			Column: ev.Location.Column,
			Text:   ev.Location.Text,
		}
		switch ev.Type {
		case TypeEnter:
			rec.Enter = string(ev.Rule)
		case TypeExit:
			rec.Exit = string(ev.Rule)
		case TypeCapture:
			rec.Capture = string(ev.Field)
		default:
			return fmt.Errorf("event %d: unknown event type %d", i, ev.Type)
		}
		records[i] = rec
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	return enc.Close()
}
