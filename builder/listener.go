package builder

import (
	"github.com/metaed/metaed/entity"
	"github.com/metaed/metaed/event"
)

// pendingNamespace is a namespace rule whose header captures have not all
// been seen yet.
type pendingNamespace struct {
	at               entity.Location
	name             entity.Token
	projectExtension entity.Token
}

// Listener routes parser events to a Builder. Rules it does not recognize are
// tracked for nesting but otherwise ignored.
type Listener struct {
	builder *Builder
	rules   []event.Rule
	pending *pendingNamespace
}

// NewListener creates a Listener driving b.
func NewListener(b *Builder) *Listener {
	return &Listener{builder: b}
}

// Handle dispatches one event.
func (l *Listener) Handle(ev event.Event) error {
	b := l.builder
	if err := b.Err(); err != nil {
		return err
	}

	if l.pending != nil {
		if ev.Type == event.TypeCapture {
			switch ev.Field {
			case entity.FieldNamespaceName:
				l.pending.name = ev.Token()
				return nil
			case entity.FieldProjectExtension:
				l.pending.projectExtension = ev.Token()
				return nil
			}
		}
		if err := l.openNamespace(); err != nil {
			return err
		}
	}

	switch ev.Type {
	case event.TypeEnter:
		return l.enter(ev)
	case event.TypeExit:
		return l.exit(ev)
	case event.TypeCapture:
		return b.Capture(ev.Field, ev.Token())
	}
	return b.fail(structuralf("unknown event type %d", ev.Type))
}

func (l *Listener) enter(ev event.Event) error {
	b := l.builder
	l.rules = append(l.rules, ev.Rule)
	if ev.Rule == event.RuleNamespace {
		if b.namespace != nil {
			return b.fail(structuralf("namespace entered inside namespace %s at %s", b.namespace.Name, ev.Location))
		}
		l.pending = &pendingNamespace{at: ev.Location}
		return nil
	}
	if t, ok := ev.Rule.EntityType(); ok {
		return b.EnterEntity(t, ev.Location)
	}
	if t, ok := ev.Rule.PropertyType(); ok {
		return b.EnterProperty(t, ev.Location)
	}
	return nil
}

func (l *Listener) exit(ev event.Event) error {
	b := l.builder
	if len(l.rules) == 0 {
		return b.fail(structuralf("exit of %s without a matching enter", ev.Rule))
	}
	open := l.rules[len(l.rules)-1]
	if open != ev.Rule {
		return b.fail(structuralf("exit of %s while %s is open", ev.Rule, open))
	}
	l.rules = l.rules[:len(l.rules)-1]

	if ev.Rule == event.RuleNamespace {
		return b.ExitNamespace()
	}
	if _, ok := ev.Rule.EntityType(); ok {
		return b.ExitEntity()
	}
	if _, ok := ev.Rule.PropertyType(); ok {
		return b.ExitProperty()
	}
	return nil
}

func (l *Listener) openNamespace() error {
	p := l.pending
	l.pending = nil
	if p.name.Value == "" {
		return l.builder.fail(structuralf("namespace at %s has no name", p.at))
	}
	return l.builder.EnterNamespace(p.name, p.projectExtension)
}

// Finish checks that every rule was exited and completes the build.
func (l *Listener) Finish() (*Result, error) {
	if err := l.builder.Err(); err != nil {
		return nil, err
	}
	if l.pending != nil {
		return nil, l.builder.fail(structuralf("event stream ended inside namespace header at %s", l.pending.at))
	}
	if len(l.rules) > 0 {
		return nil, l.builder.fail(structuralf("event stream ended with rule %s still open", l.rules[len(l.rules)-1]))
	}
	return l.builder.Finish()
}
