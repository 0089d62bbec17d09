package entity

// Entity is a top-level model construct. The Type tag selects which of the
// optional attributes apply: extensions and subclasses carry BaseEntityName,
// shared simple types carry a Restriction.
type Entity struct {
	MetaEdName          string
	MetaEdID            string
	Documentation       string
	DeprecationReason   string
	IsAbstract          bool
	BaseEntityName      string
	Namespace           *Namespace
	Type                Type
	TypeHumanizedName   string
	Properties          []*Property
	Restriction         Restriction
	GeneratedSimpleType bool
	SourceMap           SourceMap
}

// New creates an Entity of type t in namespace ns with an empty SourceMap.
func New(t Type, ns *Namespace) *Entity {
	return &Entity{
		Namespace:         ns,
		Type:              t,
		TypeHumanizedName: t.Humanized(),
		Properties:        []*Property{},
		SourceMap:         SourceMap{},
	}
}

// Set assigns field from tok and records its location. It reports false if
// field is not an entity attribute.
func (e *Entity) Set(field Field, tok Token) bool {
	switch field {
	case FieldType:
	case FieldMetaEdName:
		e.MetaEdName = tok.Value
	case FieldMetaEdID:
		e.MetaEdID = tok.Value
	case FieldDocumentation:
		e.Documentation = tok.Value
	case FieldDeprecationReason:
		e.DeprecationReason = tok.Value
	case FieldIsAbstract:
		e.IsAbstract = true
	case FieldBaseEntityName:
		e.BaseEntityName = tok.Value
	default:
		if !e.Restriction.set(field, tok.Value) {
			return false
		}
	}
	e.SourceMap.Set(field, tok.Location)
	return true
}

// NamespaceName returns the name of the owning namespace, or "" if unset.
func (e *Entity) NamespaceName() string {
	if e.Namespace == nil {
		return ""
	}
	return e.Namespace.Name
}

// Location returns where the entity was declared: its declaration keyword if
// recorded, otherwise its name.
func (e *Entity) Location() Location {
	if loc, ok := e.SourceMap.Get(FieldType); ok {
		return loc
	}
	loc, _ := e.SourceMap.Get(FieldMetaEdName)
	return loc
}
