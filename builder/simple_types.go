package builder

import (
	"github.com/metaed/metaed/entity"
)

// generatedFields are the property attributes carried over to a generated
// simple type.
var generatedFields = append([]entity.Field{
	entity.FieldType,
	entity.FieldMetaEdName,
	entity.FieldMetaEdID,
	entity.FieldDocumentation,
}, entity.RestrictionFields...)

type generatedType struct {
	identity string
	entity   *entity.Entity
}

// queueSimpleTypes derives a shared simple type for every inline decimal,
// integer, short or string property of a committed entity, in property order.
// They are committed by commitSimpleTypes once the walk is over.
func (b *Builder) queueSimpleTypes(f *frame) {
	for _, p := range f.entity.Properties {
		if f.rejected[p] {
			continue
		}
		t, ok := p.Type.GeneratedSimpleType()
		if !ok {
			continue
		}
		kind, _ := LookupKind(t)

		g := entity.New(t, f.entity.Namespace)
		g.MetaEdName = p.MetaEdName
		g.MetaEdID = p.MetaEdID
		g.Documentation = p.Documentation
		g.Restriction = p.Restriction
		g.GeneratedSimpleType = true
		for _, field := range generatedFields {
			if loc, ok := p.SourceMap.Get(field); ok {
				g.SourceMap.Set(field, loc)
			}
		}
		b.generated = append(b.generated, generatedType{
			identity: kind.Identity(g.Namespace, g.MetaEdName),
			entity:   g,
		})
	}
}

// commitSimpleTypes commits the queued generated types after every explicit
// declaration has claimed its slot. A slot already taken by an explicit
// declaration or an earlier generated type is left as is.
func (b *Builder) commitSimpleTypes() {
	for _, g := range b.generated {
		b.commit(g.identity, g.entity)
	}
	b.generated = nil
}
