package builder

import (
	"github.com/metaed/metaed/constants"
	"github.com/metaed/metaed/entity"
)

// Placement restricts which namespaces may declare a kind.
type Placement int

const (
	PlacementAny Placement = iota
	PlacementExtensionOnly
	PlacementCoreOnly
)

// IdentityRule computes the repository identity key of an entity.
type IdentityRule func(ns *entity.Namespace, metaEdName string) string

// NameIdentity keys an entity by its name within its namespace.
func NameIdentity(_ *entity.Namespace, metaEdName string) string {
	return metaEdName
}

// ProjectExtensionIdentity keys entities of extension namespaces by
// "<projectExtension>-<name>" and core entities by name, so that same-named
// shared types of different extensions stay independently addressable.
func ProjectExtensionIdentity(ns *entity.Namespace, metaEdName string) string {
	if ns != nil && ns.IsExtension {
		return ns.ProjectExtension + "-" + metaEdName
	}
	return metaEdName
}

// Kind configures how the builder assembles one entity type.
type Kind struct {
	Type      entity.Type
	Placement Placement
	Identity  IdentityRule

	// Properties allows nested property rules.
	Properties bool
	// Extends marks extension kinds: the extension is keyed by, and always
	// extends, the entity of the same name.
	Extends bool

	// Fields are the attributes accepted in addition to the common ones.
	Fields []entity.Field
	// Required are restriction attributes that must be captured.
	Required []entity.Field

	accepts map[entity.Field]bool
}

// Validator returns the validator name for checks specific to the kind.
func (k *Kind) Validator() string {
	return constants.KindValidator(k.Type.Name())
}

// Accepts reports whether a capture of field is well-formed for the kind.
func (k *Kind) Accepts(field entity.Field) bool {
	return k.accepts[field]
}

var commonFields = []entity.Field{
	entity.FieldMetaEdName,
	entity.FieldMetaEdID,
	entity.FieldDocumentation,
	entity.FieldDeprecationReason,
}

var (
	decimalFields = []entity.Field{entity.FieldTotalDigits, entity.FieldDecimalPlaces, entity.FieldMinValue, entity.FieldMaxValue}
	integerFields = []entity.Field{entity.FieldMinValue, entity.FieldMaxValue}
	stringFields  = []entity.Field{entity.FieldMinLength, entity.FieldMaxLength}
)

var kindTable = []Kind{
	{Type: entity.TypeAssociation, Identity: NameIdentity, Properties: true},
	{Type: entity.TypeAssociationExtension, Placement: PlacementExtensionOnly, Identity: NameIdentity, Properties: true, Extends: true},
	{Type: entity.TypeAssociationSubclass, Identity: NameIdentity, Properties: true, Fields: []entity.Field{entity.FieldBaseEntityName}},
	{Type: entity.TypeChoice, Identity: NameIdentity, Properties: true},
	{Type: entity.TypeCommon, Identity: NameIdentity, Properties: true},
	{Type: entity.TypeCommonExtension, Placement: PlacementExtensionOnly, Identity: NameIdentity, Properties: true, Extends: true},
	{Type: entity.TypeDescriptor, Identity: NameIdentity, Properties: true},
	{Type: entity.TypeDomainEntity, Identity: NameIdentity, Properties: true, Fields: []entity.Field{entity.FieldIsAbstract}},
	{Type: entity.TypeDomainEntityExtension, Placement: PlacementExtensionOnly, Identity: NameIdentity, Properties: true, Extends: true},
	{Type: entity.TypeDomainEntitySubclass, Identity: NameIdentity, Properties: true, Fields: []entity.Field{entity.FieldBaseEntityName}},
	{Type: entity.TypeInlineCommon, Identity: NameIdentity, Properties: true},
	{
		Type:     entity.TypeSharedDecimal,
		Identity: ProjectExtensionIdentity,
		Fields:   decimalFields,
		Required: []entity.Field{entity.FieldTotalDigits, entity.FieldDecimalPlaces},
	},
	{Type: entity.TypeSharedInteger, Identity: ProjectExtensionIdentity, Fields: integerFields},
	{Type: entity.TypeSharedShort, Identity: ProjectExtensionIdentity, Fields: integerFields},
	{Type: entity.TypeSharedString, Identity: ProjectExtensionIdentity, Fields: stringFields},
}

var kinds = func() map[entity.Type]*Kind {
	out := make(map[entity.Type]*Kind, len(kindTable))
	for i := range kindTable {
		k := &kindTable[i]
		k.accepts = make(map[entity.Field]bool, len(commonFields)+len(k.Fields))
		for _, f := range commonFields {
			k.accepts[f] = true
		}
		for _, f := range k.Fields {
			k.accepts[f] = true
		}
		out[k.Type] = k
	}
	return out
}()

// LookupKind returns the configuration for an entity type.
func LookupKind(t entity.Type) (*Kind, bool) {
	k, ok := kinds[t]
	return k, ok
}

var propertyCommonFields = []entity.Field{
	entity.FieldMetaEdName,
	entity.FieldMetaEdID,
	entity.FieldDocumentation,
	entity.FieldDeprecationReason,
	entity.FieldRoleName,
	entity.FieldReferencedNamespaceName,
	entity.FieldIsPartOfIdentity,
	entity.FieldIsRequired,
	entity.FieldIsOptional,
	entity.FieldIsCollection,
}

// propertyAccepts reports whether a capture of field is well-formed inside a
// property rule of type t.
func propertyAccepts(t entity.PropertyType, field entity.Field) bool {
	for _, f := range propertyCommonFields {
		if f == field {
			return true
		}
	}
	var extra []entity.Field
	switch t {
	case entity.PropertyDecimal:
		extra = decimalFields
	case entity.PropertyInteger, entity.PropertyShort:
		extra = integerFields
	case entity.PropertyString:
		extra = stringFields
	}
	for _, f := range extra {
		if f == field {
			return true
		}
	}
	return false
}
