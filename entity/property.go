package entity

// PropertyType represents the kind of a property.
type PropertyType int

const (
	PropertyUnspecified PropertyType = iota
	PropertyBoolean
	PropertyCurrency
	PropertyDate
	PropertyDatetime
	PropertyDecimal
	PropertyDescriptor
	PropertyDuration
	PropertyEnumeration
	PropertyInteger
	PropertyPercent
	PropertyShort
	PropertyString
	PropertyTime
	PropertyYear
	PropertyAssociation
	PropertyChoice
	PropertyCommon
	PropertyDomainEntity
	PropertyInlineCommon
	PropertySharedDecimal
	PropertySharedInteger
	PropertySharedShort
	PropertySharedString
	propertyEnd
)

var propertyTypeNames = map[PropertyType]string{
	PropertyUnspecified:   "unspecified",
	PropertyBoolean:       "boolean",
	PropertyCurrency:      "currency",
	PropertyDate:          "date",
	PropertyDatetime:      "datetime",
	PropertyDecimal:       "decimal",
	PropertyDescriptor:    "descriptor",
	PropertyDuration:      "duration",
	PropertyEnumeration:   "enumeration",
	PropertyInteger:       "integer",
	PropertyPercent:       "percent",
	PropertyShort:         "short",
	PropertyString:        "string",
	PropertyTime:          "time",
	PropertyYear:          "year",
	PropertyAssociation:   "association",
	PropertyChoice:        "choice",
	PropertyCommon:        "common",
	PropertyDomainEntity:  "domainEntity",
	PropertyInlineCommon:  "inlineCommon",
	PropertySharedDecimal: "sharedDecimal",
	PropertySharedInteger: "sharedInteger",
	PropertySharedShort:   "sharedShort",
	PropertySharedString:  "sharedString",
}

var namePropertyTypes = func() map[string]PropertyType {
	out := make(map[string]PropertyType, len(propertyTypeNames))
	for t, name := range propertyTypeNames {
		out[name] = t
	}
	return out
}()

// String returns the string representation of the PropertyType.
// Defaults to "unspecified" if unrecognized.
func (t PropertyType) String() string {
	if name, ok := propertyTypeNames[t]; ok {
		return name
	}
	return propertyTypeNames[PropertyUnspecified]
}

// IsValid reports whether t is a known, specified property type.
func (t PropertyType) IsValid() bool {
	return t > PropertyUnspecified && t < propertyEnd
}

// ParsePropertyType returns the PropertyType named by name, or
// PropertyUnspecified.
func ParsePropertyType(name string) PropertyType {
	if t, ok := namePropertyTypes[name]; ok {
		return t
	}
	return PropertyUnspecified
}

// GeneratedSimpleType returns the shared simple entity type synthesized from an
// inline property of this type, if any.
func (t PropertyType) GeneratedSimpleType() (Type, bool) {
	switch t {
	case PropertyDecimal:
		return TypeSharedDecimal, true
	case PropertyInteger:
		return TypeSharedInteger, true
	case PropertyShort:
		return TypeSharedShort, true
	case PropertyString:
		return TypeSharedString, true
	}
	return TypeUnspecified, false
}

// Property is a named, typed member of an entity. Properties keep their
// declaration order within the owning entity.
type Property struct {
	MetaEdName              string
	MetaEdID                string
	Documentation           string
	DeprecationReason       string
	RoleName                string
	ReferencedNamespaceName string
	Type                    PropertyType
	IsPartOfIdentity        bool
	IsRequired              bool
	IsOptional              bool
	IsCollection            bool
	Restriction             Restriction
	SourceMap               SourceMap
}

// NewProperty creates a Property of the given type with an empty SourceMap.
func NewProperty(t PropertyType) *Property {
	return &Property{
		Type:      t,
		SourceMap: SourceMap{},
	}
}

// Set assigns field from tok and records its location. It reports false if
// field is not a property attribute.
func (p *Property) Set(field Field, tok Token) bool {
	switch field {
	case FieldMetaEdName:
		p.MetaEdName = tok.Value
	case FieldMetaEdID:
		p.MetaEdID = tok.Value
	case FieldDocumentation:
		p.Documentation = tok.Value
	case FieldDeprecationReason:
		p.DeprecationReason = tok.Value
	case FieldRoleName:
		p.RoleName = tok.Value
	case FieldReferencedNamespaceName:
		p.ReferencedNamespaceName = tok.Value
	case FieldIsPartOfIdentity:
		// identity members are always required
		p.IsPartOfIdentity = true
		p.IsRequired = true
	case FieldIsRequired:
		p.IsRequired = true
	case FieldIsOptional:
		p.IsOptional = true
	case FieldIsCollection:
		p.IsCollection = true
	default:
		if !p.Restriction.set(field, tok.Value) {
			return false
		}
	}
	p.SourceMap.Set(field, tok.Location)
	return true
}
