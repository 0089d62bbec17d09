package entity

// Field names an attribute of an entity or property. The same names key the
// SourceMap.
type Field string

const (
	FieldType              Field = "type"
	FieldMetaEdName        Field = "metaEdName"
	FieldMetaEdID          Field = "metaEdId"
	FieldDocumentation     Field = "documentation"
	FieldDeprecationReason Field = "deprecationReason"
	FieldIsAbstract        Field = "isAbstract"
	FieldBaseEntityName    Field = "baseEntityName"

	// simple type restrictions
	FieldTotalDigits   Field = "totalDigits"
	FieldDecimalPlaces Field = "decimalPlaces"
	FieldMinValue      Field = "minValue"
	FieldMaxValue      Field = "maxValue"
	FieldMinLength     Field = "minLength"
	FieldMaxLength     Field = "maxLength"

	// property only
	FieldRoleName                Field = "roleName"
	FieldReferencedNamespaceName Field = "referencedNamespaceName"
	FieldIsPartOfIdentity        Field = "isPartOfIdentity"
	FieldIsRequired              Field = "isRequired"
	FieldIsOptional              Field = "isOptional"
	FieldIsCollection            Field = "isCollection"

	// namespace header
	FieldNamespaceName    Field = "namespaceName"
	FieldProjectExtension Field = "projectExtension"
)

func (f Field) String() string {
	return string(f)
}

// Restriction holds the raw restriction values of a simple type. Values are
// kept as written; empty means absent.
type Restriction struct {
	TotalDigits   string
	DecimalPlaces string
	MinValue      string
	MaxValue      string
	MinLength     string
	MaxLength     string
}

// IsZero reports whether no restriction was captured.
func (r Restriction) IsZero() bool {
	return r == Restriction{}
}

func (r *Restriction) set(field Field, value string) bool {
	switch field {
	case FieldTotalDigits:
		r.TotalDigits = value
	case FieldDecimalPlaces:
		r.DecimalPlaces = value
	case FieldMinValue:
		r.MinValue = value
	case FieldMaxValue:
		r.MaxValue = value
	case FieldMinLength:
		r.MinLength = value
	case FieldMaxLength:
		r.MaxLength = value
	default:
		return false
	}
	return true
}

// RestrictionFields lists the restriction attributes in declaration order.
var RestrictionFields = []Field{
	FieldTotalDigits,
	FieldDecimalPlaces,
	FieldMinValue,
	FieldMaxValue,
	FieldMinLength,
	FieldMaxLength,
}
