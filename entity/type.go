package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type represents the entity kind.
type Type int

const (
	TypeUnspecified Type = iota
	TypeAssociation
	TypeAssociationExtension
	TypeAssociationSubclass
	TypeChoice
	TypeCommon
	TypeCommonExtension
	TypeDescriptor
	TypeDomainEntity
	TypeDomainEntityExtension
	TypeDomainEntitySubclass
	TypeInlineCommon
	TypeSharedDecimal
	TypeSharedInteger
	TypeSharedShort
	TypeSharedString
	typeEnd
)

var typeNames = map[Type]string{
	TypeUnspecified:           "unspecified",
	TypeAssociation:           "association",
	TypeAssociationExtension:  "associationExtension",
	TypeAssociationSubclass:   "associationSubclass",
	TypeChoice:                "choice",
	TypeCommon:                "common",
	TypeCommonExtension:       "commonExtension",
	TypeDescriptor:            "descriptor",
	TypeDomainEntity:          "domainEntity",
	TypeDomainEntityExtension: "domainEntityExtension",
	TypeDomainEntitySubclass:  "domainEntitySubclass",
	TypeInlineCommon:          "inlineCommon",
	TypeSharedDecimal:         "sharedDecimal",
	TypeSharedInteger:         "sharedInteger",
	TypeSharedShort:           "sharedShort",
	TypeSharedString:          "sharedString",
}

var (
	nameTypes      = make(map[string]Type, len(typeNames))
	humanizedNames = make(map[Type]string, len(typeNames))
)

func init() {
	caser := cases.Title(language.English)
	for t, name := range typeNames {
		nameTypes[name] = t
		humanizedNames[t] = caser.String(splitCamel(name))
	}
}

// String returns the string representation of the Type.
// Defaults to "unspecified" if unrecognized.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return typeNames[TypeUnspecified]
}

// Humanized returns the display name of the Type, e.g. "Domain Entity".
func (t Type) Humanized() string {
	if name, ok := humanizedNames[t]; ok {
		return name
	}
	return humanizedNames[TypeUnspecified]
}

// Name returns the Type name in upper camel case, e.g. "DomainEntity".
func (t Type) Name() string {
	return strings.ReplaceAll(t.Humanized(), " ", "")
}

// IsValid reports whether t is a known, specified entity type.
func (t Type) IsValid() bool {
	return t > TypeUnspecified && t < typeEnd
}

// Types returns every specified entity type in declaration order.
func Types() []Type {
	out := make([]Type, 0, int(typeEnd)-1)
	for t := TypeUnspecified + 1; t < typeEnd; t++ {
		out = append(out, t)
	}
	return out
}

// ParseType returns the Type named by typeName, or TypeUnspecified.
func ParseType(typeName string) Type {
	if t, ok := nameTypes[typeName]; ok {
		return t
	}
	return TypeUnspecified
}

func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
