// Package constants defines names that have special meaning to the model
// builder: the app name, the default extension entity suffix, and the
// validator names attached to every ValidationFailure.
package constants

const (
	AppName = "metaed"

	// DefaultExtensionEntitySuffix is appended to extension entity names by
	// downstream generators when no suffix is configured.
	DefaultExtensionEntitySuffix = "Extension"

	// TopLevelEntityValidator is shared by every entity kind for duplicate
	// identity detection.
	TopLevelEntityValidator = "TopLevelEntityBuilder"
	NamespaceValidator      = "NamespaceBuilder"

	validatorSuffix = "Builder"
)

// KindValidator returns the validator name for kind-specific checks, e.g.
// "SharedDecimalBuilder".
func KindValidator(kindName string) string {
	return kindName + validatorSuffix
}
