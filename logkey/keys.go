package logkey

const (
	Service   = "service"
	Component = "component"

	BuildID   = "build.id"
	BuildUnit = "build.unit"

	NamespaceName    = "namespace.name"
	ProjectExtension = "namespace.project_extension"

	ValidatorName = "validator.name"
	SourceLine    = "source.line"
	SourceColumn  = "source.column"

	EntityCount  = "entity.count"
	FailureCount = "failure.count"
	EventCount   = "event.count"
)
