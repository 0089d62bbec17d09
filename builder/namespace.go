package builder

import (
	"github.com/metaed/metaed/constants"
	"github.com/metaed/metaed/entity"
	"github.com/metaed/metaed/logkey"
)

// resolveNamespace returns the namespace named by name, creating and
// registering it on first sight. A later declaration of the same namespace
// reuses the first; a conflicting project extension is reported and ignored.
func (b *Builder) resolveNamespace(name entity.Token, projectExtension entity.Token) *entity.Namespace {
	if existing, ok := b.repo.Namespace(name.Value); ok {
		if existing.ProjectExtension != projectExtension.Value {
			b.report(constants.NamespaceValidator, name.Location,
				"Namespace %s is declared with project extension %q, but was first declared with project extension %q.",
				name.Value, projectExtension.Value, existing.ProjectExtension)
		}
		return existing
	}

	ns := entity.NewNamespace(name.Value, projectExtension.Value, b.suffix)
	ns.SourceMap.Set(entity.FieldNamespaceName, name.Location)
	if projectExtension.Value != "" {
		ns.SourceMap.Set(entity.FieldProjectExtension, projectExtension.Location)
	}
	b.repo.AddNamespace(ns)
	b.logger.Info("namespace registered",
		logkey.NamespaceName, ns.Name,
		logkey.ProjectExtension, ns.ProjectExtension,
	)
	return ns
}
