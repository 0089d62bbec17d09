package entity

import "github.com/metaed/metaed/constants"

// Namespace partitions entity identities. A namespace with a project
// extension is an extension of the core model.
type Namespace struct {
	Name                  string    `json:"namespaceName"`
	ProjectExtension      string    `json:"projectExtension"`
	IsExtension           bool      `json:"isExtension"`
	ExtensionEntitySuffix string    `json:"extensionEntitySuffix"`
	SourceMap             SourceMap `json:"-"`
}

// NewNamespace creates a new Namespace. An empty suffix falls back to
// constants.DefaultExtensionEntitySuffix.
func NewNamespace(name string, projectExtension string, suffix string) *Namespace {
	if suffix == "" {
		suffix = constants.DefaultExtensionEntitySuffix
	}
	return &Namespace{
		Name:                  name,
		ProjectExtension:      projectExtension,
		IsExtension:           projectExtension != "",
		ExtensionEntitySuffix: suffix,
		SourceMap:             SourceMap{},
	}
}
