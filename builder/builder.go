// Package builder turns the enter/exit/capture events of a parse tree walk
// into entities, committing them to an entity.Repository and collecting
// validation failures for problems in user input.
package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/joshjon/kit/log"

	"github.com/metaed/metaed/constants"
	"github.com/metaed/metaed/entity"
	"github.com/metaed/metaed/filemap"
	"github.com/metaed/metaed/id"
	"github.com/metaed/metaed/internal/valgoutil"
	"github.com/metaed/metaed/logkey"
	"github.com/metaed/metaed/validation"
)

// Option configures a Builder.
type Option func(b *Builder)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithExtensionEntitySuffix sets the suffix recorded on every namespace.
func WithExtensionEntitySuffix(suffix string) Option {
	return func(b *Builder) {
		if suffix != "" {
			b.suffix = suffix
		}
	}
}

// WithFileIndex resolves failure locations back to input files when the
// build finishes.
func WithFileIndex(index *filemap.Index) Option {
	return func(b *Builder) {
		b.fileIndex = index
	}
}

// WithRepository builds into an existing repository instead of a new one.
func WithRepository(repo *entity.Repository) Option {
	return func(b *Builder) {
		if repo != nil {
			b.repo = repo
		}
	}
}

// frame is one open rule: an entity, or a property of the entity below it.
type frame struct {
	kind     *Kind
	entity   *entity.Entity
	property *entity.Property
	// properties whose name failed validation; no simple type is generated
	// for them
	rejected map[*entity.Property]bool
}

type declaration struct {
	namespace string
	typ       entity.Type
	identity  string
}

// Builder is the state machine that assembles entities from rule events. A
// Builder is single use and not safe for concurrent use; run one per
// compilation unit.
type Builder struct {
	buildID   id.BuildID
	repo      *entity.Repository
	failures  *validation.Failures
	logger    log.Logger
	suffix    string
	fileIndex *filemap.Index

	namespace *entity.Namespace
	frames    []*frame
	generated []generatedType
	reported  map[declaration]bool
	err       error
}

// New creates a Builder with an empty repository.
func New(opts ...Option) *Builder {
	b := &Builder{
		buildID:  id.New[id.BuildID](),
		repo:     entity.NewRepository(),
		failures: &validation.Failures{},
		logger:   log.NewLogger(),
		suffix:   constants.DefaultExtensionEntitySuffix,
		reported: map[declaration]bool{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(logkey.Component, "builder", logkey.BuildID, b.buildID.String())
	return b
}

// BuildID returns the identifier of this build.
func (b *Builder) BuildID() id.BuildID {
	return b.buildID
}

// Repository returns the repository being built.
func (b *Builder) Repository() *entity.Repository {
	return b.repo
}

// Failures returns the failures collected so far.
func (b *Builder) Failures() []validation.Failure {
	return b.failures.List()
}

// Err returns the structural error that stopped the builder, if any.
func (b *Builder) Err() error {
	return b.err
}

// report records a validation failure and logs it.
func (b *Builder) report(validator string, loc entity.Location, format string, args ...any) {
	failure := b.failures.Add(validator, loc, format, args...)
	b.logger.Warn(failure.Message,
		logkey.ValidatorName, validator,
		logkey.SourceLine, loc.Line,
		logkey.SourceColumn, loc.Column,
	)
}

func (b *Builder) fail(err error) error {
	b.err = err
	b.logger.Error("malformed rule event stream", "error", err)
	return err
}

func (b *Builder) top() *frame {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// EnterNamespace opens a namespace. Entities are only accepted while a
// namespace is open.
func (b *Builder) EnterNamespace(name entity.Token, projectExtension entity.Token) error {
	if b.err != nil {
		return b.err
	}
	if b.namespace != nil {
		return b.fail(structuralf("namespace %s entered while namespace %s is open at %s",
			name.Value, b.namespace.Name, name.Location))
	}
	if err := valgo.Is(valgoutil.NamespaceNameValidator(name.Value, "namespaceName")).ToError(); err != nil {
		return b.fail(structuralf("invalid namespace name %q at %s: %w", name.Value, name.Location, err))
	}
	b.namespace = b.resolveNamespace(name, projectExtension)
	return nil
}

// ExitNamespace closes the open namespace.
func (b *Builder) ExitNamespace() error {
	if b.err != nil {
		return b.err
	}
	if b.namespace == nil {
		return b.fail(structuralf("namespace exited while no namespace is open"))
	}
	if f := b.top(); f != nil {
		return b.fail(structuralf("namespace %s exited with %s still open", b.namespace.Name, f.kind.Type))
	}
	b.namespace = nil
	return nil
}

// EnterEntity starts a top-level entity of type t declared at the given
// location.
func (b *Builder) EnterEntity(t entity.Type, at entity.Location) error {
	if b.err != nil {
		return b.err
	}
	if b.namespace == nil {
		return b.fail(structuralf("%s entered outside a namespace at %s", t, at))
	}
	if f := b.top(); f != nil {
		return b.fail(structuralf("%s entered inside %s at %s", t, f.kind.Type, at))
	}
	kind, ok := LookupKind(t)
	if !ok {
		return b.fail(structuralf("unknown entity type %q at %s", t, at))
	}
	e := entity.New(t, b.namespace)
	e.SourceMap.Set(entity.FieldType, at)
	b.frames = append(b.frames, &frame{kind: kind, entity: e, rejected: map[*entity.Property]bool{}})
	return nil
}

// EnterProperty starts a property of type t inside the open entity.
func (b *Builder) EnterProperty(t entity.PropertyType, at entity.Location) error {
	if b.err != nil {
		return b.err
	}
	f := b.top()
	switch {
	case f == nil:
		return b.fail(structuralf("%s property entered outside an entity at %s", t, at))
	case f.property != nil:
		return b.fail(structuralf("%s property entered inside property %s at %s", t, f.property.MetaEdName, at))
	case !f.kind.Properties:
		return b.fail(structuralf("%s property entered inside %s, which has no properties, at %s", t, f.kind.Type, at))
	case !t.IsValid():
		return b.fail(structuralf("unknown property type %q at %s", t, at))
	}
	p := entity.NewProperty(t)
	p.SourceMap.Set(entity.FieldType, at)
	f.property = p
	return nil
}

// Capture assigns an attribute of the innermost open entity or property.
func (b *Builder) Capture(field entity.Field, tok entity.Token) error {
	if b.err != nil {
		return b.err
	}
	f := b.top()
	if f == nil {
		return b.fail(structuralf("capture of %s outside an entity at %s", field, tok.Location))
	}
	if p := f.property; p != nil {
		if !propertyAccepts(p.Type, field) || !p.Set(field, tok) {
			return b.fail(structuralf("%s property does not accept %s at %s", p.Type, field, tok.Location))
		}
		return nil
	}
	if !f.kind.Accepts(field) || !f.entity.Set(field, tok) {
		return b.fail(structuralf("%s does not accept %s at %s", f.kind.Type, field, tok.Location))
	}
	return nil
}

// ExitProperty completes the open property and appends it to its entity.
func (b *Builder) ExitProperty() error {
	if b.err != nil {
		return b.err
	}
	f := b.top()
	if f == nil || f.property == nil {
		return b.fail(structuralf("property exited while no property is open"))
	}
	p := f.property
	f.property = nil
	f.entity.Properties = append(f.entity.Properties, p)

	if msgs := nameProblems(p.MetaEdName); len(msgs) > 0 {
		f.rejected[p] = true
		loc, _ := p.SourceMap.Get(entity.FieldType)
		b.report(f.kind.Validator(), loc, "%s property %q of %s %s is invalid: %s.",
			p.Type, p.MetaEdName, f.kind.Type.Humanized(), f.entity.MetaEdName, strings.Join(msgs, ", "))
		return nil
	}
	if t, ok := p.Type.GeneratedSimpleType(); ok {
		subject := fmt.Sprintf("%s property %s of %s %s", p.Type, p.MetaEdName, f.kind.Type.Humanized(), f.entity.MetaEdName)
		b.checkRestriction(f.kind.Validator(), t, subject, p.Restriction, p.SourceMap)
	}
	return nil
}

// ExitEntity completes the open entity. Entities with valid identity are
// committed to the repository; otherwise a failure is recorded and the entity
// is discarded.
func (b *Builder) ExitEntity() error {
	if b.err != nil {
		return b.err
	}
	f := b.top()
	if f == nil {
		return b.fail(structuralf("entity exited while no entity is open"))
	}
	if f.property != nil {
		return b.fail(structuralf("%s exited with property %s still open", f.kind.Type, f.property.MetaEdName))
	}
	b.frames = b.frames[:len(b.frames)-1]
	b.complete(f)
	return nil
}

func (b *Builder) complete(f *frame) {
	e, kind := f.entity, f.kind

	if kind.Extends {
		e.BaseEntityName = e.MetaEdName
		if loc, ok := e.SourceMap.Get(entity.FieldMetaEdName); ok {
			e.SourceMap.Set(entity.FieldBaseEntityName, loc)
		}
	}
	for _, field := range kind.Required {
		if !e.SourceMap.Has(field) {
			b.report(kind.Validator(), e.Location(), "%s %s is missing required %s.",
				kind.Type.Humanized(), e.MetaEdName, field)
		}
	}
	if len(kind.Fields) > 0 {
		subject := kind.Type.Humanized() + " " + e.MetaEdName
		b.checkRestriction(kind.Validator(), kind.Type, subject, e.Restriction, e.SourceMap)
	}

	if msgs := nameProblems(e.MetaEdName); len(msgs) > 0 {
		b.report(kind.Validator(), e.Location(), "%s name %q is invalid: %s.",
			kind.Type.Humanized(), e.MetaEdName, strings.Join(msgs, ", "))
		return
	}
	if !placementAllowed(kind.Placement, e.Namespace) {
		b.report(kind.Validator(), e.Location(), "%s named %s %s, but namespace %s %s.",
			kind.Type.Humanized(), e.MetaEdName, placementRule(kind.Placement), e.NamespaceName(), namespaceRole(e.Namespace))
		return
	}

	identity := kind.Identity(e.Namespace, e.MetaEdName)
	if !b.commit(identity, e) {
		b.duplicate(identity, e)
		return
	}
	b.queueSimpleTypes(f)
}

func (b *Builder) commit(identity string, e *entity.Entity) bool {
	return b.repo.Put(identity, e)
}

// duplicate reports a clash on an identity slot. The retained declaration is
// reported once, on its first clash, and every rejected one is reported.
func (b *Builder) duplicate(identity string, e *entity.Entity) {
	key := declaration{namespace: e.NamespaceName(), typ: e.Type, identity: identity}
	if !b.reported[key] {
		b.reported[key] = true
		if existing, ok := b.repo.Get(key.namespace, key.typ, identity); ok {
			b.addDuplicate(identity, existing)
		}
	}
	b.addDuplicate(identity, e)
}

func (b *Builder) addDuplicate(identity string, e *entity.Entity) {
	named := e.MetaEdName
	if identity != e.MetaEdName {
		named = fmt.Sprintf("%s (identity %s)", e.MetaEdName, identity)
	}
	b.report(constants.TopLevelEntityValidator, e.Location(),
		"%s named %s is a duplicate declaration of that name.", e.Type.Humanized(), named)
}

// Finish checks that every rule was closed and returns the build result.
func (b *Builder) Finish() (*Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	if f := b.top(); f != nil {
		return nil, b.fail(structuralf("event stream ended with %s %s still open", f.kind.Type, f.entity.MetaEdName))
	}
	if b.namespace != nil {
		return nil, b.fail(structuralf("event stream ended with namespace %s still open", b.namespace.Name))
	}
	b.commitSimpleTypes()
	if b.fileIndex != nil {
		b.failures.Resolve(b.fileIndex.Resolve)
	}
	res := &Result{
		BuildID:    b.buildID,
		Repository: b.repo,
		Failures:   b.failures.List(),
	}
	b.logger.Info("build finished",
		logkey.EntityCount, b.repo.Count(),
		logkey.FailureCount, len(res.Failures),
	)
	return res, nil
}

func nameProblems(name string) []string {
	v := valgo.Is(valgoutil.EntityNameValidator(name, "metaEdName", "Name"))
	if v.Valid() {
		return nil
	}
	var msgs []string
	if verr, ok := v.ToError().(*valgo.Error); ok {
		for _, fieldErr := range verr.Errors() {
			msgs = append(msgs, fieldErr.Messages()...)
		}
	}
	sort.Strings(msgs)
	if len(msgs) == 0 {
		msgs = []string{fmt.Sprintf("%q is not a valid name", name)}
	}
	return msgs
}

func placementAllowed(p Placement, ns *entity.Namespace) bool {
	switch p {
	case PlacementExtensionOnly:
		return ns.IsExtension
	case PlacementCoreOnly:
		return !ns.IsExtension
	}
	return true
}

func placementRule(p Placement) string {
	if p == PlacementCoreOnly {
		return "must be declared in a core namespace"
	}
	return "must be declared in an extension namespace"
}

func namespaceRole(ns *entity.Namespace) string {
	if ns.IsExtension {
		return "is an extension of project " + ns.ProjectExtension
	}
	return "has no project extension"
}
