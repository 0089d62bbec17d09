package entity

import (
	"fmt"
	"iter"

	"github.com/joshjon/kit/errtag"

	"github.com/metaed/metaed/syncutil"
)

type partitionKey struct {
	namespace string
	typ       Type
}

// Repository is the entity repository produced by a build: a namespace
// registry plus, per namespace and entity type, an insertion-ordered map from
// identity key to Entity. Identity slots are write-once.
//
// A Repository has a single writer during a build. Once the build finishes it
// may be read concurrently.
type Repository struct {
	namespaces *syncutil.OrderedMap[string, *Namespace]
	partitions *syncutil.OrderedMap[partitionKey, *syncutil.OrderedMap[string, *Entity]]
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		namespaces: syncutil.NewOrderedMap[string, *Namespace](),
		partitions: syncutil.NewOrderedMap[partitionKey, *syncutil.OrderedMap[string, *Entity]](),
	}
}

// AddNamespace registers ns. It reports false if a namespace with the same
// name is already registered.
func (r *Repository) AddNamespace(ns *Namespace) bool {
	return r.namespaces.PutIfAbsent(ns.Name, ns)
}

// Namespace returns the registered namespace with the given name.
func (r *Repository) Namespace(name string) (*Namespace, bool) {
	return r.namespaces.Get(name)
}

// Namespaces returns all registered namespaces in registration order.
func (r *Repository) Namespaces() iter.Seq[*Namespace] {
	return r.namespaces.Values()
}

// Put stores e under identity in the partition of its namespace and type. It
// reports false, leaving the repository untouched, if the slot is occupied.
func (r *Repository) Put(identity string, e *Entity) bool {
	key := partitionKey{namespace: e.NamespaceName(), typ: e.Type}
	part, ok := r.partitions.Get(key)
	if !ok {
		r.partitions.PutIfAbsent(key, syncutil.NewOrderedMap[string, *Entity]())
		part, _ = r.partitions.Get(key)
	}
	return part.PutIfAbsent(identity, e)
}

// Get returns the entity stored under identity for the namespace and type.
func (r *Repository) Get(namespace string, t Type, identity string) (*Entity, bool) {
	part, ok := r.partitions.Get(partitionKey{namespace: namespace, typ: t})
	if !ok {
		return nil, false
	}
	return part.Get(identity)
}

// Read is like Get but returns a tagged not found error.
func (r *Repository) Read(namespace string, t Type, identity string) (*Entity, error) {
	if _, ok := r.namespaces.Get(namespace); !ok {
		return nil, errtag.Tag[ErrTagNotFound[Namespace]](fmt.Errorf("namespace %q", namespace))
	}
	e, ok := r.Get(namespace, t, identity)
	if !ok {
		return nil, errtag.Tag[ErrTagNotFound[Entity]](fmt.Errorf("%s %q in namespace %q", t, identity, namespace))
	}
	return e, nil
}

// Size returns the number of entities of type t in the namespace.
func (r *Repository) Size(namespace string, t Type) int {
	part, ok := r.partitions.Get(partitionKey{namespace: namespace, typ: t})
	if !ok {
		return 0
	}
	return part.Len()
}

// Identities returns the identity keys of type t in the namespace in
// insertion order.
func (r *Repository) Identities(namespace string, t Type) []string {
	part, ok := r.partitions.Get(partitionKey{namespace: namespace, typ: t})
	if !ok {
		return nil
	}
	return part.Keys()
}

// Values returns a restartable sequence of the entities of type t in the
// namespace in insertion order.
func (r *Repository) Values(namespace string, t Type) iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		part, ok := r.partitions.Get(partitionKey{namespace: namespace, typ: t})
		if !ok {
			return
		}
		for e := range part.Values() {
			if !yield(e) {
				return
			}
		}
	}
}

// All returns every entity of type t across namespaces, namespaces in
// registration order.
func (r *Repository) All(t Type) iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for ns := range r.namespaces.Values() {
			for e := range r.Values(ns.Name, t) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Count returns the total number of entities in the repository.
func (r *Repository) Count() int {
	n := 0
	for part := range r.partitions.Values() {
		n += part.Len()
	}
	return n
}
