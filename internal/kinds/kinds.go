package kinds

import (
	"fmt"
	"sort"
	"sync"
)

// Class partitions the kind namespace. A check kind and a question kind with
// the same name are distinct kinds.
type Class int

const (
	ClassCheck Class = iota + 1
	ClassQuestion
	ClassAnswer
	ClassHandler
)

func (c Class) String() string {
	switch c {
	case ClassCheck:
		return "check"
	case ClassQuestion:
		return "question"
	case ClassAnswer:
		return "answer"
	case ClassHandler:
		return "handler"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Kind identifies an extensible type by a stable string name. The name is
// used both as a registry lookup key and as the serialized discriminator for
// results and questions, so it must not change between builds that need to
// read each other's output.
type Kind struct {
	name  string
	class Class
}

func New(name string, class Class) Kind {
	return Kind{name: name, class: class}
}

func (k Kind) Name() string { return k.name }

func (k Kind) Class() Class { return k.class }

func (k Kind) IsZero() bool { return k == Kind{} }

func (k Kind) String() string {
	return fmt.Sprintf("%s/%s", k.class, k.name)
}

// UnknownKindError is returned when a serialized kind name does not resolve
// to any registered kind. The offending name is preserved for diagnostics.
type UnknownKindError struct {
	KindName string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown kind %q", e.KindName)
}

// Registry maps kind names to Kind values. Decoding resolves serialized kind
// strings through a Registry configured by the embedding application; the
// core never hardcodes its contents.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Kind
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Kind)}
}

// Register adds a kind. Registering two different kinds under the same name
// is a programming error and panics; re-registering an identical kind is a
// no-op so packages can register their kinds from init without coordination.
func (r *Registry) Register(k Kind) {
	if k.IsZero() {
		panic("kinds: cannot register zero Kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byName[k.name]; ok {
		if existing == k {
			return
		}
		panic(fmt.Sprintf("kinds: %q already registered as %s", k.name, existing.class))
	}
	r.byName[k.name] = k
}

// Resolve returns the kind registered under name, or an *UnknownKindError.
func (r *Registry) Resolve(name string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.byName[name]
	if !ok {
		return Kind{}, &UnknownKindError{KindName: name}
	}
	return k, nil
}

// List returns all registered kinds sorted by name.
func (r *Registry) List() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Kind, 0, len(r.byName))
	for _, k := range r.byName {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. Built-in checks register their
// kinds here from init; embedding applications may add third-party kinds
// before decoding, or build an isolated Registry and pass it explicitly.
func Default() *Registry {
	return defaultRegistry
}

func Register(k Kind) { defaultRegistry.Register(k) }

func Resolve(name string) (Kind, error) { return defaultRegistry.Resolve(name) }
