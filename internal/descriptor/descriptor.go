// Package descriptor defines the tool descriptor handed to the validator
// by an external loader, and the capability-surface contracts a loaded
// tool module is expected to satisfy.
package descriptor

import (
	"context"
	"errors"
	"time"
)

// Tool describes a dynamically discovered extension: its file on disk,
// the capability surface it exposes, and the metadata it declares.
// The validator treats a Tool as read-only.
type Tool struct {
	ID       string
	Path     string
	Module   any // capability surface; checked via Executable/Describable
	Metadata Metadata
	LoadedAt time.Time
}

// Metadata is the raw declared metadata of a tool. Required fields are
// id, name and version (strings); capabilities and dependencies are
// optional sequences. Validation of shape happens in the check suite,
// not here.
type Metadata map[string]any

// StringField returns the named field if present and a string.
func (m Metadata) StringField(name string) (string, bool) {
	v, ok := m[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SequenceField returns the named field as a slice of strings. The
// second return reports presence, the third whether the value was a
// sequence at all ([]string or []any of strings).
func (m Metadata) SequenceField(name string) ([]string, bool, bool) {
	v, ok := m[name]
	if !ok {
		return nil, false, false
	}
	switch vv := v.(type) {
	case []string:
		return vv, true, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, true, false
			}
			out = append(out, s)
		}
		return out, true, true
	default:
		return nil, true, false
	}
}

// Executable is the capability a tool module must expose to be invoked
// by the host.
type Executable interface {
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Describable is the capability a tool module must expose for the host
// to introspect it.
type Describable interface {
	GetMetadata() Metadata
}

// ErrNotLoaded is returned by declared surfaces, which stand in for a
// live module when validation happens before (or without) loading.
var ErrNotLoaded = errors.New("descriptor: module not loaded, declared surface only")

// NewDeclaredSurface adapts a list of declared operation names into a
// capability surface. Loaders that know a tool's exports without
// loading it (HTTP requests, manifest files) use this to satisfy the
// interface-compliance contract. The returned surface only declares
// the operations; invoking them yields ErrNotLoaded.
func NewDeclaredSurface(operations []string, meta Metadata) any {
	var hasExecute, hasMetadata bool
	for _, op := range operations {
		switch op {
		case "execute":
			hasExecute = true
		case "getMetadata":
			hasMetadata = true
		}
	}

	switch {
	case hasExecute && hasMetadata:
		return &declaredFull{meta: meta}
	case hasExecute:
		return &declaredExecutable{}
	case hasMetadata:
		return &declaredDescribable{meta: meta}
	default:
		return &declaredEmpty{}
	}
}

type declaredFull struct{ meta Metadata }

func (d *declaredFull) Execute(context.Context, map[string]any) (any, error) {
	return nil, ErrNotLoaded
}

func (d *declaredFull) GetMetadata() Metadata { return d.meta }

type declaredExecutable struct{}

func (d *declaredExecutable) Execute(context.Context, map[string]any) (any, error) {
	return nil, ErrNotLoaded
}

type declaredDescribable struct{ meta Metadata }

func (d *declaredDescribable) GetMetadata() Metadata { return d.meta }

type declaredEmpty struct{}
