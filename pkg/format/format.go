package format

import (
	"context"
	"fmt"
	"slices"
	"strings"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// ID identifies a font format. It doubles as the output file extension.
type ID string

// Known font formats.
const (
	SVG   ID = "svg"
	TTF   ID = "ttf"
	WOFF  ID = "woff"
	WOFF2 ID = "woff2"
	EOT   ID = "eot"
)

// ConvertFunc builds one artifact from the shared options and the
// artifacts of the format's dependencies, in the order they are declared.
// Implementations must not modify opts or deps.
type ConvertFunc func(ctx context.Context, opts *Options, deps ...[]byte) ([]byte, error)

// Descriptor describes how to build one format.
type Descriptor struct {
	ID           ID
	Dependencies []ID
	Convert      ConvertFunc
}

// Registry is an immutable, acyclic table of format descriptors.
type Registry struct {
	order []ID
	descs map[ID]Descriptor
}

// NewRegistry validates descs and builds a registry from them.
// Every dependency must be registered and the dependency relation must be acyclic.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{descs: make(map[ID]Descriptor, len(descs))}
	for _, d := range descs {
		if d.ID == "" {
			return nil, ierrors.New(ierrors.ErrCodeInternal, "format descriptor without ID")
		}
		if d.Convert == nil {
			return nil, ierrors.New(ierrors.ErrCodeInternal, "format %s has no converter", d.ID)
		}
		if _, dup := r.descs[d.ID]; dup {
			return nil, ierrors.New(ierrors.ErrCodeInternal, "format %s registered twice", d.ID)
		}
		d.Dependencies = slices.Clone(d.Dependencies)
		r.descs[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	for _, d := range descs {
		for _, dep := range d.Dependencies {
			if _, ok := r.descs[dep]; !ok {
				return nil, ierrors.New(ierrors.ErrCodeInternal, "format %s depends on unregistered format %s", d.ID, dep)
			}
		}
	}
	if err := r.checkAcyclic(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[ID]int, len(r.descs))
	var path []ID
	var visit func(ID) error
	visit = func(id ID) error {
		switch state[id] {
		case visiting:
			cycle := append(slices.Clone(path), id)
			names := make([]string, len(cycle))
			for i, c := range cycle {
				names[i] = string(c)
			}
			return ierrors.New(ierrors.ErrCodeInternal, "format dependency cycle: %s", strings.Join(names, " -> "))
		case done:
			return nil
		}
		state[id] = visiting
		path = append(path, id)
		for _, dep := range r.descs[id].Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}
	for _, id := range r.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the descriptor registered for id.
func (r *Registry) Lookup(id ID) (Descriptor, bool) {
	d, ok := r.descs[id]
	return d, ok
}

// IDs returns every registered format in registration order.
func (r *Registry) IDs() []ID {
	return slices.Clone(r.order)
}

// Validate returns an UNKNOWN_FORMAT error for the first id that is not registered.
func (r *Registry) Validate(ids []ID) error {
	for _, id := range ids {
		if _, ok := r.descs[id]; !ok {
			return ierrors.New(ierrors.ErrCodeUnknownFormat, "unknown font format %q (must be one of: %s)", id, r.joinIDs())
		}
	}
	return nil
}

// Closure returns ids plus every format reachable through dependency
// edges, each once, in registration order. Unknown ids are ignored.
func (r *Registry) Closure(ids []ID) []ID {
	seen := make(map[ID]bool)
	var walk func(ID)
	walk = func(id ID) {
		d, ok := r.descs[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		for _, dep := range d.Dependencies {
			walk(dep)
		}
	}
	for _, id := range ids {
		walk(id)
	}
	var out []ID
	for _, id := range r.order {
		if seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// Wrap returns a registry with the same graph whose converters are
// replaced by wrap(descriptor). It is used to layer caching or
// instrumentation over the converters without touching the table.
func (r *Registry) Wrap(wrap func(Descriptor) ConvertFunc) *Registry {
	out := &Registry{order: slices.Clone(r.order), descs: make(map[ID]Descriptor, len(r.descs))}
	for id, d := range r.descs {
		d.Convert = wrap(d)
		out.descs[id] = d
	}
	return out
}

func (r *Registry) joinIDs() string {
	names := make([]string, len(r.order))
	for i, id := range r.order {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

// Default returns the built-in registry:
// svg has no dependencies, ttf depends on svg, and woff, woff2 and eot
// each depend on ttf only.
func Default() *Registry {
	r, err := NewRegistry(
		Descriptor{ID: SVG, Convert: ConvertSVG},
		Descriptor{ID: TTF, Dependencies: []ID{SVG}, Convert: ConvertTTF},
		Descriptor{ID: WOFF, Dependencies: []ID{TTF}, Convert: ConvertWOFF},
		Descriptor{ID: WOFF2, Dependencies: []ID{TTF}, Convert: ConvertWOFF2},
		Descriptor{ID: EOT, Dependencies: []ID{TTF}, Convert: ConvertEOT},
	)
	if err != nil {
		panic(fmt.Sprintf("format: invalid default registry: %v", err))
	}
	return r
}

// ParseIDs splits a comma-separated list such as "woff,woff2" into IDs.
// Blank entries are dropped and surrounding whitespace is trimmed.
func ParseIDs(s string) []ID {
	var ids []ID
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, ID(strings.ToLower(part)))
		}
	}
	return ids
}

// dependency returns the single dependency artifact a leaf converter expects.
func dependency(id ID, deps [][]byte) ([]byte, error) {
	if len(deps) != 1 {
		return nil, ierrors.New(ierrors.ErrCodeInternal, "%s converter expects 1 dependency artifact, got %d", id, len(deps))
	}
	if len(deps[0]) == 0 {
		return nil, ierrors.New(ierrors.ErrCodeConversion, "%s converter received an empty input artifact", id)
	}
	return deps[0], nil
}
