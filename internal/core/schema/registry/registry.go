// Package registry records the persisted shape of data kinds so external
// serializers and editor tooling can identify and version them.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrTypeNotFound      = errors.New("type not registered")
	ErrVersionNotFound   = errors.New("type version not registered")
	ErrAlreadyRegistered = errors.New("type version already registered")
	ErrInvalidSchema     = errors.New("invalid type schema")
)

// FieldType is the persisted type of a schema field.
type FieldType uint16

const (
	FieldBool FieldType = iota + 1
	FieldInt
	FieldFloat
	FieldVec3Array
)

func (t FieldType) String() string {
	switch t {
	case FieldBool:
		return "bool"
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldVec3Array:
		return "vec3[]"
	default:
		return "unknown"
	}
}

// FieldSchema describes one field of a type.
type FieldSchema struct {
	Name     string
	Type     FieldType
	Required bool
}

// TypeSchema is one version of a persisted type.
type TypeSchema struct {
	Name          string
	Version       int
	Fields        []FieldSchema
	Documentation string
}

// Validate checks that the schema is named, versioned and has unique field names.
func (s TypeSchema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSchema)
	}
	if s.Version < 1 {
		return fmt.Errorf("%w: %s version %d", ErrInvalidSchema, s.Name, s.Version)
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" || seen[f.Name] {
			return fmt.Errorf("%w: %s field %q", ErrInvalidSchema, s.Name, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// TypeID is the stable identifier of a type name.
func TypeID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]map[int]TypeSchema
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]map[int]TypeSchema)}
}

// RegisterType adds a schema version. Registering the same name and version
// twice fails with ErrAlreadyRegistered.
func (r *Registry) RegisterType(schema TypeSchema) error {
	if err := schema.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	versions, ok := r.types[schema.Name]
	if !ok {
		versions = make(map[int]TypeSchema)
		r.types[schema.Name] = versions
	}
	if _, exists := versions[schema.Version]; exists {
		return fmt.Errorf("%w: %s v%d", ErrAlreadyRegistered, schema.Name, schema.Version)
	}
	versions[schema.Version] = schema
	return nil
}

// UnregisterType removes every version of name.
func (r *Registry) UnregisterType(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[name]; !ok {
		return fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	delete(r.types, name)
	return nil
}

// GetType returns the latest version of name.
func (r *Registry) GetType(name string) (TypeSchema, error) {
	_, schema, err := r.GetLatestVersion(name)
	return schema, err
}

// GetVersion returns one specific version of name.
func (r *Registry) GetVersion(name string, version int) (TypeSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.types[name]
	if !ok {
		return TypeSchema{}, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	schema, ok := versions[version]
	if !ok {
		return TypeSchema{}, fmt.Errorf("%w: %s v%d", ErrVersionNotFound, name, version)
	}
	return schema, nil
}

// GetLatestVersion returns the highest registered version of name.
func (r *Registry) GetLatestVersion(name string) (int, TypeSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.types[name]
	if !ok || len(versions) == 0 {
		return 0, TypeSchema{}, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	latest := 0
	for v := range versions {
		if v > latest {
			latest = v
		}
	}
	return latest, versions[latest], nil
}

// LookupID resolves a TypeID back to its name.
func (r *Registry) LookupID(id uint64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name := range r.types {
		if TypeID(name) == id {
			return name, true
		}
	}
	return "", false
}

// ListTypes returns the registered type names in sorted order.
func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
