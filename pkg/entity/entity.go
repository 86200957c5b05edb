// Package entity provides the schema-validated property bag that all
// Acumulus business objects are built on. Each object kind declares its
// properties up front (name, kind, required, allowed values); setting a
// property validates against that declaration. Provenance and intermediate
// results live in an ordered metadata multimap next to the properties, never
// in the properties themselves.
package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownProperty = errors.New("unknown_property")
	ErrWrongKind       = errors.New("wrong_kind")
	ErrValueNotAllowed = errors.New("value_not_allowed")
	ErrRequiredMissing = errors.New("required_missing")
)

// Kind enumerates the value types a property can hold.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// PropertySpec declares one property of an object kind.
type PropertySpec struct {
	Name     string
	Kind     Kind
	Required bool
	// Allowed restricts the property to a fixed value set when non-empty.
	Allowed []any
}

// Schema is the fixed property set of one object kind.
type Schema struct {
	specs []PropertySpec
	index map[string]int
}

// NewSchema builds a schema from property declarations. A malformed schema
// is a programming error, not input data, so it panics.
func NewSchema(specs ...PropertySpec) *Schema {
	s := &Schema{
		specs: specs,
		index: make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		if spec.Name == "" {
			panic("entity: property with empty name")
		}
		if _, exists := s.index[spec.Name]; exists {
			panic(fmt.Sprintf("entity: duplicate property %q", spec.Name))
		}
		s.index[spec.Name] = i
	}
	return s
}

// Spec returns the declaration for a property name.
func (s *Schema) Spec(name string) (PropertySpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return PropertySpec{}, false
	}
	return s.specs[i], true
}

// Names returns the property names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Object is a mutable instance of a schema. Unset properties read as absent,
// never as an implicit zero value.
type Object struct {
	schema *Schema
	values map[string]any
	meta   *Metadata
}

// NewObject creates an empty object for the given schema.
func NewObject(schema *Schema) *Object {
	return &Object{
		schema: schema,
		values: make(map[string]any),
		meta:   NewMetadata(),
	}
}

// Schema returns the object's schema.
func (o *Object) Schema() *Schema {
	return o.schema
}

// Metadata returns the object's metadata bag.
func (o *Object) Metadata() *Metadata {
	return o.meta
}

// Set assigns a property after validating its kind and, when declared, its
// allowed value set.
func (o *Object) Set(name string, value any) error {
	spec, ok := o.schema.Spec(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	if !kindMatches(spec.Kind, value) {
		return fmt.Errorf("%w: %s expects %s, got %T", ErrWrongKind, name, spec.Kind, value)
	}
	if len(spec.Allowed) > 0 && !valueAllowed(spec.Allowed, value) {
		return fmt.Errorf("%w: %s = %v", ErrValueNotAllowed, name, value)
	}
	// Whole numbers are accepted for float properties; store them uniformly.
	if spec.Kind == KindFloat {
		if i, ok := value.(int); ok {
			value = float64(i)
		}
	}
	o.values[name] = value
	return nil
}

// MustSet is Set for statically correct values; a failure here means the
// caller's code is wrong, not its data.
func (o *Object) MustSet(name string, value any) {
	if err := o.Set(name, value); err != nil {
		panic(err)
	}
}

// Unset removes a property value.
func (o *Object) Unset(name string) {
	delete(o.values, name)
}

// IsSet reports whether the property has been assigned.
func (o *Object) IsSet(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Get returns the raw value and whether it is set.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// GetString returns a string property, false when unset.
func (o *Object) GetString(name string) (string, bool) {
	v, ok := o.values[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt returns an int property, false when unset.
func (o *Object) GetInt(name string) (int, bool) {
	v, ok := o.values[name]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// GetFloat returns a float property, false when unset.
func (o *Object) GetFloat(name string) (float64, bool) {
	v, ok := o.values[name]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// GetBool returns a bool property, false when unset.
func (o *Object) GetBool(name string) (bool, bool) {
	v, ok := o.values[name]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetDate returns a date property, false when unset.
func (o *Object) GetDate(name string) (time.Time, bool) {
	v, ok := o.values[name]
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// Validate checks that every required property is set.
func (o *Object) Validate() error {
	for _, spec := range o.schema.specs {
		if spec.Required && !o.IsSet(spec.Name) {
			return fmt.Errorf("%w: %s", ErrRequiredMissing, spec.Name)
		}
	}
	return nil
}

func kindMatches(kind Kind, value any) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindInt:
		_, ok := value.(int)
		return ok
	case KindFloat:
		switch value.(type) {
		case float64, int:
			return true
		}
		return false
	case KindBool:
		_, ok := value.(bool)
		return ok
	case KindDate:
		_, ok := value.(time.Time)
		return ok
	default:
		return false
	}
}

func valueAllowed(allowed []any, value any) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
