package configstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Keyer is implemented by schema types that declare a stable configuration key.
// ConfigKey is called on the zero value, so it must not depend on field values.
type Keyer interface {
	ConfigKey() string
}

var keyerType = reflect.TypeOf((*Keyer)(nil)).Elem()

// Key identifies a configuration row. It is either a plain string key or a schema
// key derived from a Go type; both resolve to the same canonical string.
type Key struct {
	name   string
	schema reflect.Type
}

// StringKey returns a key addressing the raw payload stored under name.
func StringKey(name string) Key {
	return Key{name: name}
}

// SchemaKey returns the key for schema type T.
func SchemaKey[T any]() Key {
	return TypeKey(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeKey returns the key for a schema type. Pointer types resolve to their element type,
// so T and *T share one row.
func TypeKey(t reflect.Type) Key {
	if t == nil {
		return Key{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Key{name: schemaName(t), schema: t}
}

// KeyFor derives a key from a string, an existing Key, or the runtime type of a schema value.
func KeyFor(v any) Key {
	switch k := v.(type) {
	case string:
		return StringKey(k)
	case Key:
		return k
	case reflect.Type:
		return TypeKey(k)
	}
	return TypeKey(reflect.TypeOf(v))
}

// schemaName prefers the declared Keyer identifier and falls back to the type name.
func schemaName(t reflect.Type) string {
	if reflect.PointerTo(t).Implements(keyerType) {
		if k, ok := reflect.New(t).Interface().(Keyer); ok {
			if name := k.ConfigKey(); name != "" {
				return name
			}
		}
	}
	return t.Name()
}

// String returns the canonical key used for storage and cache lookups.
func (k Key) String() string {
	return k.name
}

// IsSchema reports whether the key was derived from a schema type.
func (k Key) IsSchema() bool {
	return k.schema != nil
}

// Type returns the schema type, or nil for a string key.
func (k Key) Type() reflect.Type {
	return k.schema
}

// Path is the lower-cased key used by admin form routes.
func (k Key) Path() string {
	return strings.ToLower(k.name)
}

// decode parses data into a new instance of the schema type and returns a pointer to it.
func (k Key) decode(data string) (any, error) {
	v := reflect.New(k.schema)
	if err := json.Unmarshal([]byte(data), v.Interface()); err != nil {
		return nil, fmt.Errorf("%w: key '%s' as %s: %v", ErrDeserialization, k.name, k.schema, err)
	}
	return v.Interface(), nil
}
