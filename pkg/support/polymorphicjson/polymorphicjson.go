// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

/*
Package polymorphicjson serializes and deserializes Go interfaces that belong to a
closed set of concrete types, using the standard encoding/json package.

Each concrete type reports a stable tag (its "type name") and the name of the interface
it implements. When encoding, two discriminator fields are injected in the JSON object
("json_type" and "interface_name"); when decoding, they are used to look up the
constructor of the concrete type in a process-wide registry, which is filled once at
startup (typically from init functions).

Usage:

First define the interface, embedding JSONIdentifiable:

	type Vertex interface {
		polymorphicjson.JSONIdentifiable
		NumParams(training bool) int
	}

Then define the concrete types, implementing JSONTags:

	type ScaleVertex struct {
		ScaleFactor float64 `json:"scale_factor"`
	}

	func (v *ScaleVertex) JSONTags() (typeName, interfaceName string) { return "ScaleVertex", "Vertex" }

	func init() {
		polymorphicjson.Register(func() Vertex { return &ScaleVertex{} })
	}

Finally, hold the interface values in a Wrapper[Vertex], which implements json.Marshaler
and json.Unmarshaler:

	type GraphConfig struct {
		Vertices map[string]polymorphicjson.Wrapper[Vertex] `json:"vertices"`
	}

Concrete types must encode to a JSON object, and must not use the field names
"json_type" or "interface_name" themselves.
*/
package polymorphicjson

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/pkg/errors"
)

const (
	// TypeField is the JSON field holding the concrete type name.
	TypeField = "json_type"

	// InterfaceField is the JSON field holding the name of the interface.
	InterfaceField = "interface_name"
)

// JSONIdentifiable is the constraint interface. Any concrete type must implement
// this method to provide the unique tag for the concrete type and the name
// of the interface it satisfies.
type JSONIdentifiable interface {
	// JSONTags returns the unique name for the concrete type and the unique name for the interface.
	JSONTags() (typeName string, interfaceName string)
}

var (
	// registry maps the interface name (e.g. "Vertex") to concrete type constructors, by type name.
	registry = make(map[string]map[string]func() JSONIdentifiable)

	registryMu sync.RWMutex
)

// Register registers a concrete type T by using its JSONTags() method to determine
// its concrete type name and the interface it belongs to.
// T must be a pointer to a struct that implements JSONIdentifiable.
//
// Registering the same type name twice for the same interface panics: tags must be stable
// and unique.
func Register[T JSONIdentifiable](constructor func() T) {
	registryMu.Lock()
	defer registryMu.Unlock()

	instance := constructor()
	typeName, interfaceName := instance.JSONTags()
	if _, exists := registry[interfaceName]; !exists {
		registry[interfaceName] = make(map[string]func() JSONIdentifiable)
	}
	if _, exists := registry[interfaceName][typeName]; exists {
		panic(errors.Errorf("polymorphicjson: type %q registered twice for interface %q", typeName, interfaceName))
	}
	registry[interfaceName][typeName] = func() JSONIdentifiable {
		return constructor()
	}
}

// New creates a new zero-valued instance of the concrete type registered under the given names.
func New(interfaceName, typeName string) (JSONIdentifiable, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	typeMap, ok := registry[interfaceName]
	if !ok {
		return nil, errors.Errorf("polymorphicjson: interface %q not registered", interfaceName)
	}
	constructor, ok := typeMap[typeName]
	if !ok {
		return nil, errors.Errorf("polymorphicjson: unknown concrete type %q for interface %q", typeName, interfaceName)
	}
	return constructor(), nil
}

// RegisteredTypes returns the sorted type names registered for the given interface.
func RegisteredTypes(interfaceName string) []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry[interfaceName]))
	for name := range registry[interfaceName] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TypeWrapper is a minimal struct used only to extract the type tags during the first
// pass of unmarshaling.
type TypeWrapper struct {
	JSONType      string `json:"json_type"`
	InterfaceName string `json:"interface_name"`
}

// Wrap returns a Wrapper holding value.
func Wrap[I JSONIdentifiable](value I) Wrapper[I] {
	return Wrapper[I]{Value: value}
}

// Wrapper is the generic type wrapper that implements the standard
// json.Marshaler and json.Unmarshaler interfaces.
type Wrapper[I JSONIdentifiable] struct {
	Value I
}

// MarshalJSON implements json.Marshaler for the generic wrapper.
func (p Wrapper[I]) MarshalJSON() ([]byte, error) {
	return MarshalPolymorphic(p.Value)
}

// UnmarshalJSON implements json.Unmarshaler for the generic wrapper.
func (p *Wrapper[I]) UnmarshalJSON(b []byte) error {
	return UnmarshalPolymorphic(b, &p.Value)
}

// Get returns the wrapped value.
func (p Wrapper[I]) Get() I {
	return p.Value
}

// UnmarshalPolymorphic performs the two-pass unmarshaling required for polymorphic types.
// 'I' is the interface type, and target points to where the concrete value is stored.
func UnmarshalPolymorphic[I JSONIdentifiable](b []byte, target *I) error {
	if len(b) == 0 || string(b) == "null" {
		var nilI I
		*target = nilI
		return nil
	}

	// Pass 1: extract the type tags.
	var wrapper TypeWrapper
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return errors.Wrap(err, "polymorphic unmarshal failed to read tags")
	}
	if wrapper.JSONType == "" || wrapper.InterfaceName == "" {
		return errors.Errorf("polymorphic unmarshal: missing %q or %q field in %s", TypeField, InterfaceField, abbreviate(b))
	}
	instance, err := New(wrapper.InterfaceName, wrapper.JSONType)
	if err != nil {
		return errors.WithMessage(err, "polymorphic unmarshal")
	}

	// Pass 2: unmarshal the full JSON into the concrete instance. The tag fields are unknown
	// to the concrete type and are ignored by encoding/json.
	if err := json.Unmarshal(b, instance); err != nil {
		return errors.Wrapf(err, "polymorphic unmarshal failed to load data into concrete type %T", instance)
	}
	value, ok := instance.(I)
	if !ok {
		return errors.Errorf("polymorphic unmarshal: concrete type %T (%q) does not implement the requested interface %q",
			instance, wrapper.JSONType, wrapper.InterfaceName)
	}
	*target = value
	return nil
}

// MarshalPolymorphic encodes value and injects the "json_type" and "interface_name" fields
// reported by its JSONTags method.
func MarshalPolymorphic[I JSONIdentifiable](value I) ([]byte, error) {
	if any(value) == nil {
		return []byte("null"), nil
	}
	typeName, interfaceName := value.JSONTags()
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "polymorphic marshal of %q", typeName)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrapf(err, "polymorphic marshal: concrete type %T must encode to a JSON object", value)
	}
	if _, found := fields[TypeField]; found {
		return nil, errors.Errorf("polymorphic marshal: concrete type %T uses reserved field %q", value, TypeField)
	}
	if _, found := fields[InterfaceField]; found {
		return nil, errors.Errorf("polymorphic marshal: concrete type %T uses reserved field %q", value, InterfaceField)
	}
	fields[TypeField], _ = json.Marshal(typeName)
	fields[InterfaceField], _ = json.Marshal(interfaceName)
	return json.Marshal(fields) // Map keys are sorted, so the output is deterministic.
}

func abbreviate(b []byte) string {
	const maxLen = 80
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
