// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package compgraph is a container of named vertices connected in a directed acyclic graph.
//
// A Config holds the graph definition: the graph inputs, the vertices (see package vertex)
// with the names of their inputs, and the names of the outputs. It can be validated, type-checked,
// memory-planned and serialized without allocating parameters. Config.Init allocates (or adopts)
// the flat parameter buffer and instantiates every vertex, returning an executable Graph.
//
// Use a Builder to create a Config:
//
//	conf, err := compgraph.NewBuilder(netconf.New()).
//		AddInputs("a", "b").
//		SetInputTypes(inputtype.FeedForward(3), inputtype.FeedForward(3)).
//		AddVertex("diff", &vertex.ElementWiseVertex{Op: vertex.OpSubtract}, "a", "b").
//		AddLayer("dense", &layers.Dense{NOut: 2}, "diff").
//		SetOutputs("dense").
//		Build()
package compgraph

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/ml/vertex"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config is the definition of a computation graph.
type Config struct {
	// NetConf is the network-wide configuration.
	NetConf *netconf.Config `json:"net_conf"`

	// Inputs are the names of the graph inputs, in the order their values are given.
	Inputs []string `json:"inputs"`

	// InputTypes of the graph inputs, in the same order as Inputs. Optional: type inference and
	// memory reports require them.
	InputTypes []inputtype.InputType `json:"input_types,omitempty"`

	// Vertices by name.
	Vertices map[string]vertex.Wrapper `json:"vertices"`

	// VertexInputs lists the inputs (graph inputs or vertices) of each vertex, in order.
	VertexInputs map[string][]string `json:"vertex_inputs"`

	// Outputs are the names of the vertices whose values are the outputs of the graph.
	Outputs []string `json:"outputs"`
}

// Vertex returns the named vertex, or nil if there is no such vertex.
func (c *Config) Vertex(name string) vertex.Vertex {
	return c.Vertices[name].Value
}

// VertexNames returns the sorted names of the vertices.
func (c *Config) VertexNames() []string {
	return slices.Sorted(maps.Keys(c.Vertices))
}

// NumParams returns the total number of parameters of the graph.
func (c *Config) NumParams(training bool) int {
	var total int
	for _, w := range c.Vertices {
		if w.Value != nil {
			total += w.Value.NumParams(training)
		}
	}
	return total
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	c2 := &Config{
		Inputs:       slices.Clone(c.Inputs),
		InputTypes:   slices.Clone(c.InputTypes),
		Vertices:     make(map[string]vertex.Wrapper, len(c.Vertices)),
		VertexInputs: make(map[string][]string, len(c.VertexInputs)),
		Outputs:      slices.Clone(c.Outputs),
	}
	if c.NetConf != nil {
		c2.NetConf = c.NetConf.Clone()
	}
	for name, w := range c.Vertices {
		if w.Value != nil {
			w = vertex.Wrapper{Value: w.Value.Clone()}
		}
		c2.Vertices[name] = w
	}
	for name, inputs := range c.VertexInputs {
		c2.VertexInputs[name] = slices.Clone(inputs)
	}
	return c2
}

// Equal returns whether both configurations define the same graph.
func (c *Config) Equal(other *Config) bool {
	if (c.NetConf == nil) != (other.NetConf == nil) || (c.NetConf != nil && !c.NetConf.Equal(other.NetConf)) {
		return false
	}
	if !slices.Equal(c.Inputs, other.Inputs) || !slices.Equal(c.InputTypes, other.InputTypes) ||
		!slices.Equal(c.Outputs, other.Outputs) {
		return false
	}
	if !maps.EqualFunc(c.VertexInputs, other.VertexInputs, slices.Equal[[]string]) {
		return false
	}
	return maps.EqualFunc(c.Vertices, other.Vertices, func(a, b vertex.Wrapper) bool {
		if a.Value == nil || b.Value == nil {
			return a.Value == nil && b.Value == nil
		}
		return a.Value.Equal(b.Value)
	})
}

// ToJSON serializes the configuration.
func (c *Config) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "compgraph: failed to serialize configuration")
	}
	return data, nil
}

// FromJSON deserializes a configuration created with Config.ToJSON. It is not validated.
//
// If InputTypes are set and the graph is structurally valid, the input sizes of the layers
// left unset (0) are inferred, as in Builder.Build. Type errors are left to OutputTypes and Init.
func FromJSON(data []byte) (*Config, error) {
	c := &Config{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "compgraph: failed to parse configuration")
	}
	if c.NetConf == nil {
		c.NetConf = netconf.New()
	}
	if c.Vertices == nil {
		c.Vertices = make(map[string]vertex.Wrapper)
	}
	if c.VertexInputs == nil {
		c.VertexInputs = make(map[string][]string)
	}
	if len(c.InputTypes) > 0 && c.Validate() == nil {
		if err := c.inferInputSizes(); err != nil {
			klog.V(1).Infof("compgraph: layer input sizes not inferred: %v", err)
		}
	}
	return c, nil
}
