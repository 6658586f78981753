// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compgraph

import (
	"slices"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/ml/layers"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/ml/vertex"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Builder creates a Config. Errors are deferred to Build, so calls can be chained.
type Builder struct {
	conf *Config
	err  error
}

// NewBuilder returns a Builder for a graph with the given network configuration.
// If netConf is nil, netconf.New() is used.
func NewBuilder(netConf *netconf.Config) *Builder {
	if netConf == nil {
		netConf = netconf.New()
	}
	return &Builder{conf: &Config{
		NetConf:      netConf,
		Vertices:     make(map[string]vertex.Wrapper),
		VertexInputs: make(map[string][]string),
	}}
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// AddInputs appends graph inputs.
func (b *Builder) AddInputs(names ...string) *Builder {
	b.conf.Inputs = append(b.conf.Inputs, names...)
	return b
}

// SetInputTypes sets the types of the graph inputs, in the order they were added.
func (b *Builder) SetInputTypes(types ...inputtype.InputType) *Builder {
	b.conf.InputTypes = slices.Clone(types)
	return b
}

// AddVertex adds the vertex, connected to the given inputs (graph inputs or other vertices).
func (b *Builder) AddVertex(name string, v vertex.Vertex, inputs ...string) *Builder {
	if v == nil {
		b.setErr(errors.Errorf("compgraph: vertex %q is nil", name))
		return b
	}
	if _, found := b.conf.Vertices[name]; found {
		b.setErr(errors.Wrapf(ErrDuplicateName, "compgraph: vertex %q added twice", name))
		return b
	}
	b.conf.Vertices[name] = vertex.Wrapper{Value: v}
	b.conf.VertexInputs[name] = slices.Clone(inputs)
	return b
}

// AddLayer adds a LayerVertex wrapping the layer, without preprocessor.
func (b *Builder) AddLayer(name string, layer layers.Config, inputs ...string) *Builder {
	return b.AddVertex(name, vertex.NewLayerVertex(layer, nil), inputs...)
}

// SetOutputs sets the names of the vertices that are the outputs of the graph.
func (b *Builder) SetOutputs(names ...string) *Builder {
	b.conf.Outputs = slices.Clone(names)
	return b
}

// Build validates and returns the configuration.
//
// If the input types are set, the input sizes of the layers that were left unset (0) are
// inferred, and the graph is type-checked.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	conf := b.conf
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if len(conf.InputTypes) == 0 {
		return conf, nil
	}
	if err := conf.inferInputSizes(); err != nil {
		return nil, err
	}
	if _, err := conf.OutputTypes(); err != nil {
		return nil, err
	}
	return conf, nil
}

// inferInputSizes sets the input sizes of layers from the types of their inputs, in topological order.
func (c *Config) inferInputSizes() error {
	_, err := c.walkTypes(func(name string, v vertex.Vertex, inputs []inputtype.InputType) (vertex.Vertex, error) {
		lv, ok := v.(*vertex.LayerVertex)
		if !ok || len(inputs) != 1 {
			return v, nil
		}
		inferred, err := lv.WithInputType(inputs[0])
		if err != nil {
			return nil, err
		}
		if inferred != lv {
			klog.V(1).Infof("compgraph: vertex %q: inferred layer input from %s", name, inputs[0])
			c.Vertices[name] = vertex.Wrapper{Value: inferred}
		}
		return inferred, nil
	})
	return err
}
