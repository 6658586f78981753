// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compgraph

import (
	"cmp"
	"slices"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/ml/vertex"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// NetworkName used in the memory report of a graph.
const NetworkName = "ComputationGraph"

// Validate checks the structure of the graph: names, connections, arity of each vertex and
// acyclicity. It doesn't need input types, and it never calls Vertex.OutputType.
//
// Errors wrap one of the sentinels of this package (ErrNoInputs, ErrDuplicateName,
// ErrUnknownInput, ErrArity, ErrNoOutputs or ErrCycle), or vertex.ErrIncomplete for a vertex
// missing a required component.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.WithStack(ErrNoInputs)
	}
	names := make(map[string]bool, len(c.Inputs)+len(c.Vertices))
	for _, name := range c.Inputs {
		if names[name] {
			return errors.Wrapf(ErrDuplicateName, "compgraph: input %q", name)
		}
		names[name] = true
	}
	if len(c.InputTypes) != 0 && len(c.InputTypes) != len(c.Inputs) {
		return errors.Errorf("compgraph: %d input types given for %d inputs", len(c.InputTypes), len(c.Inputs))
	}
	vertexNames := c.VertexNames()
	for _, name := range vertexNames {
		if names[name] {
			return errors.Wrapf(ErrDuplicateName, "compgraph: vertex %q has the same name as an input", name)
		}
		names[name] = true
	}
	for name := range c.VertexInputs {
		if _, found := c.Vertices[name]; !found {
			return errors.Wrapf(ErrUnknownInput, "compgraph: inputs given for undefined vertex %q", name)
		}
	}
	for _, name := range vertexNames {
		v := c.Vertex(name)
		if err := vertex.Check(v); err != nil {
			return errors.WithMessagef(err, "compgraph: vertex %q", name)
		}
		inputs := c.VertexInputs[name]
		for _, input := range inputs {
			if !names[input] {
				return errors.Wrapf(ErrUnknownInput, "compgraph: vertex %q refers to %q", name, input)
			}
		}
		if !vertex.InRange(v, len(inputs)) {
			return errors.WithStack(&ArityError{
				Vertex:    name,
				Kind:      vertex.Kind(v),
				NumInputs: len(inputs),
				Min:       v.MinInputs(),
				Max:       v.MaxInputs(),
			})
		}
	}
	if len(c.Outputs) == 0 {
		return errors.WithStack(ErrNoOutputs)
	}
	for _, output := range c.Outputs {
		if _, found := c.Vertices[output]; !found {
			return errors.Wrapf(ErrUnknownInput, "compgraph: output %q is not a vertex", output)
		}
	}
	_, err := c.TopologicalOrder()
	return err
}

// graphNode is a gonum graph node for a graph input or a vertex.
type graphNode struct {
	id   int64
	name string
}

func (n graphNode) ID() int64 { return n.id }

// TopologicalOrder returns the names of the graph inputs and vertices such that every vertex
// comes after its inputs.
//
// The order is deterministic: it only depends on the declared order of the inputs and on the
// names of the vertices, never on map iteration order.
//
// It fails with ErrUnknownInput for connections to undefined names, and ErrCycle if there is no
// valid order.
func (c *Config) TopologicalOrder() ([]string, error) {
	g := simple.NewDirectedGraph()
	nodes := make(map[string]graphNode, len(c.Inputs)+len(c.Vertices))
	add := func(name string) {
		n := graphNode{id: int64(len(nodes)), name: name}
		nodes[name] = n
		g.AddNode(n)
	}
	for _, name := range c.Inputs {
		add(name)
	}
	vertexNames := c.VertexNames()
	for _, name := range vertexNames {
		add(name)
	}
	for _, name := range vertexNames {
		to := nodes[name]
		for _, input := range c.VertexInputs[name] {
			from, found := nodes[input]
			if !found {
				return nil, errors.Wrapf(ErrUnknownInput, "compgraph: vertex %q refers to %q", name, input)
			}
			if from.id == to.id {
				return nil, errors.Wrapf(ErrCycle, "compgraph: vertex %q is its own input", name)
			}
			g.SetEdge(g.NewEdge(from, to))
		}
	}

	sorted, err := topo.SortStabilized(g, func(ns []graph.Node) {
		slices.SortFunc(ns, func(a, b graph.Node) int { return cmp.Compare(a.ID(), b.ID()) })
	})
	if err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) {
			var cycle []string
			for _, component := range unorderable {
				for _, n := range component {
					cycle = append(cycle, n.(graphNode).name)
				}
			}
			slices.Sort(cycle)
			return nil, errors.Wrapf(ErrCycle, "compgraph: vertices %q", cycle)
		}
		return nil, errors.Wrap(err, "compgraph: failed to sort graph")
	}
	order := make([]string, len(sorted))
	for ii, n := range sorted {
		order[ii] = n.(graphNode).name
	}
	return order, nil
}

// vertexOrder returns only the vertices in topological order.
func (c *Config) vertexOrder() ([]string, error) {
	order, err := c.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(order, func(name string) bool {
		_, found := c.Vertices[name]
		return !found
	}), nil
}

// walkTypes calls fn, if not nil, for each vertex in topological order with the types of its inputs,
// and propagates the output type of the vertex fn returns. It returns the types of all inputs and vertices.
func (c *Config) walkTypes(fn func(name string, v vertex.Vertex, inputs []inputtype.InputType) (vertex.Vertex, error)) (
	map[string]inputtype.InputType, error) {
	if len(c.InputTypes) != len(c.Inputs) {
		return nil, errors.Errorf("compgraph: input types not set for inputs %q", c.Inputs)
	}
	order, err := c.vertexOrder()
	if err != nil {
		return nil, err
	}
	types := make(map[string]inputtype.InputType, len(c.Inputs)+len(order))
	for ii, name := range c.Inputs {
		types[name] = c.InputTypes[ii]
	}
	for layerIndex, name := range order {
		inputs := make([]inputtype.InputType, len(c.VertexInputs[name]))
		for ii, input := range c.VertexInputs[name] {
			inputs[ii] = types[input]
		}
		v := c.Vertex(name)
		if fn != nil {
			v, err = fn(name, v, inputs)
			if err != nil {
				return nil, errors.WithMessagef(err, "compgraph: vertex %q", name)
			}
		}
		outputs, err := v.OutputType(layerIndex, inputs...)
		if err != nil {
			return nil, errors.WithMessagef(err, "compgraph: vertex %q", name)
		}
		types[name] = outputs[0]
	}
	return types, nil
}

// OutputTypes validates the graph and infers the output type of every vertex, in topological
// order. It requires InputTypes to be set.
//
// Errors from the vertices are annotated with the vertex name, and remain matchable with
// errors.Is(err, inputtype.ErrInvalidInputType).
func (c *Config) OutputTypes() (map[string]inputtype.InputType, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	types, err := c.walkTypes(nil)
	if err != nil {
		return nil, err
	}
	for _, name := range c.Inputs {
		delete(types, name)
	}
	return types, nil
}

// OutputTypesOfOutputs returns the types of the graph outputs, in the order of Outputs.
func (c *Config) OutputTypesOfOutputs() ([]inputtype.InputType, error) {
	types, err := c.OutputTypes()
	if err != nil {
		return nil, err
	}
	outputs := make([]inputtype.InputType, len(c.Outputs))
	for ii, name := range c.Outputs {
		outputs[ii] = types[name]
	}
	return outputs, nil
}

// MemoryReport estimates the memory used by the graph, with one layer report per vertex in
// topological order. It requires InputTypes to be set, and it doesn't allocate any arrays.
func (c *Config) MemoryReport() (*memory.NetworkReport, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	report := &memory.NetworkReport{
		NetworkName: NetworkName,
		InputNames:  slices.Clone(c.Inputs),
		InputTypes:  make(map[string]inputtype.InputType, len(c.Inputs)),
	}
	for ii, name := range c.Inputs {
		if ii < len(c.InputTypes) {
			report.InputTypes[name] = c.InputTypes[ii]
		}
	}
	_, err := c.walkTypes(func(name string, v vertex.Vertex, inputs []inputtype.InputType) (vertex.Vertex, error) {
		layerReport, err := v.MemoryReport(inputs...)
		if err != nil {
			return nil, err
		}
		layerReport = layerReport.WithName(name)
		if c.NetConf != nil {
			layerReport.UpdaterStateSize = c.NetConf.Updater.StateSize(layerReport.ParameterSize)
		}
		report.Layers = append(report.Layers, layerReport)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
