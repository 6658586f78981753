// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compgraph

import (
	"slices"

	"github.com/gomlx/compgraph/internal/workerspool"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/listeners"
	"github.com/gomlx/compgraph/pkg/ml/vertex"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Graph is an instantiated computation graph: every vertex is bound to its view of the flat
// parameter buffer.
//
// A Graph is not safe for concurrent forward passes.
type Graph struct {
	conf      *Config
	params    []float64
	order     []string
	nodes     []vertex.Node
	byName    map[string]vertex.Node
	offsets   map[string]int
	listeners []listeners.Listener
	iteration int
}

// newInstantiationPool returns the pool used to instantiate the vertices.
var newInstantiationPool = workerspool.New

// Init validates the graph, type-checks it if InputTypes are set, and instantiates every vertex
// on its own view of the flat parameter buffer. Views are assigned in topological order and
// never overlap.
//
// If params is nil, a buffer with NumParams(true) elements is allocated and initialized.
// Otherwise params must have exactly NumParams(true) elements: it is adopted (not copied),
// and it is initialized only if initialize is true.
//
// Vertices are instantiated concurrently, and the listeners are notified of each instantiation.
func (c *Config) Init(params []float64, initialize bool, ls ...listeners.Listener) (*Graph, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.InputTypes) > 0 {
		if _, err := c.walkTypes(nil); err != nil {
			return nil, err
		}
	}
	order, err := c.vertexOrder()
	if err != nil {
		return nil, err
	}
	numParams := c.NumParams(true)
	if params == nil {
		params = make([]float64, numParams)
		initialize = true
	} else if len(params) != numParams {
		return nil, errors.Errorf("compgraph: parameters buffer has %d elements, the graph needs %d", len(params), numParams)
	}

	g := &Graph{
		conf:      c,
		params:    params,
		order:     order,
		nodes:     make([]vertex.Node, len(order)),
		byName:    make(map[string]vertex.Node, len(order)),
		offsets:   make(map[string]int, len(order)),
		listeners: slices.Clone(ls),
	}
	views := make([][]float64, len(order))
	var offset int
	for ii, name := range order {
		n := c.Vertex(name).NumParams(true)
		g.offsets[name] = offset
		views[ii] = params[offset : offset+n : offset+n]
		offset += n
	}

	klog.V(1).Infof("compgraph: instantiating %d vertices with %d parameters (initialize=%v)", len(order), numParams, initialize)
	err = newInstantiationPool().Run(len(order), func(ii int) error {
		name := order[ii]
		var node vertex.Node
		err := exceptions.TryCatch[error](func() {
			var err error
			node, err = c.Vertex(name).Instantiate(vertex.InstantiateArgs{
				NetConf:          c.NetConf,
				Listeners:        g.listeners,
				Name:             name,
				LayerIndex:       ii,
				NumInputs:        len(c.VertexInputs[name]),
				Params:           views[ii],
				InitializeParams: initialize,
			})
			if err != nil {
				panic(err)
			}
		})
		if err != nil {
			return errors.WithMessagef(err, "compgraph: failed to instantiate vertex %q", name)
		}
		g.nodes[ii] = node
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, node := range g.nodes {
		g.byName[node.Name()] = node
	}
	return g, nil
}

// Config returns the configuration of the graph.
func (g *Graph) Config() *Config { return g.conf }

// Params returns the flat parameter buffer.
func (g *Graph) Params() []float64 { return g.params }

// NumParams returns the number of elements of the parameter buffer.
func (g *Graph) NumParams() int { return len(g.params) }

// Nodes returns the nodes in topological order.
func (g *Graph) Nodes() []vertex.Node { return g.nodes }

// Node returns the named node, or nil if there is no such vertex.
func (g *Graph) Node(name string) vertex.Node { return g.byName[name] }

// ParamsOffset returns the position of the view of the named vertex in the parameter buffer.
func (g *Graph) ParamsOffset(name string) (int, bool) {
	offset, found := g.offsets[name]
	return offset, found
}

// Iteration returns the number of forward passes completed.
func (g *Graph) Iteration() int { return g.iteration }

// env implements vertex.Env for one forward pass.
type env struct {
	training    bool
	batchSize   int
	activations map[string]*tensors.Tensor
	masks       map[string]*tensors.Tensor
}

func (e *env) Training() bool { return e.training }
func (e *env) BatchSize() int { return e.batchSize }

func (e *env) Activation(name string) (*tensors.Tensor, bool) {
	t, found := e.activations[name]
	return t, found
}

func (e *env) Mask(inputName string) (*tensors.Tensor, bool) {
	t, found := e.masks[inputName]
	return t, found
}

// Feed executes a forward pass and returns the activations of all the graph inputs and vertices.
//
// inputs must hold one value per graph input, with the same batch size, and with the shape
// of its input type if InputTypes are set. masks are optional, shaped [batch, time], and keyed by
// graph input name.
//
// Panics raised by the vertices are returned as errors, and the pass is not counted.
func (g *Graph) Feed(inputs map[string]*tensors.Tensor, masks map[string]*tensors.Tensor, training bool) (
	map[string]*tensors.Tensor, error) {
	e := &env{
		training:    training,
		batchSize:   -1,
		activations: make(map[string]*tensors.Tensor, len(g.conf.Inputs)+len(g.nodes)),
		masks:       masks,
	}
	for ii, name := range g.conf.Inputs {
		input, found := inputs[name]
		if !found || input == nil {
			return nil, errors.Wrapf(ErrUnknownInput, "compgraph: value for graph input %q missing", name)
		}
		if input.Rank() < 1 {
			return nil, errors.Errorf("compgraph: graph input %q is a scalar, it needs a batch axis", name)
		}
		if input.BatchSize() < 1 {
			return nil, errors.Errorf("compgraph: graph input %q has an empty batch", name)
		}
		if e.batchSize < 0 {
			e.batchSize = input.BatchSize()
		} else if input.BatchSize() != e.batchSize {
			return nil, errors.Errorf("compgraph: graph input %q has batch size %d, but %q has batch size %d",
				name, input.BatchSize(), g.conf.Inputs[0], e.batchSize)
		}
		if ii < len(g.conf.InputTypes) {
			if err := checkInputShape(name, g.conf.InputTypes[ii], input); err != nil {
				return nil, err
			}
		}
		e.activations[name] = input
	}
	for name := range inputs {
		if !slices.Contains(g.conf.Inputs, name) {
			return nil, errors.Wrapf(ErrUnknownInput, "compgraph: value given for %q, which is not a graph input", name)
		}
	}

	for _, node := range g.nodes {
		names := g.conf.VertexInputs[node.Name()]
		nodeInputs := make([]*tensors.Tensor, len(names))
		for ii, name := range names {
			nodeInputs[ii] = e.activations[name]
		}
		var output *tensors.Tensor
		err := exceptions.TryCatch[error](func() {
			var err error
			output, err = node.Forward(e, nodeInputs...)
			if err != nil {
				panic(err)
			}
		})
		if err != nil {
			return nil, errors.WithMessagef(err, "compgraph: forward pass failed at vertex %q", node.Name())
		}
		e.activations[node.Name()] = output
	}
	g.iteration++
	for _, l := range g.listeners {
		l.IterationDone(g.iteration)
	}
	return e.activations, nil
}

// checkInputShape checks the per-example dimensions of a graph input. Recurrent inputs of
// unknown length accept any length.
func checkInputShape(name string, inputType inputtype.InputType, input *tensors.Tensor) error {
	got := input.Dimensions()[1:]
	want := inputType.Dimensions()
	unknownLength := inputType.Kind == inputtype.KindRecurrent && !inputType.HasKnownLength()
	ok := len(got) == len(want)
	for ii := 0; ok && ii < len(want); ii++ {
		ok = got[ii] == want[ii] || (unknownLength && ii == 1)
	}
	if !ok {
		return errors.Errorf("compgraph: graph input %q has per-example dimensions %v, wanted %v", name, got, want)
	}
	return nil
}

// Output executes an inference forward pass and returns the values of the graph outputs.
// inputs are given in the order of the graph inputs.
func (g *Graph) Output(inputs []*tensors.Tensor, masks map[string]*tensors.Tensor) ([]*tensors.Tensor, error) {
	if len(inputs) != len(g.conf.Inputs) {
		return nil, errors.Errorf("compgraph: %d values given for %d graph inputs", len(inputs), len(g.conf.Inputs))
	}
	byName := make(map[string]*tensors.Tensor, len(inputs))
	for ii, name := range g.conf.Inputs {
		byName[name] = inputs[ii]
	}
	activations, err := g.Feed(byName, masks, false)
	if err != nil {
		return nil, err
	}
	outputs := make([]*tensors.Tensor, len(g.conf.Outputs))
	for ii, name := range g.conf.Outputs {
		outputs[ii] = activations[name]
	}
	return outputs, nil
}
