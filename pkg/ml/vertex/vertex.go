// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package vertex defines the contract of a vertex of a computation graph, and its concrete
// variants.
//
// A Vertex is an immutable configuration: it knows how many inputs it accepts (MinInputs,
// MaxInputs), how it transforms the types of its inputs (OutputType), how many parameters it
// owns (NumParams) and how much memory it needs (MemoryReport). A graph container only calls
// these operations, and never branches on the concrete kind of vertex.
//
// Instantiate binds a configuration to its name and index in a graph, to a view of the flat
// parameter buffer, and returns a runtime Node. The same configuration can be instantiated
// many times.
//
// Vertices are serialized with polymorphicjson under the interface name "Vertex", and the
// type name of each variant is its tag (e.g. "ElementWiseVertex"). Hold them in a Wrapper
// to (de)serialize them.
package vertex

import (
	"math"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/listeners"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/support/polymorphicjson"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Interface name used in polymorphic JSON encoding.
const Interface = "Vertex"

// UnboundedInputs is returned by MaxInputs of vertices that accept any number of inputs.
const UnboundedInputs = math.MaxInt32

// Vertex is the configuration of a vertex of a computation graph.
//
// Configurations are immutable after construction, and safe for concurrent use.
type Vertex interface {
	polymorphicjson.JSONIdentifiable

	// Clone returns a deep copy: changing the clone never affects the original.
	Clone() Vertex

	// Equal compares all the fields of the configuration. Vertices of different kinds are never equal.
	Equal(other Vertex) bool

	// Hash is consistent with Equal: equal vertices have equal hashes.
	Hash() uint64

	// NumParams returns the number of learnable parameters. Some vertices own extra parameters
	// only used in training, so NumParams(true) >= NumParams(false).
	NumParams(training bool) int

	// MinInputs is the minimum number of inputs accepted, inclusive.
	MinInputs() int

	// MaxInputs is the maximum number of inputs accepted, inclusive, or UnboundedInputs.
	MaxInputs() int

	// Instantiate returns the runtime node of the vertex.
	//
	// It panics (it's a programming error) if args.NumInputs is not in [MinInputs, MaxInputs] or if
	// len(args.Params) != NumParams(true): the graph container validates those first.
	Instantiate(args InstantiateArgs) (Node, error)

	// OutputType returns the types of the outputs for the given input types. It fails with
	// an error matching inputtype.ErrInvalidInputType if the inputs are not compatible with the vertex.
	//
	// It is a pure function of the inputs, and it can be called before instantiation.
	OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error)

	// MemoryReport estimates the memory used by the vertex for the given input types. It may
	// fail with the same errors as OutputType.
	MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error)
}

// InstantiateArgs are the values provided by the graph container to instantiate a vertex.
type InstantiateArgs struct {
	// NetConf is the network-wide configuration.
	NetConf *netconf.Config

	// Listeners are notified of the instantiation and after each forward computation.
	Listeners []listeners.Listener

	// Name and LayerIndex of the vertex in the graph.
	Name       string
	LayerIndex int

	// NumInputs connected to the vertex.
	NumInputs int

	// Params is the view of the parameter buffer reserved for this vertex, with
	// NumParams(true) elements. Inference parameters come first.
	Params []float64

	// InitializeParams indicates whether fresh initial values must be written into Params.
	// If false, Params is not changed, and the vertex binds to its current values.
	InitializeParams bool
}

// Node is the runtime counterpart of a Vertex.
type Node interface {
	// Name of the vertex in the graph.
	Name() string

	// Index of the vertex in the graph.
	Index() int

	// Kind is the tag of the vertex.
	Kind() string

	// NumInputs connected to the node.
	NumInputs() int

	// NumParams is the number of parameters bound to the node.
	NumParams() int

	// Params returns the view of the parameter buffer bound to the node.
	Params() []float64

	// Forward computes the output of the node.
	Forward(env Env, inputs ...*tensors.Tensor) (*tensors.Tensor, error)
}

// Env is provided by the graph container during a forward pass.
type Env interface {
	// Training returns whether this is a training pass.
	Training() bool

	// BatchSize is the number of examples of the graph inputs.
	BatchSize() int

	// Activation returns the current value of the named graph input or vertex.
	Activation(name string) (*tensors.Tensor, bool)

	// Mask returns the mask of the named graph input, shaped [batch, time], if one was given.
	Mask(inputName string) (*tensors.Tensor, bool)
}

// Wrapper holds a Vertex for JSON serialization.
type Wrapper = polymorphicjson.Wrapper[Vertex]

func init() {
	polymorphicjson.Register(func() Vertex { return &ElementWiseVertex{} })
	polymorphicjson.Register(func() Vertex { return &MergeVertex{} })
	polymorphicjson.Register(func() Vertex { return &SubsetVertex{} })
	polymorphicjson.Register(func() Vertex { return &LayerVertex{} })
	polymorphicjson.Register(func() Vertex { return &LastTimeStepVertex{} })
	polymorphicjson.Register(func() Vertex { return &DuplicateToTimeSeriesVertex{} })
	polymorphicjson.Register(func() Vertex { return &PreprocessorVertex{} })
	polymorphicjson.Register(func() Vertex { return &StackVertex{} })
	polymorphicjson.Register(func() Vertex { return &UnstackVertex{} })
	polymorphicjson.Register(func() Vertex { return &L2Vertex{} })
	polymorphicjson.Register(func() Vertex { return &ScaleVertex{} })
	polymorphicjson.Register(func() Vertex { return &ShiftVertex{} })
	polymorphicjson.Register(func() Vertex { return &L2NormalizeVertex{} })
	polymorphicjson.Register(func() Vertex { return &ReshapeVertex{} })
}

// Kinds returns the sorted tags of all registered vertices.
func Kinds() []string {
	return polymorphicjson.RegisteredTypes(Interface)
}

// New returns a zero-valued vertex of the given kind (tag).
func New(kind string) (Vertex, error) {
	instance, err := polymorphicjson.New(Interface, kind)
	if err != nil {
		return nil, err
	}
	v, ok := instance.(Vertex)
	if !ok {
		return nil, errors.Errorf("vertex: type %T registered as %q does not implement Vertex", instance, kind)
	}
	return v, nil
}

// Kind returns the tag of the vertex.
func Kind(v Vertex) string {
	kind, _ := v.JSONTags()
	return kind
}

// ErrIncomplete is returned (wrapped) by Check for vertices missing a required component.
var ErrIncomplete = errors.New("incomplete vertex configuration")

// Validator is implemented by vertices that hold components that must be set, e.g. the layer
// of a LayerVertex.
type Validator interface {
	Validate() error
}

// Check returns an error wrapping ErrIncomplete if v is nil or if it implements Validator and
// its validation fails.
func Check(v Vertex) error {
	if v == nil {
		return errors.WithStack(ErrIncomplete)
	}
	if validator, ok := v.(Validator); ok {
		return validator.Validate()
	}
	return nil
}

// InRange returns whether numInputs is accepted by the vertex.
func InRange(v Vertex, numInputs int) bool {
	return numInputs >= v.MinInputs() && numInputs <= v.MaxInputs()
}

// checkNumInputs is used by OutputType implementations.
func checkNumInputs(v Vertex, layerIndex int, inputs []inputtype.InputType) error {
	if !InRange(v, len(inputs)) {
		if v.MaxInputs() == UnboundedInputs {
			return inputtype.Invalidf(Kind(v), layerIndex, "expected at least %d inputs, got %d", v.MinInputs(), len(inputs))
		}
		return inputtype.Invalidf(Kind(v), layerIndex, "expected %d to %d inputs, got %d",
			v.MinInputs(), v.MaxInputs(), len(inputs))
	}
	for ii, input := range inputs {
		if !input.Ok() {
			return inputtype.Invalidf(Kind(v), layerIndex, "input #%d is invalid", ii)
		}
	}
	return nil
}

// forwardFn implements the computation of a node.
type forwardFn func(env Env, inputs []*tensors.Tensor) (*tensors.Tensor, error)

// node implements Node for all vertices.
type node struct {
	name      string
	index     int
	kind      string
	numInputs int
	params    []float64
	listeners []listeners.Listener
	forward   forwardFn
}

var _ Node = (*node)(nil)

// checkInstantiate panics if the instantiation preconditions are not met.
func checkInstantiate(v Vertex, args InstantiateArgs) {
	kind := Kind(v)
	if !InRange(v, args.NumInputs) {
		exceptions.Panicf("%s %q: instantiated with %d inputs, accepted range is [%d, %d]",
			kind, args.Name, args.NumInputs, v.MinInputs(), v.MaxInputs())
	}
	if len(args.Params) != v.NumParams(true) {
		exceptions.Panicf("%s %q: parameters view has %d elements, wanted %d",
			kind, args.Name, len(args.Params), v.NumParams(true))
	}
}

// newNode checks the instantiation preconditions, notifies the listeners and returns the node.
// The parameters are expected to be already initialized, if requested.
func newNode(v Vertex, args InstantiateArgs, forward forwardFn) *node {
	checkInstantiate(v, args)
	n := &node{
		name:      args.Name,
		index:     args.LayerIndex,
		kind:      Kind(v),
		numInputs: args.NumInputs,
		params:    args.Params,
		listeners: args.Listeners,
		forward:   forward,
	}
	for _, l := range n.listeners {
		l.OnInstantiate(n.name, n.index, len(n.params))
	}
	return n
}

func (n *node) Name() string      { return n.name }
func (n *node) Index() int        { return n.index }
func (n *node) Kind() string      { return n.kind }
func (n *node) NumInputs() int    { return n.numInputs }
func (n *node) NumParams() int    { return len(n.params) }
func (n *node) Params() []float64 { return n.params }

// Forward implements Node: it calls the node computation, and notifies the listeners.
func (n *node) Forward(env Env, inputs ...*tensors.Tensor) (*tensors.Tensor, error) {
	if len(inputs) != n.numInputs {
		return nil, errors.Errorf("%s %q: expected %d inputs, got %d", n.kind, n.name, n.numInputs, len(inputs))
	}
	output, err := n.forward(env, inputs)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s %q (#%d)", n.kind, n.name, n.index)
	}
	for _, l := range n.listeners {
		l.OnForward(n.name, n.index, output)
	}
	return output, nil
}

// activationsReport is the memory report of vertices without parameters nor working memory.
func activationsReport(v Vertex, inputs []inputtype.InputType, output inputtype.InputType) *memory.LayerReport {
	return memory.NewLayerReport(Kind(v), Kind(v), inputs, output).Done()
}

// singleOutputReport returns the report built by fn, once the output type of v is known.
func singleOutputReport(v Vertex, inputs []inputtype.InputType,
	fn func(output inputtype.InputType) *memory.LayerReport) (*memory.LayerReport, error) {
	outputs, err := v.OutputType(-1, inputs...)
	if err != nil {
		return nil, err
	}
	return fn(outputs[0]), nil
}

// sameShapes checks that all tensors have the same shape.
func sameShapes(inputs []*tensors.Tensor) error {
	for ii, input := range inputs[1:] {
		if !input.Shape().Equal(inputs[0].Shape()) {
			return errors.Errorf("input #%d has shape %s, but input #0 has shape %s",
				ii+1, input.Shape(), inputs[0].Shape())
		}
	}
	return nil
}
