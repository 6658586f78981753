// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package layers defines the layer configurations wrapped by a LayerVertex, and their runtime
// counterparts.
//
// A layer Config is immutable structural metadata: it knows the parameters it owns (ParamSpecs),
// how it transforms the type of its input (OutputType) and how much memory it needs (MemoryReport).
// Instantiate binds a Config to a view of the flat parameter buffer and returns an executable Layer.
//
// Configs are polymorphic and serialized with polymorphicjson under the interface name "Layer".
// The available layers are Dense, AutoEncoder, BatchNormalization, Activation and SimpleRnn.
package layers

import (
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/shapes"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/initializers"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/support/polymorphicjson"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Interface name used in polymorphic JSON encoding.
const Interface = "Layer"

// Config is the configuration of a layer.
type Config interface {
	polymorphicjson.JSONIdentifiable

	// Clone returns a deep copy.
	Clone() Config

	// Equal compares all fields. Layers of different kinds are never equal.
	Equal(other Config) bool

	// Hash is consistent with Equal.
	Hash() uint64

	// NumParams returns the number of parameters. Training may use extra parameters, which
	// are laid out after the inference ones.
	NumParams(training bool) int

	// ParamSpecs lists the parameters, in the order they are laid out in the parameter buffer.
	// ParamSpecs(false) is a prefix of ParamSpecs(true).
	ParamSpecs(training bool) []ParamSpec

	// OutputType returns the output type for the given input type, or an error matching
	// inputtype.ErrInvalidInputType.
	OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error)

	// MemoryReport estimates the memory of the layer. The updater state is left to 0: it depends
	// on the network updater, and it is filled by the graph.
	MemoryReport(name string, input inputtype.InputType) (*memory.LayerReport, error)

	// Instantiate binds the layer to params, a view of NumParams(true) elements of the parameter
	// buffer. If initialize is true, fresh values are written into params first.
	Instantiate(conf *netconf.Config, name string, params []float64, initialize bool) (Layer, error)
}

// NInSetter is implemented by configurations whose input size can be inferred from their input type.
type NInSetter interface {
	// WithNIn returns a copy of the configuration with its input size set from the input type,
	// if it was not set (0). Otherwise it returns the configuration itself.
	WithNIn(input inputtype.InputType) Config
}

// Layer is an instantiated layer.
type Layer interface {
	Forward(x *tensors.Tensor, training bool) (*tensors.Tensor, error)
}

// Wrapper holds a Config for JSON serialization.
type Wrapper = polymorphicjson.Wrapper[Config]

func init() {
	polymorphicjson.Register(func() Config { return &Dense{} })
	polymorphicjson.Register(func() Config { return &AutoEncoder{} })
	polymorphicjson.Register(func() Config { return &BatchNormalization{} })
	polymorphicjson.Register(func() Config { return &Activation{} })
	polymorphicjson.Register(func() Config { return &SimpleRnn{} })
}

// Kinds returns the type tags of all layers.
func Kinds() []string {
	return polymorphicjson.RegisteredTypes(Interface)
}

// Kind returns the type tag of the layer configuration.
func Kind(c Config) string {
	kind, _ := c.JSONTags()
	return kind
}

// ParamInit defines how a parameter is initialized.
type ParamInit int

const (
	// InitWeight uses the network's weight initialization.
	InitWeight ParamInit = iota

	// InitBias uses the network's constant bias initialization.
	InitBias

	// InitZero fills with 0.
	InitZero

	// InitOne fills with 1.
	InitOne
)

// ParamSpec describes one parameter array of a layer.
type ParamSpec struct {
	Name string
	Dims []int
	Init ParamInit
}

// Size is the number of elements of the parameter.
func (p ParamSpec) Size() int {
	size := 1
	for _, dim := range p.Dims {
		size *= dim
	}
	return size
}

func numParams(specs []ParamSpec) int {
	var total int
	for _, spec := range specs {
		total += spec.Size()
	}
	return total
}

// SplitParams splits params into one view per spec. Views share the storage of params.
// It panics if the sizes don't match.
func SplitParams(specs []ParamSpec, params []float64) [][]float64 {
	if want := numParams(specs); len(params) != want {
		exceptions.Panicf("layer parameters view has %d elements, wanted %d", len(params), want)
	}
	views := make([][]float64, len(specs))
	var offset int
	for ii, spec := range specs {
		size := spec.Size()
		views[ii] = params[offset : offset+size : offset+size]
		offset += size
	}
	return views
}

// InitializeParams writes initial values into params, according to specs. The random
// generator is derived from the network seed and the layer name.
func InitializeParams(conf *netconf.Config, name string, specs []ParamSpec, params []float64) {
	rng := initializers.NewRandom(conf.Seed, name)
	for ii, view := range SplitParams(specs, params) {
		spec := specs[ii]
		switch spec.Init {
		case InitWeight:
			initializers.Fill(conf.WeightInit, rng, shapes.Make(tensors.DType, spec.Dims...), view)
		case InitBias:
			initializers.Constant(view, conf.BiasInit)
		case InitZero:
			initializers.Constant(view, 0)
		case InitOne:
			initializers.Constant(view, 1)
		}
	}
}

// bind checks the size of params, optionally initializes them and returns the views of the
// training parameter specs.
func bind(c Config, conf *netconf.Config, name string, params []float64, initialize bool) [][]float64 {
	specs := c.ParamSpecs(true)
	if len(params) != c.NumParams(true) {
		exceptions.Panicf("%s %q: parameters view has %d elements, wanted %d", Kind(c), name, len(params), c.NumParams(true))
	}
	if initialize {
		InitializeParams(conf, name, specs, params)
	}
	return SplitParams(specs, params)
}

// checkRank2 returns the batch size of a [batch, size] tensor.
func checkRank2(kind string, x *tensors.Tensor, size int) (int, error) {
	if x.Rank() != 2 || x.Dimensions()[1] != size {
		return 0, errors.Errorf("%s: expected input of shape [batch, %d], got %s", kind, size, x.Shape())
	}
	return x.Dimensions()[0], nil
}
