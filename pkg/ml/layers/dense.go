// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layers

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/activations"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dense is a fully connected layer: activation(x·W + b).
//
// The input must be FeedForward (or ConvolutionalFlat) of size NIn, and the output is FeedForward(NOut).
type Dense struct {
	NIn        int              `json:"n_in"`
	NOut       int              `json:"n_out"`
	Activation activations.Type `json:"activation"`
	NoBias     bool             `json:"no_bias,omitempty"`
}

var (
	_ Config    = (*Dense)(nil)
	_ NInSetter = (*Dense)(nil)
)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (d *Dense) JSONTags() (typeName, interfaceName string) { return "Dense", Interface }

// Clone implements Config.
func (d *Dense) Clone() Config {
	d2 := *d
	return &d2
}

// Equal implements Config.
func (d *Dense) Equal(other Config) bool {
	o, ok := other.(*Dense)
	return ok && *d == *o
}

// Hash implements Config.
func (d *Dense) Hash() uint64 {
	return hashing.New("Dense").Int(d.NIn).Int(d.NOut).Int(int(d.Activation)).Bool(d.NoBias).Sum()
}

// ParamSpecs implements Config: W[nIn, nOut] and, unless NoBias, b[nOut].
func (d *Dense) ParamSpecs(bool) []ParamSpec {
	specs := []ParamSpec{{Name: "W", Dims: []int{d.NIn, d.NOut}, Init: InitWeight}}
	if !d.NoBias {
		specs = append(specs, ParamSpec{Name: "b", Dims: []int{d.NOut}, Init: InitBias})
	}
	return specs
}

// NumParams implements Config.
func (d *Dense) NumParams(training bool) int { return numParams(d.ParamSpecs(training)) }

// WithNIn implements NInSetter.
func (d *Dense) WithNIn(input inputtype.InputType) Config {
	if d.NIn != 0 {
		return d
	}
	d2 := *d
	d2.NIn = input.FlattenedSize()
	return &d2
}

// feedForwardOutput checks a FeedForward (or ConvolutionalFlat) input of size nIn.
func feedForwardOutput(kind string, layerIndex int, nIn, nOut int, input inputtype.InputType) (inputtype.InputType, error) {
	if nIn <= 0 || nOut <= 0 {
		return inputtype.InputType{}, errors.Errorf("%s: invalid configuration n_in=%d, n_out=%d", kind, nIn, nOut)
	}
	if input.Kind != inputtype.KindFeedForward && input.Kind != inputtype.KindConvolutionalFlat {
		return inputtype.InputType{}, inputtype.Invalidf(kind, layerIndex,
			"expected FeedForward or ConvolutionalFlat input, got %s", input)
	}
	if input.FlattenedSize() != nIn {
		return inputtype.InputType{}, inputtype.Invalidf(kind, layerIndex,
			"expected input of size %d, got %s", nIn, input)
	}
	return inputtype.FeedForward(nOut), nil
}

// OutputType implements Config.
func (d *Dense) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	return feedForwardOutput("Dense", layerIndex, d.NIn, d.NOut, input)
}

// MemoryReport implements Config.
func (d *Dense) MemoryReport(name string, input inputtype.InputType) (*memory.LayerReport, error) {
	output, err := d.OutputType(-1, input)
	if err != nil {
		return nil, err
	}
	return memory.NewLayerReport(name, "Dense", []inputtype.InputType{input}, output).
		StandardMemory(int64(d.NumParams(true)), 0).
		WorkingMemory(0, 0, 0, int64(output.ElementsPerExample())).
		CacheMemory(0, 0).
		Done(), nil
}

// Instantiate implements Config.
func (d *Dense) Instantiate(conf *netconf.Config, name string, params []float64, initialize bool) (Layer, error) {
	views := bind(d, conf, name, params, initialize)
	l := &denseLayer{cfg: *d, w: views[0]}
	if !d.NoBias {
		l.b = views[1]
	}
	return l, nil
}

type denseLayer struct {
	cfg  Dense
	w, b []float64
}

func (l *denseLayer) Forward(x *tensors.Tensor, _ bool) (*tensors.Tensor, error) {
	batch, err := checkRank2("Dense", x, l.cfg.NIn)
	if err != nil {
		return nil, err
	}
	out := tensors.Zeros(batch, l.cfg.NOut)
	affine(out.Flat(), x.Flat(), l.w, l.b, batch, l.cfg.NIn, l.cfg.NOut)
	return activations.Apply(l.cfg.Activation, out), nil
}

// affine computes dst = x·w + b, with x [batch, nIn], w [nIn, nOut] and b [nOut] (optional).
func affine(dst, x, w, b []float64, batch, nIn, nOut int) {
	result := mat.NewDense(batch, nOut, dst)
	result.Mul(mat.NewDense(batch, nIn, x), mat.NewDense(nIn, nOut, w))
	if b == nil {
		return
	}
	for row := range batch {
		floats.Add(dst[row*nOut:(row+1)*nOut], b)
	}
}
