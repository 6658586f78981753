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
)

// SimpleRnn is a fully connected recurrent layer:
//
//	h[t] = activation(x[t]·W + h[t-1]·RW + b), with h[-1] = 0.
//
// Input and output are Recurrent, laid out as [batch, size, time].
type SimpleRnn struct {
	NIn        int              `json:"n_in"`
	NOut       int              `json:"n_out"`
	Activation activations.Type `json:"activation"`
}

var (
	_ Config    = (*SimpleRnn)(nil)
	_ NInSetter = (*SimpleRnn)(nil)
)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (r *SimpleRnn) JSONTags() (typeName, interfaceName string) { return "SimpleRnn", Interface }

// Clone implements Config.
func (r *SimpleRnn) Clone() Config {
	r2 := *r
	return &r2
}

// Equal implements Config.
func (r *SimpleRnn) Equal(other Config) bool {
	o, ok := other.(*SimpleRnn)
	return ok && *r == *o
}

// Hash implements Config.
func (r *SimpleRnn) Hash() uint64 {
	return hashing.New("SimpleRnn").Int(r.NIn).Int(r.NOut).Int(int(r.Activation)).Sum()
}

// ParamSpecs implements Config: W[nIn, nOut], RW[nOut, nOut] and b[nOut].
func (r *SimpleRnn) ParamSpecs(bool) []ParamSpec {
	return []ParamSpec{
		{Name: "W", Dims: []int{r.NIn, r.NOut}, Init: InitWeight},
		{Name: "RW", Dims: []int{r.NOut, r.NOut}, Init: InitWeight},
		{Name: "b", Dims: []int{r.NOut}, Init: InitBias},
	}
}

// NumParams implements Config.
func (r *SimpleRnn) NumParams(training bool) int { return numParams(r.ParamSpecs(training)) }

// WithNIn implements NInSetter.
func (r *SimpleRnn) WithNIn(input inputtype.InputType) Config {
	if r.NIn != 0 {
		return r
	}
	r2 := *r
	r2.NIn = input.FlattenedSize()
	return &r2
}

// OutputType implements Config.
func (r *SimpleRnn) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	if r.NIn <= 0 || r.NOut <= 0 {
		return inputtype.InputType{}, errors.Errorf("SimpleRnn: invalid configuration n_in=%d, n_out=%d", r.NIn, r.NOut)
	}
	if input.Kind != inputtype.KindRecurrent {
		return inputtype.InputType{}, inputtype.Invalidf("SimpleRnn", layerIndex, "expected Recurrent input, got %s", input)
	}
	if input.Size != r.NIn {
		return inputtype.InputType{}, inputtype.Invalidf("SimpleRnn", layerIndex,
			"expected input of size %d, got %s", r.NIn, input)
	}
	return inputtype.Recurrent(r.NOut, input.TimeSeriesLength), nil
}

// MemoryReport implements Config. The hidden state is kept as working memory.
func (r *SimpleRnn) MemoryReport(name string, input inputtype.InputType) (*memory.LayerReport, error) {
	output, err := r.OutputType(-1, input)
	if err != nil {
		return nil, err
	}
	return memory.NewLayerReport(name, "SimpleRnn", []inputtype.InputType{input}, output).
		StandardMemory(int64(r.NumParams(true)), 0).
		WorkingMemory(0, int64(r.NOut+r.NIn), 0, int64(output.ElementsPerExample())).
		CacheMemory(0, 0).
		Done(), nil
}

// Instantiate implements Config.
func (r *SimpleRnn) Instantiate(conf *netconf.Config, name string, params []float64, initialize bool) (Layer, error) {
	views := bind(r, conf, name, params, initialize)
	return &simpleRnnLayer{cfg: *r, w: views[0], rw: views[1], b: views[2]}, nil
}

type simpleRnnLayer struct {
	cfg      SimpleRnn
	w, rw, b []float64
}

func (l *simpleRnnLayer) Forward(x *tensors.Tensor, _ bool) (*tensors.Tensor, error) {
	nIn, nOut := l.cfg.NIn, l.cfg.NOut
	dims := x.Dimensions()
	if x.Rank() != 3 || dims[1] != nIn {
		return nil, errors.Errorf("SimpleRnn: expected input of shape [batch, %d, time], got %s", nIn, x.Shape())
	}
	batch, length := dims[0], dims[2]
	out := tensors.Zeros(batch, nOut, length)
	xFlat, outFlat := x.Flat(), out.Flat()

	step := make([]float64, batch*nIn)
	hidden := make([]float64, batch*nOut)
	recurrent := make([]float64, batch*nOut)
	for t := range length {
		for b := range batch {
			for i := range nIn {
				step[b*nIn+i] = xFlat[(b*nIn+i)*length+t]
			}
		}
		pre := make([]float64, batch*nOut)
		affine(pre, step, l.w, l.b, batch, nIn, nOut)
		if t > 0 {
			affine(recurrent, hidden, l.rw, nil, batch, nOut, nOut)
			for ii := range pre {
				pre[ii] += recurrent[ii]
			}
		}
		hidden = activations.Apply(l.cfg.Activation, tensors.FromFlatDataAndDimensions(pre, batch, nOut)).Flat()
		for b := range batch {
			for o := range nOut {
				outFlat[(b*nOut+o)*length+t] = hidden[b*nOut+o]
			}
		}
	}
	return out, nil
}
