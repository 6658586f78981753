// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layers

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/activations"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
)

// AutoEncoder is the encoder of a (denoising) auto-encoder: activation(x·W + b).
//
// In training it also owns the visible bias vb[NIn], used to reconstruct the input: so it has
// NIn more parameters in training than in inference.
type AutoEncoder struct {
	NIn        int              `json:"n_in"`
	NOut       int              `json:"n_out"`
	Activation activations.Type `json:"activation"`
}

var (
	_ Config    = (*AutoEncoder)(nil)
	_ NInSetter = (*AutoEncoder)(nil)
)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (a *AutoEncoder) JSONTags() (typeName, interfaceName string) { return "AutoEncoder", Interface }

// Clone implements Config.
func (a *AutoEncoder) Clone() Config {
	a2 := *a
	return &a2
}

// Equal implements Config.
func (a *AutoEncoder) Equal(other Config) bool {
	o, ok := other.(*AutoEncoder)
	return ok && *a == *o
}

// Hash implements Config.
func (a *AutoEncoder) Hash() uint64 {
	return hashing.New("AutoEncoder").Int(a.NIn).Int(a.NOut).Int(int(a.Activation)).Sum()
}

// ParamSpecs implements Config: W[nIn, nOut], b[nOut] and, in training, vb[nIn].
func (a *AutoEncoder) ParamSpecs(training bool) []ParamSpec {
	specs := []ParamSpec{
		{Name: "W", Dims: []int{a.NIn, a.NOut}, Init: InitWeight},
		{Name: "b", Dims: []int{a.NOut}, Init: InitBias},
	}
	if training {
		specs = append(specs, ParamSpec{Name: "vb", Dims: []int{a.NIn}, Init: InitBias})
	}
	return specs
}

// NumParams implements Config.
func (a *AutoEncoder) NumParams(training bool) int { return numParams(a.ParamSpecs(training)) }

// WithNIn implements NInSetter.
func (a *AutoEncoder) WithNIn(input inputtype.InputType) Config {
	if a.NIn != 0 {
		return a
	}
	a2 := *a
	a2.NIn = input.FlattenedSize()
	return &a2
}

// OutputType implements Config.
func (a *AutoEncoder) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	return feedForwardOutput("AutoEncoder", layerIndex, a.NIn, a.NOut, input)
}

// MemoryReport implements Config. Training needs working memory for the reconstruction of the input.
func (a *AutoEncoder) MemoryReport(name string, input inputtype.InputType) (*memory.LayerReport, error) {
	output, err := a.OutputType(-1, input)
	if err != nil {
		return nil, err
	}
	return memory.NewLayerReport(name, "AutoEncoder", []inputtype.InputType{input}, output).
		StandardMemory(int64(a.NumParams(true)), 0).
		WorkingMemory(0, 0, 0, int64(output.ElementsPerExample()+input.ElementsPerExample())).
		CacheMemory(0, 0).
		Done(), nil
}

// Instantiate implements Config.
func (a *AutoEncoder) Instantiate(conf *netconf.Config, name string, params []float64, initialize bool) (Layer, error) {
	views := bind(a, conf, name, params, initialize)
	return &autoEncoderLayer{cfg: *a, w: views[0], b: views[1], vb: views[2]}, nil
}

type autoEncoderLayer struct {
	cfg      AutoEncoder
	w, b, vb []float64
}

func (l *autoEncoderLayer) Forward(x *tensors.Tensor, _ bool) (*tensors.Tensor, error) {
	batch, err := checkRank2("AutoEncoder", x, l.cfg.NIn)
	if err != nil {
		return nil, err
	}
	out := tensors.Zeros(batch, l.cfg.NOut)
	affine(out.Flat(), x.Flat(), l.w, l.b, batch, l.cfg.NIn, l.cfg.NOut)
	return activations.Apply(l.cfg.Activation, out), nil
}
