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

// Activation applies an activation function to its input. It has no parameters and
// accepts inputs of any type.
type Activation struct {
	Activation activations.Type `json:"activation"`
}

var _ Config = (*Activation)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (a *Activation) JSONTags() (typeName, interfaceName string) { return "Activation", Interface }

// Clone implements Config.
func (a *Activation) Clone() Config {
	a2 := *a
	return &a2
}

// Equal implements Config.
func (a *Activation) Equal(other Config) bool {
	o, ok := other.(*Activation)
	return ok && *a == *o
}

// Hash implements Config.
func (a *Activation) Hash() uint64 { return hashing.New("Activation").Int(int(a.Activation)).Sum() }

// ParamSpecs implements Config.
func (a *Activation) ParamSpecs(bool) []ParamSpec { return nil }

// NumParams implements Config.
func (a *Activation) NumParams(bool) int { return 0 }

// OutputType implements Config.
func (a *Activation) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	if !input.Ok() {
		return inputtype.InputType{}, inputtype.Invalidf("Activation", layerIndex, "invalid input %s", input)
	}
	return input, nil
}

// MemoryReport implements Config.
func (a *Activation) MemoryReport(name string, input inputtype.InputType) (*memory.LayerReport, error) {
	output, err := a.OutputType(-1, input)
	if err != nil {
		return nil, err
	}
	return memory.NewLayerReport(name, "Activation", []inputtype.InputType{input}, output).Done(), nil
}

// Instantiate implements Config.
func (a *Activation) Instantiate(conf *netconf.Config, name string, params []float64, initialize bool) (Layer, error) {
	bind(a, conf, name, params, initialize)
	return activationLayer(a.Activation), nil
}

type activationLayer activations.Type

func (l activationLayer) Forward(x *tensors.Tensor, _ bool) (*tensors.Tensor, error) {
	return activations.Apply(activations.Type(l), x), nil
}
