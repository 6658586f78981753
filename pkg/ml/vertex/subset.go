// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
)

// SubsetVertex selects the features (or channels) From to To, both inclusive, of its input.
//
// FeedForward and ConvolutionalFlat inputs give FeedForward outputs, Recurrent inputs keep
// their time-series length, and convolutional inputs keep their spatial dimensions.
type SubsetVertex struct {
	From int `json:"from"`
	To   int `json:"to"`
}

var _ Vertex = (*SubsetVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *SubsetVertex) JSONTags() (typeName, interfaceName string) { return "SubsetVertex", Interface }

// Clone implements Vertex.
func (v *SubsetVertex) Clone() Vertex {
	v2 := *v
	return &v2
}

// Equal implements Vertex.
func (v *SubsetVertex) Equal(other Vertex) bool {
	o, ok := other.(*SubsetVertex)
	return ok && *v == *o
}

// Hash implements Vertex.
func (v *SubsetVertex) Hash() uint64 { return hashing.New("SubsetVertex").Int(v.From).Int(v.To).Sum() }

// NumParams implements Vertex.
func (v *SubsetVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *SubsetVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *SubsetVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *SubsetVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	input := inputs[0]
	if v.From < 0 || v.From > v.To || v.To >= input.FeatureDim() {
		return nil, inputtype.Invalidf("SubsetVertex", layerIndex, "invalid range [%d, %d] for input %s",
			v.From, v.To, input)
	}
	n := v.To - v.From + 1
	var output inputtype.InputType
	switch input.Kind {
	case inputtype.KindRecurrent:
		output = inputtype.Recurrent(n, input.TimeSeriesLength)
	case inputtype.KindConvolutional:
		output = inputtype.Convolutional(input.Height, input.Width, n)
	case inputtype.KindConvolutional3D:
		output = inputtype.Convolutional3D(input.Depth, input.Height, input.Width, n)
	default:
		output = inputtype.FeedForward(n)
	}
	return []inputtype.InputType{output}, nil
}

// MemoryReport implements Vertex.
func (v *SubsetVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *SubsetVertex) Instantiate(args InstantiateArgs) (Node, error) {
	from, to := v.From, v.To
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		return tensors.Slice(inputs[0], 1, from, to+1)
	}), nil
}
