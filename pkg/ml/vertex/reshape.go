// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"slices"

	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/support/xslices"
	"github.com/pkg/errors"
)

// ReshapeVertex reshapes each example to Shape, keeping the data in row-major order.
//
// The output type depends on the rank of Shape:
//
//   - [size]: FeedForward(size).
//   - [size, T]: Recurrent(size, T).
//   - [channels, height, width]: Convolutional.
//   - [channels, depth, height, width]: Convolutional3D.
//
// Recurrent inputs must have a known time-series length.
type ReshapeVertex struct {
	Shape []int `json:"shape"`
}

var _ Vertex = (*ReshapeVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *ReshapeVertex) JSONTags() (typeName, interfaceName string) {
	return "ReshapeVertex", Interface
}

// Clone implements Vertex.
func (v *ReshapeVertex) Clone() Vertex { return &ReshapeVertex{Shape: slices.Clone(v.Shape)} }

// Equal implements Vertex.
func (v *ReshapeVertex) Equal(other Vertex) bool {
	o, ok := other.(*ReshapeVertex)
	return ok && slices.Equal(v.Shape, o.Shape)
}

// Hash implements Vertex.
func (v *ReshapeVertex) Hash() uint64 { return hashing.New("ReshapeVertex").Ints(v.Shape).Sum() }

// NumParams implements Vertex.
func (v *ReshapeVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *ReshapeVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *ReshapeVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *ReshapeVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	if len(v.Shape) == 0 || len(v.Shape) > 4 || slices.Min(v.Shape) <= 0 {
		return nil, errors.Errorf("ReshapeVertex: invalid shape %v", v.Shape)
	}
	input := inputs[0]
	if input.Kind == inputtype.KindRecurrent && !input.HasKnownLength() {
		return nil, inputtype.Invalidf("ReshapeVertex", layerIndex, "input %s has an unknown length", input)
	}
	if xslices.Product(v.Shape) != input.ElementsPerExample() {
		return nil, inputtype.Invalidf("ReshapeVertex", layerIndex, "cannot reshape %s (%d elements) to %v",
			input, input.ElementsPerExample(), v.Shape)
	}
	var output inputtype.InputType
	switch s := v.Shape; len(s) {
	case 1:
		output = inputtype.FeedForward(s[0])
	case 2:
		output = inputtype.Recurrent(s[0], s[1])
	case 3:
		output = inputtype.Convolutional(s[1], s[2], s[0])
	case 4:
		output = inputtype.Convolutional3D(s[1], s[2], s[3], s[0])
	}
	return []inputtype.InputType{output}, nil
}

// MemoryReport implements Vertex.
func (v *ReshapeVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *ReshapeVertex) Instantiate(args InstantiateArgs) (Node, error) {
	shape := slices.Clone(v.Shape)
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		x := inputs[0]
		batch := x.BatchSize()
		if x.Size() != batch*xslices.Product(shape) {
			return nil, errors.Errorf("cannot reshape %s to [%d %v]", x.Shape(), batch, shape)
		}
		return x.Reshape(append([]int{batch}, shape...)...), nil
	}), nil
}
