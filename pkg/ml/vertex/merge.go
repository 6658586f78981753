// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
)

// MergeVertex concatenates its inputs along the feature (or channel) axis, axis 1.
//
// Inputs must be of the same kind:
//
//   - FeedForward (and ConvolutionalFlat): sizes are summed, the output is FeedForward.
//   - Recurrent: sizes are summed, time-series lengths must be compatible.
//   - Convolutional and Convolutional3D: spatial dimensions must be equal, channels are summed.
type MergeVertex struct{}

var _ Vertex = (*MergeVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *MergeVertex) JSONTags() (typeName, interfaceName string) { return "MergeVertex", Interface }

// Clone implements Vertex.
func (v *MergeVertex) Clone() Vertex { return &MergeVertex{} }

// Equal implements Vertex.
func (v *MergeVertex) Equal(other Vertex) bool {
	_, ok := other.(*MergeVertex)
	return ok
}

// Hash implements Vertex.
func (v *MergeVertex) Hash() uint64 { return hashing.New("MergeVertex").Sum() }

// NumParams implements Vertex.
func (v *MergeVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *MergeVertex) MinInputs() int { return 2 }

// MaxInputs implements Vertex.
func (v *MergeVertex) MaxInputs() int { return UnboundedInputs }

func isFlat(t inputtype.InputType) bool {
	return t.Kind == inputtype.KindFeedForward || t.Kind == inputtype.KindConvolutionalFlat
}

// OutputType implements Vertex.
func (v *MergeVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	first := inputs[0]
	output := first
	for ii, input := range inputs[1:] {
		mismatch := func(what string) error {
			return inputtype.Invalidf("MergeVertex", layerIndex, "input #%d (%s) has a different %s than input #0 (%s)",
				ii+1, input, what, first)
		}
		switch {
		case isFlat(first) && isFlat(input):
			output = inputtype.FeedForward(output.FlattenedSize() + input.FlattenedSize())
		case first.Kind != input.Kind:
			return nil, mismatch("kind")
		case first.Kind == inputtype.KindRecurrent:
			if !output.Compatible(inputtype.Recurrent(output.Size, input.TimeSeriesLength)) {
				return nil, mismatch("time-series length")
			}
			length := output.MoreSpecific(inputtype.Recurrent(output.Size, input.TimeSeriesLength)).TimeSeriesLength
			output = inputtype.Recurrent(output.Size+input.Size, length)
		case first.Kind == inputtype.KindConvolutional:
			if input.Height != first.Height || input.Width != first.Width {
				return nil, mismatch("height or width")
			}
			output = inputtype.Convolutional(first.Height, first.Width, output.Channels+input.Channels)
		case first.Kind == inputtype.KindConvolutional3D:
			if input.Depth != first.Depth || input.Height != first.Height || input.Width != first.Width {
				return nil, mismatch("depth, height or width")
			}
			output = inputtype.Convolutional3D(first.Depth, first.Height, first.Width, output.Channels+input.Channels)
		default:
			return nil, mismatch("kind")
		}
	}
	if isFlat(output) {
		output = inputtype.FeedForward(output.FlattenedSize())
	}
	return []inputtype.InputType{output}, nil
}

// MemoryReport implements Vertex.
func (v *MergeVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *MergeVertex) Instantiate(args InstantiateArgs) (Node, error) {
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		return tensors.Concatenate(1, inputs...)
	}), nil
}
