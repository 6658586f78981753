// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/pkg/errors"
)

// LastTimeStepVertex takes the last time step of a Recurrent input, [batch, size, T] -> [batch, size].
//
// If MaskInput names a graph input with a mask ([batch, T], non-zero for valid steps), the last
// valid step of each example is taken instead, and examples without valid steps output zeros.
type LastTimeStepVertex struct {
	MaskInput string `json:"mask_input,omitempty"`
}

var _ Vertex = (*LastTimeStepVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *LastTimeStepVertex) JSONTags() (typeName, interfaceName string) {
	return "LastTimeStepVertex", Interface
}

// Clone implements Vertex.
func (v *LastTimeStepVertex) Clone() Vertex { return &LastTimeStepVertex{MaskInput: v.MaskInput} }

// Equal implements Vertex.
func (v *LastTimeStepVertex) Equal(other Vertex) bool {
	o, ok := other.(*LastTimeStepVertex)
	return ok && v.MaskInput == o.MaskInput
}

// Hash implements Vertex.
func (v *LastTimeStepVertex) Hash() uint64 {
	return hashing.New("LastTimeStepVertex").String(v.MaskInput).Sum()
}

// NumParams implements Vertex.
func (v *LastTimeStepVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *LastTimeStepVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *LastTimeStepVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *LastTimeStepVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	if inputs[0].Kind != inputtype.KindRecurrent {
		return nil, inputtype.Invalidf("LastTimeStepVertex", layerIndex, "expected Recurrent input, got %s", inputs[0])
	}
	return []inputtype.InputType{inputtype.FeedForward(inputs[0].Size)}, nil
}

// MemoryReport implements Vertex.
func (v *LastTimeStepVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *LastTimeStepVertex) Instantiate(args InstantiateArgs) (Node, error) {
	maskInput := v.MaskInput
	return newNode(v, args, func(env Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		x := inputs[0]
		if x.Rank() != 3 {
			return nil, errors.Errorf("expected input of shape [batch, size, time], got %s", x.Shape())
		}
		batch, size, length := x.Dimensions()[0], x.Dimensions()[1], x.Dimensions()[2]
		lastSteps := make([]int, batch)
		for b := range lastSteps {
			lastSteps[b] = length - 1
		}
		if maskInput != "" {
			if mask, found := env.Mask(maskInput); found {
				if mask.Rank() != 2 || mask.Dimensions()[0] != batch || mask.Dimensions()[1] != length {
					return nil, errors.Errorf("mask of %q has shape %s, expected [%d, %d]",
						maskInput, mask.Shape(), batch, length)
				}
				maskFlat := mask.Flat()
				for b := range batch {
					lastSteps[b] = -1
					for t := range length {
						if maskFlat[b*length+t] != 0 {
							lastSteps[b] = t
						}
					}
				}
			}
		}
		output := tensors.Zeros(batch, size)
		src, dst := x.Flat(), output.Flat()
		for b, t := range lastSteps {
			if t < 0 {
				continue
			}
			for f := range size {
				dst[b*size+f] = src[(b*size+f)*length+t]
			}
		}
		return output, nil
	}), nil
}

// DuplicateToTimeSeriesVertex repeats a FeedForward input, [batch, size], over the time steps
// of the Recurrent graph input named Input: [batch, size, T].
//
// The time-series length is only known at runtime.
type DuplicateToTimeSeriesVertex struct {
	Input string `json:"input"`
}

var _ Vertex = (*DuplicateToTimeSeriesVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *DuplicateToTimeSeriesVertex) JSONTags() (typeName, interfaceName string) {
	return "DuplicateToTimeSeriesVertex", Interface
}

// Clone implements Vertex.
func (v *DuplicateToTimeSeriesVertex) Clone() Vertex {
	return &DuplicateToTimeSeriesVertex{Input: v.Input}
}

// Equal implements Vertex.
func (v *DuplicateToTimeSeriesVertex) Equal(other Vertex) bool {
	o, ok := other.(*DuplicateToTimeSeriesVertex)
	return ok && v.Input == o.Input
}

// Hash implements Vertex.
func (v *DuplicateToTimeSeriesVertex) Hash() uint64 {
	return hashing.New("DuplicateToTimeSeriesVertex").String(v.Input).Sum()
}

// NumParams implements Vertex.
func (v *DuplicateToTimeSeriesVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *DuplicateToTimeSeriesVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *DuplicateToTimeSeriesVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *DuplicateToTimeSeriesVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	if inputs[0].Kind != inputtype.KindFeedForward {
		return nil, inputtype.Invalidf("DuplicateToTimeSeriesVertex", layerIndex,
			"expected FeedForward input, got %s", inputs[0])
	}
	return []inputtype.InputType{inputtype.Recurrent(inputs[0].Size)}, nil
}

// MemoryReport implements Vertex.
func (v *DuplicateToTimeSeriesVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *DuplicateToTimeSeriesVertex) Instantiate(args InstantiateArgs) (Node, error) {
	inputName := v.Input
	return newNode(v, args, func(env Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		reference, found := env.Activation(inputName)
		if !found {
			return nil, errors.Errorf("time-series input %q not found", inputName)
		}
		if reference.Rank() != 3 {
			return nil, errors.Errorf("time-series input %q has shape %s, expected [batch, size, time]",
				inputName, reference.Shape())
		}
		x := inputs[0]
		if x.Rank() != 2 {
			return nil, errors.Errorf("expected input of shape [batch, size], got %s", x.Shape())
		}
		batch, size, length := x.Dimensions()[0], x.Dimensions()[1], reference.Dimensions()[2]
		output := tensors.Zeros(batch, size, length)
		src, dst := x.Flat(), output.Flat()
		for ii, value := range src {
			row := dst[ii*length : (ii+1)*length]
			for t := range row {
				row[t] = value
			}
		}
		return output, nil
	}), nil
}
