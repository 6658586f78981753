// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"gonum.org/v1/gonum/floats"
)

// ElementWiseOp is the operation combining the inputs of an ElementWiseVertex.
type ElementWiseOp int

const (
	OpAdd ElementWiseOp = iota
	OpSubtract
	OpProduct
	OpAverage
	OpMax
)

//go:generate go tool enumer -type=ElementWiseOp -trimprefix=Op -transform=snake -values -text -json -output=gen_elementwiseop_enumer.go elementwise.go

// ElementWiseVertex combines inputs of the same shape element by element.
//
// OpSubtract takes exactly 2 inputs (first minus second), the other operations take 2 or more.
// Inputs must have compatible types: the output type is the one of the first input, with the
// time-series length taken from any input that knows it.
type ElementWiseVertex struct {
	Op ElementWiseOp `json:"op"`
}

var _ Vertex = (*ElementWiseVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *ElementWiseVertex) JSONTags() (typeName, interfaceName string) {
	return "ElementWiseVertex", Interface
}

// Clone implements Vertex.
func (v *ElementWiseVertex) Clone() Vertex { return &ElementWiseVertex{Op: v.Op} }

// Equal implements Vertex.
func (v *ElementWiseVertex) Equal(other Vertex) bool {
	o, ok := other.(*ElementWiseVertex)
	return ok && v.Op == o.Op
}

// Hash implements Vertex.
func (v *ElementWiseVertex) Hash() uint64 {
	return hashing.New("ElementWiseVertex").Int(int(v.Op)).Sum()
}

// NumParams implements Vertex.
func (v *ElementWiseVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *ElementWiseVertex) MinInputs() int { return 2 }

// MaxInputs implements Vertex.
func (v *ElementWiseVertex) MaxInputs() int {
	if v.Op == OpSubtract {
		return 2
	}
	return UnboundedInputs
}

// OutputType implements Vertex.
func (v *ElementWiseVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	output, err := compatibleInputs(v, layerIndex, inputs)
	if err != nil {
		return nil, err
	}
	return []inputtype.InputType{output}, nil
}

// compatibleInputs checks that all inputs are compatible, and returns the most specific of them.
func compatibleInputs(v Vertex, layerIndex int, inputs []inputtype.InputType) (inputtype.InputType, error) {
	output := inputs[0]
	for ii, input := range inputs[1:] {
		if !input.Compatible(output) {
			return inputtype.InputType{}, inputtype.Invalidf(Kind(v), layerIndex,
				"input #%d (%s) is not compatible with input #0 (%s)", ii+1, input, inputs[0])
		}
		output = output.MoreSpecific(input)
	}
	return output, nil
}

// MemoryReport implements Vertex. Product and max keep their inputs for the backward pass.
func (v *ElementWiseVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		builder := memory.NewLayerReport(Kind(v), Kind(v), inputs, output)
		if v.Op == OpProduct || v.Op == OpMax {
			builder.CacheMemory(0, int64(output.ElementsPerExample()*len(inputs)))
		}
		return builder.Done()
	})
}

// Instantiate implements Vertex.
func (v *ElementWiseVertex) Instantiate(args InstantiateArgs) (Node, error) {
	op := v.Op
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		if err := sameShapes(inputs); err != nil {
			return nil, err
		}
		output := inputs[0].Clone()
		dst := output.Flat()
		for _, input := range inputs[1:] {
			src := input.Flat()
			switch op {
			case OpAdd, OpAverage:
				floats.Add(dst, src)
			case OpSubtract:
				floats.Sub(dst, src)
			case OpProduct:
				floats.Mul(dst, src)
			case OpMax:
				for ii, value := range src {
					dst[ii] = max(dst[ii], value)
				}
			}
		}
		if op == OpAverage {
			floats.Scale(1/float64(len(inputs)), dst)
		}
		return output, nil
	}), nil
}
