// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"gonum.org/v1/gonum/floats"
)

// identityOutputType is the output type rule of vertices that don't change the type of their input.
func identityOutputType(v Vertex, layerIndex int, inputs []inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	return []inputtype.InputType{inputs[0]}, nil
}

// ScaleVertex multiplies its input by ScaleFactor.
type ScaleVertex struct {
	ScaleFactor float64 `json:"scale_factor"`
}

var _ Vertex = (*ScaleVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *ScaleVertex) JSONTags() (typeName, interfaceName string) { return "ScaleVertex", Interface }

// Clone implements Vertex.
func (v *ScaleVertex) Clone() Vertex { return &ScaleVertex{ScaleFactor: v.ScaleFactor} }

// Equal implements Vertex.
func (v *ScaleVertex) Equal(other Vertex) bool {
	o, ok := other.(*ScaleVertex)
	return ok && v.ScaleFactor == o.ScaleFactor
}

// Hash implements Vertex.
func (v *ScaleVertex) Hash() uint64 { return hashing.New("ScaleVertex").Float(v.ScaleFactor).Sum() }

// NumParams implements Vertex.
func (v *ScaleVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *ScaleVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *ScaleVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *ScaleVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	return identityOutputType(v, layerIndex, inputs)
}

// MemoryReport implements Vertex.
func (v *ScaleVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *ScaleVertex) Instantiate(args InstantiateArgs) (Node, error) {
	factor := v.ScaleFactor
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		output := inputs[0].Clone()
		floats.Scale(factor, output.Flat())
		return output, nil
	}), nil
}

// ShiftVertex adds ShiftFactor to its input.
type ShiftVertex struct {
	ShiftFactor float64 `json:"shift_factor"`
}

var _ Vertex = (*ShiftVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *ShiftVertex) JSONTags() (typeName, interfaceName string) { return "ShiftVertex", Interface }

// Clone implements Vertex.
func (v *ShiftVertex) Clone() Vertex { return &ShiftVertex{ShiftFactor: v.ShiftFactor} }

// Equal implements Vertex.
func (v *ShiftVertex) Equal(other Vertex) bool {
	o, ok := other.(*ShiftVertex)
	return ok && v.ShiftFactor == o.ShiftFactor
}

// Hash implements Vertex.
func (v *ShiftVertex) Hash() uint64 { return hashing.New("ShiftVertex").Float(v.ShiftFactor).Sum() }

// NumParams implements Vertex.
func (v *ShiftVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *ShiftVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *ShiftVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *ShiftVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	return identityOutputType(v, layerIndex, inputs)
}

// MemoryReport implements Vertex.
func (v *ShiftVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *ShiftVertex) Instantiate(args InstantiateArgs) (Node, error) {
	shift := v.ShiftFactor
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		output := inputs[0].Clone()
		floats.AddConst(shift, output.Flat())
		return output, nil
	}), nil
}
