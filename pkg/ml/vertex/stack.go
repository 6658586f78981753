// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/pkg/errors"
)

// StackVertex concatenates its inputs along the batch axis: the output has the sum of the
// batch sizes of the inputs. Inputs must have compatible types.
type StackVertex struct{}

var _ Vertex = (*StackVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *StackVertex) JSONTags() (typeName, interfaceName string) { return "StackVertex", Interface }

// Clone implements Vertex.
func (v *StackVertex) Clone() Vertex { return &StackVertex{} }

// Equal implements Vertex.
func (v *StackVertex) Equal(other Vertex) bool {
	_, ok := other.(*StackVertex)
	return ok
}

// Hash implements Vertex.
func (v *StackVertex) Hash() uint64 { return hashing.New("StackVertex").Sum() }

// NumParams implements Vertex.
func (v *StackVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *StackVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *StackVertex) MaxInputs() int { return UnboundedInputs }

// OutputType implements Vertex.
func (v *StackVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	output, err := compatibleInputs(v, layerIndex, inputs)
	if err != nil {
		return nil, err
	}
	return []inputtype.InputType{output}, nil
}

// MemoryReport implements Vertex.
func (v *StackVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *StackVertex) Instantiate(args InstantiateArgs) (Node, error) {
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		return tensors.Concatenate(0, inputs...)
	}), nil
}

// UnstackVertex splits its input into StackSize equal chunks along the batch axis, and
// outputs the chunk From. It reverses a StackVertex with StackSize inputs.
type UnstackVertex struct {
	From      int `json:"from"`
	StackSize int `json:"stack_size"`
}

var _ Vertex = (*UnstackVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *UnstackVertex) JSONTags() (typeName, interfaceName string) {
	return "UnstackVertex", Interface
}

// Clone implements Vertex.
func (v *UnstackVertex) Clone() Vertex {
	v2 := *v
	return &v2
}

// Equal implements Vertex.
func (v *UnstackVertex) Equal(other Vertex) bool {
	o, ok := other.(*UnstackVertex)
	return ok && *v == *o
}

// Hash implements Vertex.
func (v *UnstackVertex) Hash() uint64 {
	return hashing.New("UnstackVertex").Int(v.From).Int(v.StackSize).Sum()
}

// NumParams implements Vertex.
func (v *UnstackVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *UnstackVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *UnstackVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *UnstackVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	if v.From < 0 || v.From >= v.StackSize {
		return nil, errors.Errorf("UnstackVertex: invalid configuration from=%d, stack_size=%d", v.From, v.StackSize)
	}
	return []inputtype.InputType{inputs[0]}, nil
}

// MemoryReport implements Vertex.
func (v *UnstackVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *UnstackVertex) Instantiate(args InstantiateArgs) (Node, error) {
	from, stackSize := v.From, v.StackSize
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		x := inputs[0]
		if x.Rank() < 1 || stackSize <= 0 || x.Dimensions()[0]%stackSize != 0 {
			return nil, errors.Errorf("cannot unstack input of shape %s into %d chunks", x.Shape(), stackSize)
		}
		chunk := x.Dimensions()[0] / stackSize
		return tensors.Slice(x, 0, from*chunk, (from+1)*chunk)
	}), nil
}
