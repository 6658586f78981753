// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"math"
	"slices"

	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/support/xslices"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// L2Vertex computes the Euclidean distance between its 2 inputs, per example:
// sqrt(sum((a-b)^2) + Eps). The output is FeedForward(1).
//
// Eps is added in the forward pass as well, not only to keep the gradient finite at 0: with
// Eps > 0 the output is not the plain distance (identical inputs give sqrt(Eps)). Use Eps = 0 for
// the exact distance.
type L2Vertex struct {
	Eps float64 `json:"eps"`
}

var _ Vertex = (*L2Vertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *L2Vertex) JSONTags() (typeName, interfaceName string) { return "L2Vertex", Interface }

// Clone implements Vertex.
func (v *L2Vertex) Clone() Vertex { return &L2Vertex{Eps: v.Eps} }

// Equal implements Vertex.
func (v *L2Vertex) Equal(other Vertex) bool {
	o, ok := other.(*L2Vertex)
	return ok && v.Eps == o.Eps
}

// Hash implements Vertex.
func (v *L2Vertex) Hash() uint64 { return hashing.New("L2Vertex").Float(v.Eps).Sum() }

// NumParams implements Vertex.
func (v *L2Vertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *L2Vertex) MinInputs() int { return 2 }

// MaxInputs implements Vertex.
func (v *L2Vertex) MaxInputs() int { return 2 }

// OutputType implements Vertex.
func (v *L2Vertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	if _, err := compatibleInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	return []inputtype.InputType{inputtype.FeedForward(1)}, nil
}

// MemoryReport implements Vertex. The difference of the inputs is kept in working memory.
func (v *L2Vertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		elements := int64(inputs[0].ElementsPerExample())
		return memory.NewLayerReport(Kind(v), Kind(v), inputs, output).
			WorkingMemory(0, elements, 0, elements).
			Done()
	})
}

// Instantiate implements Vertex.
func (v *L2Vertex) Instantiate(args InstantiateArgs) (Node, error) {
	eps := v.Eps
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		if err := sameShapes(inputs); err != nil {
			return nil, err
		}
		batch := inputs[0].BatchSize()
		perExample := inputs[0].Size() / batch
		diff := make([]float64, perExample)
		output := tensors.Zeros(batch, 1)
		a, b, dst := inputs[0].Flat(), inputs[1].Flat(), output.Flat()
		for example := range batch {
			window := example * perExample
			floats.SubTo(diff, a[window:window+perExample], b[window:window+perExample])
			dst[example] = math.Sqrt(floats.Dot(diff, diff) + eps)
		}
		return output, nil
	}), nil
}

// DefaultL2NormalizeEpsilon is used when L2NormalizeVertex.Eps is not set.
const DefaultL2NormalizeEpsilon = 1e-8

// L2NormalizeVertex divides its input by its L2 norm, computed over the given axes for each example.
//
// Axes are the axes of the full value (axis 0 is the batch, which can't be normalized over).
// If Axes is empty, all the non-batch axes are used. The norm is clipped from below by Eps.
type L2NormalizeVertex struct {
	Axes []int   `json:"axes,omitempty"`
	Eps  float64 `json:"eps,omitempty"`
}

var _ Vertex = (*L2NormalizeVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *L2NormalizeVertex) JSONTags() (typeName, interfaceName string) {
	return "L2NormalizeVertex", Interface
}

// Clone implements Vertex.
func (v *L2NormalizeVertex) Clone() Vertex {
	return &L2NormalizeVertex{Axes: slices.Clone(v.Axes), Eps: v.Eps}
}

// Equal implements Vertex.
func (v *L2NormalizeVertex) Equal(other Vertex) bool {
	o, ok := other.(*L2NormalizeVertex)
	return ok && slices.Equal(v.Axes, o.Axes) && v.Eps == o.Eps
}

// Hash implements Vertex.
func (v *L2NormalizeVertex) Hash() uint64 {
	return hashing.New("L2NormalizeVertex").Ints(v.Axes).Float(v.Eps).Sum()
}

// NumParams implements Vertex.
func (v *L2NormalizeVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *L2NormalizeVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *L2NormalizeVertex) MaxInputs() int { return 1 }

// normalizedAxes returns, for each axis of a value of the given rank, whether it is normalized over.
func (v *L2NormalizeVertex) normalizedAxes(rank int) ([]bool, error) {
	normalized := make([]bool, rank)
	axes := v.Axes
	if len(axes) == 0 {
		axes = xslices.Iota(1, rank-1)
	}
	for _, axis := range axes {
		if axis < 1 || axis >= rank {
			return nil, errors.Errorf("invalid axis %d for a value of rank %d", axis, rank)
		}
		normalized[axis] = true
	}
	return normalized, nil
}

// OutputType implements Vertex.
func (v *L2NormalizeVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	if _, err := v.normalizedAxes(1 + len(inputs[0].Dimensions())); err != nil {
		return nil, inputtype.Invalidf("L2NormalizeVertex", layerIndex, "input %s: %v", inputs[0], err)
	}
	return []inputtype.InputType{inputs[0]}, nil
}

// MemoryReport implements Vertex. The norms are kept in working memory.
func (v *L2NormalizeVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		elements := int64(inputs[0].ElementsPerExample())
		return memory.NewLayerReport(Kind(v), Kind(v), inputs, output).
			WorkingMemory(0, elements, 0, elements).
			Done()
	})
}

// Instantiate implements Vertex.
func (v *L2NormalizeVertex) Instantiate(args InstantiateArgs) (Node, error) {
	config := &L2NormalizeVertex{Axes: slices.Clone(v.Axes), Eps: v.Eps}
	if config.Eps <= 0 {
		config.Eps = DefaultL2NormalizeEpsilon
	}
	return newNode(v, args, func(_ Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		return config.normalize(inputs[0])
	}), nil
}

func (v *L2NormalizeVertex) normalize(x *tensors.Tensor) (*tensors.Tensor, error) {
	rank := x.Rank()
	normalized, err := v.normalizedAxes(rank)
	if err != nil {
		return nil, err
	}

	// Elements with the same coordinates on the axes not normalized share a norm.
	dims := x.Dimensions()
	groupDims := slices.Clone(dims)
	for axis, isNormalized := range normalized {
		if isNormalized {
			groupDims[axis] = 1
		}
	}
	groupStrides := make([]int, rank)
	stride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		groupStrides[axis] = stride
		stride *= groupDims[axis]
	}
	src := x.Flat()
	groups := make([]int, len(src))
	for ii := range src {
		remainder, group := ii, 0
		for axis := rank - 1; axis >= 0; axis-- {
			coordinate := remainder % dims[axis]
			remainder /= dims[axis]
			if !normalized[axis] {
				group += coordinate * groupStrides[axis]
			}
		}
		groups[ii] = group
	}

	norms := make([]float64, xslices.Product(groupDims))
	for ii, value := range src {
		norms[groups[ii]] += value * value
	}
	for ii, sumSq := range norms {
		norms[ii] = max(math.Sqrt(sumSq), v.Eps)
	}
	output := tensors.Zeros(dims...)
	dst := output.Flat()
	for ii, value := range src {
		dst[ii] = value / norms[groups[ii]]
	}
	return output, nil
}
