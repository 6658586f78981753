// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements a minimal host-only Tensor: a multidimensional array of float64,
// defined by its shape and its content stored as a flat (1D) slice in row-major order.
//
// Tensors are the values flowing between instantiated graph nodes during a forward pass.
// The first axis is always the batch axis.
//
// Ways to construct a Tensor:
//
//   - Zeros(dimensions...): a tensor filled with zeros.
//
//   - FromFlatDataAndDimensions(data, dimensions...): takes ownership of data.
//
//   - FromValue(value): from a float64 or a (regular) multidimensional slice of float64. Example:
//
//     t := FromValue([][]float64{{1, 2}, {3, 5}, {7, 11}})
package tensors

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/gomlx/compgraph/pkg/core/shapes"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"gonum.org/v1/gonum/floats"
)

// DType of all tensors in this package.
const DType = dtypes.Float64

// Tensor is a multidimensional array of float64.
type Tensor struct {
	shape shapes.Shape
	flat  []float64
}

// Zeros returns a tensor of the given dimensions filled with zeros.
func Zeros(dimensions ...int) *Tensor {
	shape := shapes.Make(DType, dimensions...)
	return &Tensor{shape: shape, flat: make([]float64, shape.Size())}
}

// FromShape returns a tensor with the given shape, filled with zeros. The shape dtype must be Float64.
func FromShape(shape shapes.Shape) *Tensor {
	if shape.DType != DType {
		exceptions.Panicf("tensors.FromShape(%s): only %s is supported", shape, DType)
	}
	return Zeros(shape.Dimensions...)
}

// FromFlatDataAndDimensions creates a tensor with the given dimensions, using data as its storage.
// It panics if the size of data doesn't match the dimensions.
func FromFlatDataAndDimensions(data []float64, dimensions ...int) *Tensor {
	shape := shapes.Make(DType, dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatDataAndDimensions(): len(data)=%d doesn't match shape %s (size %d)",
			len(data), shape, shape.Size())
	}
	return &Tensor{shape: shape, flat: data}
}

// MultiDimensionSlice lists the values accepted by FromValue.
type MultiDimensionSlice interface {
	float64 | []float64 | [][]float64 | [][][]float64 | [][][][]float64
}

// FromValue converts a float64 or a multidimensional slice of float64 to a tensor.
// Slices must be regular: all sub-slices of the same axis must have the same length.
func FromValue[S MultiDimensionSlice](value S) *Tensor {
	var dims []int
	var flat []float64
	switch v := any(value).(type) {
	case float64:
		return &Tensor{shape: shapes.Make(DType), flat: []float64{v}}
	case []float64:
		dims = []int{len(v)}
		flat = slices.Clone(v)
	case [][]float64:
		dims = []int{len(v), len(v[0])}
		for _, row := range v {
			flat = appendRegular(flat, row, dims[1])
		}
	case [][][]float64:
		dims = []int{len(v), len(v[0]), len(v[0][0])}
		for _, m := range v {
			checkLen(len(m), dims[1])
			for _, row := range m {
				flat = appendRegular(flat, row, dims[2])
			}
		}
	case [][][][]float64:
		dims = []int{len(v), len(v[0]), len(v[0][0]), len(v[0][0][0])}
		for _, c := range v {
			checkLen(len(c), dims[1])
			for _, m := range c {
				checkLen(len(m), dims[2])
				for _, row := range m {
					flat = appendRegular(flat, row, dims[3])
				}
			}
		}
	}
	return FromFlatDataAndDimensions(flat, dims...)
}

func checkLen(got, want int) {
	if got != want {
		exceptions.Panicf("tensors.FromValue(): irregular slice, got a sub-slice of length %d, wanted %d", got, want)
	}
}

func appendRegular(flat, row []float64, want int) []float64 {
	checkLen(len(row), want)
	return append(flat, row...)
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// Dimensions of the tensor.
func (t *Tensor) Dimensions() []int { return t.shape.Dimensions }

// Rank of the tensor.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size is the number of elements of the tensor.
func (t *Tensor) Size() int { return len(t.flat) }

// BatchSize is the dimension of the first axis.
func (t *Tensor) BatchSize() int { return t.shape.Dim(0) }

// Flat returns the storage of the tensor, in row-major order. Changes to it change the tensor.
func (t *Tensor) Flat() []float64 { return t.flat }

// CopyFlatData returns a copy of the tensor content.
func (t *Tensor) CopyFlatData() []float64 { return slices.Clone(t.flat) }

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{shape: t.shape.Clone(), flat: slices.Clone(t.flat)}
}

// Reshape returns a copy of the tensor with new dimensions. The total size must be preserved.
func (t *Tensor) Reshape(dimensions ...int) *Tensor {
	return FromFlatDataAndDimensions(slices.Clone(t.flat), dimensions...)
}

// Strides returns the number of elements to skip to advance one position in each axis.
func (t *Tensor) Strides() []int {
	rank := t.Rank()
	strides := make([]int, rank)
	stride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= t.shape.Dimensions[axis]
	}
	return strides
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != t.Rank() {
		exceptions.Panicf("tensor of shape %s indexed with %d indices", t.shape, len(indices))
	}
	var offset int
	for axis, stride := range t.Strides() {
		idx := indices[axis]
		if idx < 0 || idx >= t.shape.Dimensions[axis] {
			exceptions.Panicf("index %v out of bounds for tensor of shape %s", indices, t.shape)
		}
		offset += idx * stride
	}
	return offset
}

// At returns the element at the given indices.
func (t *Tensor) At(indices ...int) float64 { return t.flat[t.offset(indices)] }

// Set the element at the given indices.
func (t *Tensor) Set(value float64, indices ...int) { t.flat[t.offset(indices)] = value }

// Equal returns whether both tensors have the same shape and content.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == other {
		return true
	}
	return t.shape.Equal(other.shape) && slices.Equal(t.flat, other.flat)
}

// InDelta returns whether both tensors have the same shape and the absolute difference of every
// element is <= delta.
func (t *Tensor) InDelta(other *Tensor, delta float64) bool {
	if t == other {
		return true
	}
	return t.shape.Equal(other.shape) && floats.EqualApprox(t.flat, other.flat, delta)
}

// Value returns the content as a multidimensional slice of float64 ([]float64, [][]float64, ...),
// or a float64 for scalars.
func (t *Tensor) Value() any {
	if t.Rank() == 0 {
		return t.flat[0]
	}
	return nested(t.flat, t.shape.Dimensions)
}

func nested(flat []float64, dims []int) any {
	if len(dims) == 1 {
		return slices.Clone(flat)
	}
	step := len(flat) / dims[0]
	switch len(dims) {
	case 2:
		rows := make([][]float64, dims[0])
		for ii := range rows {
			rows[ii] = nested(flat[ii*step:(ii+1)*step], dims[1:]).([]float64)
		}
		return rows
	case 3:
		rows := make([][][]float64, dims[0])
		for ii := range rows {
			rows[ii] = nested(flat[ii*step:(ii+1)*step], dims[1:]).([][]float64)
		}
		return rows
	default:
		rows := make([]any, dims[0])
		for ii := range rows {
			rows[ii] = nested(flat[ii*step:(ii+1)*step], dims[1:])
		}
		return rows
	}
}

// String implements fmt.Stringer. Large tensors are abbreviated.
func (t *Tensor) String() string {
	const maxElements = 12
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "%s", t.shape)
	if len(t.flat) <= maxElements {
		_, _ = fmt.Fprintf(&buf, ": %v", t.Value())
		return buf.String()
	}
	_, _ = fmt.Fprintf(&buf, ": %v ... %v", t.flat[:maxElements/2], t.flat[len(t.flat)-maxElements/2:])
	return buf.String()
}
