// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"slices"

	"github.com/gomlx/compgraph/pkg/support/xslices"
	"github.com/pkg/errors"
)

// Concatenate tensors along the given axis. All other axes must have the same dimensions.
func Concatenate(axis int, operands ...*Tensor) (*Tensor, error) {
	if len(operands) == 0 {
		return nil, errors.New("tensors.Concatenate() requires at least one operand")
	}
	first := operands[0]
	if axis < 0 || axis >= first.Rank() {
		return nil, errors.Errorf("tensors.Concatenate(): invalid axis %d for shape %s", axis, first.shape)
	}
	dims := slices.Clone(first.shape.Dimensions)
	dims[axis] = 0
	for _, op := range operands {
		if op.Rank() != first.Rank() {
			return nil, errors.Errorf("tensors.Concatenate(): operands have different ranks (%s and %s)", first.shape, op.shape)
		}
		for ii, dim := range op.shape.Dimensions {
			if ii != axis && dim != first.shape.Dimensions[ii] {
				return nil, errors.Errorf("tensors.Concatenate(axis=%d): incompatible shapes %s and %s", axis, first.shape, op.shape)
			}
		}
		dims[axis] += op.shape.Dimensions[axis]
	}
	outer := xslices.Product(dims[:axis])
	flat := make([]float64, 0, xslices.Product(dims))
	for ii := range outer {
		for _, op := range operands {
			chunk := len(op.flat) / outer
			flat = append(flat, op.flat[ii*chunk:(ii+1)*chunk]...)
		}
	}
	return FromFlatDataAndDimensions(flat, dims...), nil
}

// Slice returns a copy of the elements [from, to) of the given axis.
func Slice(t *Tensor, axis, from, to int) (*Tensor, error) {
	if axis < 0 || axis >= t.Rank() {
		return nil, errors.Errorf("tensors.Slice(): invalid axis %d for shape %s", axis, t.shape)
	}
	dim := t.shape.Dimensions[axis]
	if from < 0 || to > dim || from >= to {
		return nil, errors.Errorf("tensors.Slice(): invalid range [%d, %d) for axis %d of shape %s", from, to, axis, t.shape)
	}
	dims := slices.Clone(t.shape.Dimensions)
	dims[axis] = to - from
	outer := xslices.Product(dims[:axis])
	inner := xslices.Product(dims[axis+1:])
	flat := make([]float64, 0, outer*(to-from)*inner)
	for ii := range outer {
		base := ii * dim * inner
		flat = append(flat, t.flat[base+from*inner:base+to*inner]...)
	}
	return FromFlatDataAndDimensions(flat, dims...), nil
}
