// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(dtypes.Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	require.Panics(t, func() { Make(dtypes.Float32, 2, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(dtypes.Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestCloneAndBatch(t *testing.T) {
	shape := Make(dtypes.Float32, 1, 5)
	batched := shape.WithBatch(32)
	require.Equal(t, []int{32, 5}, batched.Dimensions)
	require.Equal(t, []int{1, 5}, shape.Dimensions)
	require.True(t, shape.EqualDimensions(shape.Clone()))
	require.False(t, shape.Equal(Make(dtypes.Float64, 1, 5)))
	require.True(t, shape.EqualDimensions(Make(dtypes.Float64, 1, 5)))

	require.NoError(t, batched.CheckDims(UncheckedAxis, 5))
	require.Error(t, batched.CheckDims(UncheckedAxis, 4))
	require.Error(t, batched.CheckDims(32))
}
