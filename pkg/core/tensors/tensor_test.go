// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromValue(t *testing.T) {
	x := FromValue([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Equal(t, []int{2, 3}, x.Dimensions())
	require.Equal(t, 2, x.BatchSize())
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, x.Flat())
	require.Equal(t, 6.0, x.At(1, 2))
	require.Equal(t, []int{3, 1}, x.Strides())
	require.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, x.Value())

	x.Set(7, 0, 1)
	require.Equal(t, 7.0, x.At(0, 1))
	require.Panics(t, func() { x.At(2, 0) })
	require.Panics(t, func() { FromValue([][]float64{{1, 2}, {3}}) })

	scalar := FromValue(3.0)
	require.Equal(t, 0, scalar.Rank())
	require.Equal(t, 3.0, scalar.Value())

	cube := FromValue([][][]float64{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}})
	require.Equal(t, 7.0, cube.At(1, 1, 0))
	require.Equal(t, [][][]float64{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}}, cube.Value())
}

func TestCloneEqual(t *testing.T) {
	x := FromValue([]float64{1, 2, 3})
	y := x.Clone()
	require.True(t, x.Equal(y))
	y.Flat()[0] = 1.0001
	require.False(t, x.Equal(y))
	require.True(t, x.InDelta(y, 1e-3))
	require.False(t, x.InDelta(y, 1e-5))
	require.False(t, x.Equal(x.Reshape(3, 1)))
	require.Panics(t, func() { FromFlatDataAndDimensions([]float64{1, 2}, 3) })
}

func TestConcatenateAndSlice(t *testing.T) {
	a := FromValue([][]float64{{1, 2}, {3, 4}})
	b := FromValue([][]float64{{5}, {6}})
	c, err := Concatenate(1, a, b)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2, 5}, {3, 4, 6}}, c.Value())

	c, err = Concatenate(0, a, a)
	require.NoError(t, err)
	require.Equal(t, []int{4, 2}, c.Dimensions())

	_, err = Concatenate(0, a, b)
	require.Error(t, err)

	s, err := Slice(c, 0, 1, 3)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{3, 4}, {1, 2}}, s.Value())

	rnn := FromValue([][][]float64{{{1, 2, 3}, {4, 5, 6}}})
	s, err = Slice(rnn, 2, 2, 3)
	require.NoError(t, err)
	require.Equal(t, [][][]float64{{{3}, {6}}}, s.Value())

	_, err = Slice(rnn, 1, 1, 1)
	require.Error(t, err)
}
