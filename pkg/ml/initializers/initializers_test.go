// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package initializers

import (
	"math"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestFanInFanOut(t *testing.T) {
	fanIn, fanOut := FanInFanOut(shapes.Make(dtypes.Float64, 4, 3))
	require.Equal(t, 4, fanIn)
	require.Equal(t, 3, fanOut)
	fanIn, fanOut = FanInFanOut(shapes.Make(dtypes.Float64, 5))
	require.Equal(t, 5, fanIn)
	require.Equal(t, 5, fanOut)
	fanIn, fanOut = FanInFanOut(shapes.Make(dtypes.Float64, 8, 2, 3, 3))
	require.Equal(t, 18, fanIn)
	require.Equal(t, 72, fanOut)
}

func TestFillDeterministic(t *testing.T) {
	shape := shapes.Make(dtypes.Float64, 20, 10)
	for _, initType := range TypeValues() {
		v0 := make([]float64, shape.Size())
		v1 := make([]float64, shape.Size())
		Fill(initType, NewRandom(42, "dense"), shape, v0)
		Fill(initType, NewRandom(42, "dense"), shape, v1)
		require.Equal(t, v0, v1, "initializer %s", initType)
	}

	v0 := make([]float64, shape.Size())
	v1 := make([]float64, shape.Size())
	Fill(TypeXavier, NewRandom(42, "dense"), shape, v0)
	Fill(TypeXavier, NewRandom(42, "other"), shape, v1)
	require.NotEqual(t, v0, v1, "different names must yield different values")
	require.Panics(t, func() { Fill(TypeZero, NewRandom(0, ""), shape, v0[:3]) })
}

func TestFillDistributions(t *testing.T) {
	shape := shapes.Make(dtypes.Float64, 100, 100)
	view := make([]float64, shape.Size())

	Fill(TypeOne, nil, shape, view)
	require.Equal(t, 1.0, stat.Mean(view, nil))

	Fill(TypeXavierUniform, NewRandom(1, "w"), shape, view)
	limit := math.Sqrt(6.0 / 200)
	for _, v := range view {
		require.True(t, v >= -limit && v < limit)
	}

	Fill(TypeRelu, NewRandom(1, "w"), shape, view)
	mean, std := stat.MeanStdDev(view, nil)
	require.InDelta(t, 0, mean, 0.01)
	require.InDelta(t, math.Sqrt(2.0/100), std, 0.01)
}
