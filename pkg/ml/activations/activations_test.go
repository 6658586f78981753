// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package activations

import (
	"encoding/json"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/stretchr/testify/require"
)

func applyToValues(activation Type, values []float64) []float64 {
	return Apply(activation, tensors.FromValue(values)).CopyFlatData()
}

func TestApply(t *testing.T) {
	input := []float64{0, -1, 2, -3, 4, -5, 6}
	require.Equal(t, []float64{0, 0, 2, 0, 4, 0, 6}, applyToValues(TypeRelu, input))
	require.Equal(t, input, applyToValues(TypeNone, input))
	require.Equal(t, input, applyToValues(TypeIdentity, input))
	require.InDeltaSlice(t, []float64{0, -0.3, 2, -0.9, 4, -1.5, 6}, applyToValues(TypeLeakyRelu, input), 1e-9)
	require.InDeltaSlice(t,
		[]float64{0, -0.26894143, 1.7615942, -0.14227763, 3.928055, -0.03346425, 5.9851646},
		applyToValues(TypeSwish, input), 1e-6)
	require.Equal(t, applyToValues(TypeSwish, input), applyToValues(TypeSilu, input))
	require.InDelta(t, 0.5, applyToValues(TypeSigmoid, []float64{0})[0], 1e-12)
	require.InDelta(t, 0.841344746, applyToValues(TypeGelu, []float64{1})[0], 1e-6)
	require.InDelta(t, 0.841192, applyToValues(TypeGeluApprox, []float64{1})[0], 1e-5)

	x := tensors.FromValue(input)
	_ = Apply(TypeRelu, x)
	require.Equal(t, input, x.Flat(), "Apply must not modify its input")
}

func TestSoftmax(t *testing.T) {
	x := tensors.FromValue([][]float64{{1, 1, 1, 1}, {0, 0, 1000, 0}})
	y := Apply(TypeSoftmax, x)
	require.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25, 0, 0, 1, 0}, y.Flat(), 1e-9)

	// Recurrent layout: softmax over axis 1 for each time step.
	rnn := tensors.FromValue([][][]float64{{{0, 5}, {0, 5}}})
	y = Apply(TypeSoftmax, rnn)
	require.InDeltaSlice(t, []float64{0.5, 0.5, 0.5, 0.5}, y.Flat(), 1e-9)
}

func TestFromName(t *testing.T) {
	require.Equal(t, TypeNone, FromName(""))
	require.Equal(t, TypeLeakyRelu, FromName("leaky_relu"))
	require.Equal(t, TypeHardSwish, FromName("hard_swish"))
	require.Panics(t, func() { FromName("bogus") })
	_, err := Parse("bogus")
	require.ErrorContains(t, err, "invalid activation name")

	data, err := json.Marshal(TypeGeluApprox)
	require.NoError(t, err)
	require.Equal(t, `"gelu_approx"`, string(data))
}
