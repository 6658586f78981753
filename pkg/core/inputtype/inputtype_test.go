// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package inputtype

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	ff := FeedForward(3)
	require.Equal(t, KindFeedForward, ff.Kind)
	require.Equal(t, "FeedForward(3)", ff.String())
	require.Equal(t, 3, ff.ElementsPerExample())

	rnn := Recurrent(5)
	require.False(t, rnn.HasKnownLength())
	require.Equal(t, "Recurrent(5, length=?)", rnn.String())
	require.Equal(t, 5, rnn.ElementsPerExample())
	require.Equal(t, []int{5, 1}, rnn.Dimensions())

	rnn = Recurrent(5, 7)
	require.Equal(t, "Recurrent(5, length=7)", rnn.String())
	require.Equal(t, 35, rnn.ElementsPerExample())
	require.Equal(t, 5, rnn.FlattenedSize())

	cnn := Convolutional(4, 6, 2)
	require.Equal(t, []int{2, 4, 6}, cnn.Dimensions())
	require.Equal(t, 48, cnn.ElementsPerExample())
	require.Equal(t, 2, cnn.FeatureDim())

	flat := ConvolutionalFlat(4, 6, 2)
	require.Equal(t, []int{48}, flat.Dimensions())
	require.Equal(t, 48, flat.FeatureDim())

	cnn3d := Convolutional3D(2, 3, 4, 5)
	require.Equal(t, []int{5, 2, 3, 4}, cnn3d.Dimensions())
	require.Equal(t, 120, cnn3d.ElementsPerExample())

	require.Panics(t, func() { FeedForward(0) })
	require.Panics(t, func() { Convolutional(1, -1, 1) })
	require.False(t, InputType{}.Ok())
	require.Equal(t, "InvalidInputType", InputType{}.String())
}

func TestShape(t *testing.T) {
	shape := Convolutional(4, 6, 2).Shape(8, dtypes.Float32)
	require.Equal(t, []int{8, 2, 4, 6}, shape.Dimensions)
	require.Equal(t, dtypes.Float32, shape.DType)
	require.Equal(t, 8*48, shape.Size())
	require.Panics(t, func() { InputType{}.Shape(1, dtypes.Float32) })
}

func TestCompatible(t *testing.T) {
	require.True(t, FeedForward(3).Compatible(FeedForward(3)))
	require.False(t, FeedForward(3).Compatible(FeedForward(4)))
	require.False(t, FeedForward(3).Compatible(Recurrent(3)))
	require.True(t, Recurrent(3).Compatible(Recurrent(3, 10)))
	require.True(t, Recurrent(3, 10).Compatible(Recurrent(3)))
	require.False(t, Recurrent(3, 10).Compatible(Recurrent(3, 11)))
	require.False(t, Convolutional(2, 2, 1).Compatible(ConvolutionalFlat(2, 2, 1)))

	require.Equal(t, Recurrent(3, 10), Recurrent(3).MoreSpecific(Recurrent(3, 10)))
	require.Equal(t, Recurrent(3, 10), Recurrent(3, 10).MoreSpecific(Recurrent(3)))
	require.Equal(t, FeedForward(2), FeedForward(2).MoreSpecific(FeedForward(2)))
}

func TestJSON(t *testing.T) {
	for _, it := range []InputType{
		FeedForward(3), Recurrent(4), Recurrent(4, 9), Convolutional(2, 3, 4),
		ConvolutionalFlat(5, 6, 7), Convolutional3D(1, 2, 3, 4),
	} {
		data, err := json.Marshal(it)
		require.NoError(t, err)
		var loaded InputType
		require.NoError(t, json.Unmarshal(data, &loaded))
		require.Equal(t, it, loaded, "round trip of %s (%s)", it, data)
	}

	data, err := json.Marshal(Recurrent(4, 9))
	require.NoError(t, err)
	require.Equal(t, `{"kind":"Recurrent","size":4,"time_series_length":9}`, string(data))

	var loaded InputType
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"feedforward","size":2}`), &loaded))
	require.Equal(t, FeedForward(2), loaded)
	require.Error(t, json.Unmarshal([]byte(`{"kind":"sparse","size":2}`), &loaded))
}

func TestInvalidf(t *testing.T) {
	err := Invalidf("MergeVertex", 3, "expected %d inputs", 2)
	require.True(t, errors.Is(err, ErrInvalidInputType))
	var typed *InvalidInputTypeError
	require.True(t, errors.As(err, &typed))
	require.Equal(t, "MergeVertex", typed.Vertex)
	require.Equal(t, 3, typed.LayerIndex)
	require.Equal(t, "invalid input type: MergeVertex (layer index 3): expected 2 inputs", err.Error())

	err = Invalidf("Dense", -1, "bad")
	require.Equal(t, "invalid input type: Dense: bad", err.Error())
}

func TestKindNames(t *testing.T) {
	require.Equal(t, KindStrings(), KindFeedForward.Values())
	require.Len(t, KindValues(), len(KindFeedForward.Values()))
	for _, kind := range KindValues() {
		require.True(t, kind.IsAKind())
		parsed, err := KindString(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, parsed)
	}
	parsed, err := KindString("convolutional3d")
	require.NoError(t, err)
	require.Equal(t, KindConvolutional3D, parsed)
	_, err = KindString("Dense")
	require.Error(t, err)
}
