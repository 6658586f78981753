// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"encoding/json"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/stretchr/testify/require"
)

func TestRnnConversions(t *testing.T) {
	toRnn, toFF := &FeedForwardToRnn{}, &RnnToFeedForward{}
	out, err := toRnn.OutputType(0, inputtype.FeedForward(3))
	require.NoError(t, err)
	require.Equal(t, inputtype.Recurrent(3), out)
	_, err = toRnn.OutputType(0, inputtype.Recurrent(3))
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)

	out, err = toFF.OutputType(0, inputtype.Recurrent(3, 7))
	require.NoError(t, err)
	require.Equal(t, inputtype.FeedForward(3), out)
	_, err = toFF.OutputType(0, inputtype.FeedForward(3))
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)

	// [batch=2, size=2, T=3]
	series := tensors.FromValue([][][]float64{
		{{1, 2, 3}, {4, 5, 6}},
		{{7, 8, 9}, {10, 11, 12}},
	})
	flat, err := toFF.Preprocess(series, 2)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}, {7, 10}, {8, 11}, {9, 12}}, flat.Value())

	back, err := toRnn.Preprocess(flat, 2)
	require.NoError(t, err)
	require.True(t, series.Equal(back))

	_, err = toRnn.Preprocess(flat, 4)
	require.Error(t, err)
}

func TestCnnConversions(t *testing.T) {
	toFF := &CnnToFeedForward{Height: 1, Width: 2, Channels: 2}
	toCnn := &FeedForwardToCnn{Height: 1, Width: 2, Channels: 2}

	out, err := toFF.OutputType(0, inputtype.Convolutional(1, 2, 2))
	require.NoError(t, err)
	require.Equal(t, inputtype.FeedForward(4), out)
	_, err = toFF.OutputType(0, inputtype.Convolutional(2, 2, 2))
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)
	_, err = (&CnnToFeedForward{}).OutputType(0, inputtype.Convolutional(2, 2, 2))
	require.Error(t, err)

	out, err = toCnn.OutputType(0, inputtype.FeedForward(4))
	require.NoError(t, err)
	require.Equal(t, inputtype.Convolutional(1, 2, 2), out)
	out, err = toCnn.OutputType(0, inputtype.ConvolutionalFlat(1, 2, 2))
	require.NoError(t, err)
	require.Equal(t, inputtype.Convolutional(1, 2, 2), out)
	_, err = toCnn.OutputType(0, inputtype.FeedForward(5))
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)

	x := tensors.FromValue([][]float64{{1, 2, 3, 4}})
	image, err := toCnn.Preprocess(x, 1)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 1, 2}, image.Dimensions())
	require.Equal(t, 3.0, image.At(0, 1, 0, 0))
	flat, err := toFF.Preprocess(image, 1)
	require.NoError(t, err)
	require.True(t, x.Equal(flat))
}

func TestEqualHashJSON(t *testing.T) {
	all := []Preprocessor{
		&FeedForwardToRnn{},
		&RnnToFeedForward{},
		&CnnToFeedForward{Height: 2, Width: 3, Channels: 4},
		&CnnToFeedForward{Height: 3, Width: 2, Channels: 4},
		&FeedForwardToCnn{Height: 2, Width: 3, Channels: 4},
	}
	for ii, p := range all {
		clone := p.Clone()
		require.True(t, p.Equal(clone))
		require.Equal(t, p.Hash(), clone.Hash())
		for jj, other := range all {
			if ii != jj {
				require.False(t, p.Equal(other))
			}
		}
		data, err := json.Marshal(Wrapper{Value: p})
		require.NoError(t, err)
		var loaded Wrapper
		require.NoError(t, json.Unmarshal(data, &loaded))
		require.True(t, p.Equal(loaded.Value), "round trip of %s", data)
	}
	require.Len(t, Kinds(), 4)
	require.Equal(t, "CnnToFeedForward", Kind(all[2]))
}
