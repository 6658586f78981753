// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package inputtype defines InputType, the descriptor of what flows along one edge of a
// computation graph, for a single example (the batch axis is never part of it).
//
// Type inference in a graph consists of propagating InputType values from the graph inputs
// through every vertex: each vertex maps the types of its inputs to the types of its outputs,
// or fails with an error matching ErrInvalidInputType.
//
// The array layout of each kind, including the batch axis, is:
//
//   - FeedForward: [batch, size]
//   - Recurrent: [batch, size, timeSeriesLength]
//   - Convolutional: [batch, channels, height, width]
//   - ConvolutionalFlat: [batch, height*width*channels]
//   - Convolutional3D: [batch, channels, depth, height, width]
package inputtype

import (
	"fmt"

	"github.com/gomlx/compgraph/pkg/core/shapes"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// Kind enumerates the classes of InputType.
type Kind int

const (
	KindInvalid Kind = iota
	KindFeedForward
	KindRecurrent
	KindConvolutional
	KindConvolutionalFlat
	KindConvolutional3D
)

//go:generate go tool enumer -type=Kind -trimprefix=Kind -values -text -json -output=gen_kind_enumer.go inputtype.go

// UnknownLength is the time-series length of a Recurrent type whose length is only known at runtime.
const UnknownLength = -1

// InputType describes the per-example shape of the values flowing on a graph edge.
//
// It is a plain value: it can be copied and compared with ==. Use the constructors
// (FeedForward, Recurrent, Convolutional, ConvolutionalFlat, Convolutional3D) to create one.
type InputType struct {
	Kind Kind `json:"kind"`

	// Size is the number of features for FeedForward and Recurrent types.
	Size int `json:"size,omitempty"`

	// TimeSeriesLength for Recurrent types, UnknownLength if not known.
	TimeSeriesLength int `json:"time_series_length,omitempty"`

	// Spatial dimensions for the convolutional types.
	Depth    int `json:"depth,omitempty"`
	Height   int `json:"height,omitempty"`
	Width    int `json:"width,omitempty"`
	Channels int `json:"channels,omitempty"`
}

func checkPositive(kind Kind, dims ...int) {
	for _, dim := range dims {
		if dim <= 0 {
			exceptions.Panicf("inputtype: %s dimensions must be > 0, got %v", kind, dims)
		}
	}
}

// FeedForward returns the type of flat feature vectors of the given size.
func FeedForward(size int) InputType {
	checkPositive(KindFeedForward, size)
	return InputType{Kind: KindFeedForward, Size: size}
}

// Recurrent returns the type of a time series of feature vectors of the given size.
// The timeSeriesLength is optional, if not given (or <= 0) it is UnknownLength.
func Recurrent(size int, timeSeriesLength ...int) InputType {
	checkPositive(KindRecurrent, size)
	length := UnknownLength
	if len(timeSeriesLength) > 0 && timeSeriesLength[0] > 0 {
		length = timeSeriesLength[0]
	}
	return InputType{Kind: KindRecurrent, Size: size, TimeSeriesLength: length}
}

// Convolutional returns the type of images (or feature maps) with the given dimensions.
func Convolutional(height, width, channels int) InputType {
	checkPositive(KindConvolutional, height, width, channels)
	return InputType{Kind: KindConvolutional, Height: height, Width: width, Channels: channels}
}

// ConvolutionalFlat returns the type of images flattened to one vector per example.
func ConvolutionalFlat(height, width, channels int) InputType {
	checkPositive(KindConvolutionalFlat, height, width, channels)
	return InputType{Kind: KindConvolutionalFlat, Height: height, Width: width, Channels: channels}
}

// Convolutional3D returns the type of volumes with the given dimensions.
func Convolutional3D(depth, height, width, channels int) InputType {
	checkPositive(KindConvolutional3D, depth, height, width, channels)
	return InputType{Kind: KindConvolutional3D, Depth: depth, Height: height, Width: width, Channels: channels}
}

// Ok returns whether the type has a valid kind.
func (t InputType) Ok() bool { return t.Kind != KindInvalid && t.Kind.IsAKind() }

// HasKnownLength returns whether a Recurrent type has a known time-series length.
func (t InputType) HasKnownLength() bool { return t.TimeSeriesLength > 0 }

// String implements fmt.Stringer.
func (t InputType) String() string {
	switch t.Kind {
	case KindFeedForward:
		return fmt.Sprintf("FeedForward(%d)", t.Size)
	case KindRecurrent:
		if !t.HasKnownLength() {
			return fmt.Sprintf("Recurrent(%d, length=?)", t.Size)
		}
		return fmt.Sprintf("Recurrent(%d, length=%d)", t.Size, t.TimeSeriesLength)
	case KindConvolutional:
		return fmt.Sprintf("Convolutional(h=%d, w=%d, c=%d)", t.Height, t.Width, t.Channels)
	case KindConvolutionalFlat:
		return fmt.Sprintf("ConvolutionalFlat(h=%d, w=%d, c=%d)", t.Height, t.Width, t.Channels)
	case KindConvolutional3D:
		return fmt.Sprintf("Convolutional3D(d=%d, h=%d, w=%d, c=%d)", t.Depth, t.Height, t.Width, t.Channels)
	default:
		return "InvalidInputType"
	}
}

// FlattenedSize is the number of features per example per time step: for recurrent types,
// the time axis is not included.
func (t InputType) FlattenedSize() int {
	switch t.Kind {
	case KindFeedForward, KindRecurrent:
		return t.Size
	case KindConvolutional, KindConvolutionalFlat:
		return t.Height * t.Width * t.Channels
	case KindConvolutional3D:
		return t.Depth * t.Height * t.Width * t.Channels
	default:
		return 0
	}
}

// ElementsPerExample returns the number of array elements for one example.
// Recurrent types with an unknown length count one time step.
func (t InputType) ElementsPerExample() int {
	if t.Kind == KindRecurrent && t.HasKnownLength() {
		return t.Size * t.TimeSeriesLength
	}
	return t.FlattenedSize()
}

// FeatureDim returns the dimension of axis 1 of the arrays of this type: features for
// feed-forward and recurrent types, channels for convolutional types and the flattened
// size for ConvolutionalFlat.
func (t InputType) FeatureDim() int {
	switch t.Kind {
	case KindConvolutional, KindConvolutional3D:
		return t.Channels
	default:
		return t.FlattenedSize()
	}
}

// Dimensions returns the per-example array dimensions (without the batch axis).
// A Recurrent type with unknown length uses a length of 1.
func (t InputType) Dimensions() []int {
	switch t.Kind {
	case KindFeedForward:
		return []int{t.Size}
	case KindRecurrent:
		return []int{t.Size, max(t.TimeSeriesLength, 1)}
	case KindConvolutional:
		return []int{t.Channels, t.Height, t.Width}
	case KindConvolutionalFlat:
		return []int{t.FlattenedSize()}
	case KindConvolutional3D:
		return []int{t.Channels, t.Depth, t.Height, t.Width}
	default:
		return nil
	}
}

// Shape returns the full array shape, including the batch axis, for a minibatch of the given size.
func (t InputType) Shape(batchSize int, dtype dtypes.DType) shapes.Shape {
	if !t.Ok() {
		exceptions.Panicf("inputtype: cannot create shape for invalid type %s", t)
	}
	return shapes.Make(dtype, append([]int{batchSize}, t.Dimensions()...)...)
}

// Compatible returns whether values of types t and other can be combined elementwise:
// they must be equal, except recurrent types where an unknown time-series length matches any length.
func (t InputType) Compatible(other InputType) bool {
	if t == other {
		return true
	}
	if t.Kind != KindRecurrent || other.Kind != KindRecurrent || t.Size != other.Size {
		return false
	}
	return !t.HasKnownLength() || !other.HasKnownLength()
}

// MoreSpecific returns whichever of two compatible types carries more information: for
// recurrent types, the one with a known time-series length.
func (t InputType) MoreSpecific(other InputType) InputType {
	if t.Kind == KindRecurrent && !t.HasKnownLength() && other.HasKnownLength() {
		return other
	}
	return t
}
