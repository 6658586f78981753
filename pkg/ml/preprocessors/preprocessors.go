// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package preprocessors converts values between input kinds: feed-forward, recurrent and
// convolutional. They are used by LayerVertex (before its layer) and by PreprocessorVertex.
//
// Preprocessors are polymorphic and serialized with polymorphicjson under the interface
// name "Preprocessor".
package preprocessors

import (
	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/support/polymorphicjson"
	"github.com/pkg/errors"
)

// Interface name used in polymorphic JSON encoding.
const Interface = "Preprocessor"

// Preprocessor converts the values of one input type to another.
type Preprocessor interface {
	polymorphicjson.JSONIdentifiable

	// Clone returns a deep copy.
	Clone() Preprocessor

	// Equal compares all fields. Preprocessors of different kinds are never equal.
	Equal(other Preprocessor) bool

	// Hash is consistent with Equal.
	Hash() uint64

	// OutputType returns the type after preprocessing, or an error matching inputtype.ErrInvalidInputType.
	OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error)

	// Preprocess converts x, holding batchSize examples.
	Preprocess(x *tensors.Tensor, batchSize int) (*tensors.Tensor, error)
}

// Wrapper holds a Preprocessor for JSON serialization.
type Wrapper = polymorphicjson.Wrapper[Preprocessor]

func init() {
	polymorphicjson.Register(func() Preprocessor { return &FeedForwardToRnn{} })
	polymorphicjson.Register(func() Preprocessor { return &RnnToFeedForward{} })
	polymorphicjson.Register(func() Preprocessor { return &CnnToFeedForward{} })
	polymorphicjson.Register(func() Preprocessor { return &FeedForwardToCnn{} })
}

// Kinds returns the type tags of all preprocessors.
func Kinds() []string {
	return polymorphicjson.RegisteredTypes(Interface)
}

// Kind returns the type tag of the preprocessor.
func Kind(p Preprocessor) string {
	kind, _ := p.JSONTags()
	return kind
}

// FeedForwardToRnn converts a [batch*T, size] matrix, rows ordered by example and then by
// time step, to a [batch, size, T] time series.
type FeedForwardToRnn struct{}

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (p *FeedForwardToRnn) JSONTags() (typeName, interfaceName string) {
	return "FeedForwardToRnn", Interface
}

// Clone implements Preprocessor.
func (p *FeedForwardToRnn) Clone() Preprocessor { return &FeedForwardToRnn{} }

// Equal implements Preprocessor.
func (p *FeedForwardToRnn) Equal(other Preprocessor) bool {
	_, ok := other.(*FeedForwardToRnn)
	return ok
}

// Hash implements Preprocessor.
func (p *FeedForwardToRnn) Hash() uint64 { return hashing.New("FeedForwardToRnn").Sum() }

// OutputType implements Preprocessor. The time-series length is only known at runtime.
func (p *FeedForwardToRnn) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	switch input.Kind {
	case inputtype.KindFeedForward, inputtype.KindConvolutionalFlat:
		return inputtype.Recurrent(input.FlattenedSize()), nil
	default:
		return inputtype.InputType{}, inputtype.Invalidf("FeedForwardToRnn", layerIndex,
			"expected FeedForward input, got %s", input)
	}
}

// Preprocess implements Preprocessor.
func (p *FeedForwardToRnn) Preprocess(x *tensors.Tensor, batchSize int) (*tensors.Tensor, error) {
	if x.Rank() != 2 || batchSize <= 0 || x.Dimensions()[0]%batchSize != 0 {
		return nil, errors.Errorf("FeedForwardToRnn: cannot split input of shape %s into %d examples",
			x.Shape(), batchSize)
	}
	rows, size := x.Dimensions()[0], x.Dimensions()[1]
	length := rows / batchSize
	out := tensors.Zeros(batchSize, size, length)
	src, dst := x.Flat(), out.Flat()
	for b := range batchSize {
		for t := range length {
			row := src[(b*length+t)*size : (b*length+t+1)*size]
			for f, v := range row {
				dst[(b*size+f)*length+t] = v
			}
		}
	}
	return out, nil
}

// RnnToFeedForward converts a [batch, size, T] time series to a [batch*T, size] matrix,
// rows ordered by example and then by time step.
type RnnToFeedForward struct{}

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (p *RnnToFeedForward) JSONTags() (typeName, interfaceName string) {
	return "RnnToFeedForward", Interface
}

// Clone implements Preprocessor.
func (p *RnnToFeedForward) Clone() Preprocessor { return &RnnToFeedForward{} }

// Equal implements Preprocessor.
func (p *RnnToFeedForward) Equal(other Preprocessor) bool {
	_, ok := other.(*RnnToFeedForward)
	return ok
}

// Hash implements Preprocessor.
func (p *RnnToFeedForward) Hash() uint64 { return hashing.New("RnnToFeedForward").Sum() }

// OutputType implements Preprocessor.
func (p *RnnToFeedForward) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	if input.Kind != inputtype.KindRecurrent {
		return inputtype.InputType{}, inputtype.Invalidf("RnnToFeedForward", layerIndex,
			"expected Recurrent input, got %s", input)
	}
	return inputtype.FeedForward(input.Size), nil
}

// Preprocess implements Preprocessor.
func (p *RnnToFeedForward) Preprocess(x *tensors.Tensor, _ int) (*tensors.Tensor, error) {
	if x.Rank() != 3 {
		return nil, errors.Errorf("RnnToFeedForward: expected input of shape [batch, size, time], got %s", x.Shape())
	}
	batch, size, length := x.Dimensions()[0], x.Dimensions()[1], x.Dimensions()[2]
	out := tensors.Zeros(batch*length, size)
	src, dst := x.Flat(), out.Flat()
	for b := range batch {
		for f := range size {
			for t := range length {
				dst[(b*length+t)*size+f] = src[(b*size+f)*length+t]
			}
		}
	}
	return out, nil
}

// CnnToFeedForward flattens [batch, channels, height, width] images to [batch, channels*height*width].
type CnnToFeedForward struct {
	Height   int `json:"height"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (p *CnnToFeedForward) JSONTags() (typeName, interfaceName string) {
	return "CnnToFeedForward", Interface
}

// Clone implements Preprocessor.
func (p *CnnToFeedForward) Clone() Preprocessor {
	p2 := *p
	return &p2
}

// Equal implements Preprocessor.
func (p *CnnToFeedForward) Equal(other Preprocessor) bool {
	o, ok := other.(*CnnToFeedForward)
	return ok && *p == *o
}

// Hash implements Preprocessor.
func (p *CnnToFeedForward) Hash() uint64 {
	return hashing.New("CnnToFeedForward").Int(p.Height).Int(p.Width).Int(p.Channels).Sum()
}

// OutputType implements Preprocessor: the input must be a Convolutional (or ConvolutionalFlat)
// type of the configured dimensions.
func (p *CnnToFeedForward) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	if err := checkImage("CnnToFeedForward", layerIndex, p.Height, p.Width, p.Channels, input); err != nil {
		return inputtype.InputType{}, err
	}
	return inputtype.FeedForward(p.Height * p.Width * p.Channels), nil
}

// Preprocess implements Preprocessor.
func (p *CnnToFeedForward) Preprocess(x *tensors.Tensor, _ int) (*tensors.Tensor, error) {
	size := p.Height * p.Width * p.Channels
	if x.Rank() < 2 || x.Size() != x.Dimensions()[0]*size {
		return nil, errors.Errorf("CnnToFeedForward: expected input of shape [batch, %d, %d, %d], got %s",
			p.Channels, p.Height, p.Width, x.Shape())
	}
	return x.Reshape(x.Dimensions()[0], size), nil
}

// FeedForwardToCnn reshapes [batch, channels*height*width] values to [batch, channels, height, width] images.
type FeedForwardToCnn struct {
	Height   int `json:"height"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (p *FeedForwardToCnn) JSONTags() (typeName, interfaceName string) {
	return "FeedForwardToCnn", Interface
}

// Clone implements Preprocessor.
func (p *FeedForwardToCnn) Clone() Preprocessor {
	p2 := *p
	return &p2
}

// Equal implements Preprocessor.
func (p *FeedForwardToCnn) Equal(other Preprocessor) bool {
	o, ok := other.(*FeedForwardToCnn)
	return ok && *p == *o
}

// Hash implements Preprocessor.
func (p *FeedForwardToCnn) Hash() uint64 {
	return hashing.New("FeedForwardToCnn").Int(p.Height).Int(p.Width).Int(p.Channels).Sum()
}

// OutputType implements Preprocessor: it accepts FeedForward inputs of size height*width*channels,
// and Convolutional types of the configured dimensions.
func (p *FeedForwardToCnn) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	if p.Height <= 0 || p.Width <= 0 || p.Channels <= 0 {
		return inputtype.InputType{}, errors.Errorf("FeedForwardToCnn: invalid configuration %dx%dx%d",
			p.Height, p.Width, p.Channels)
	}
	if input.Kind == inputtype.KindFeedForward {
		if input.Size != p.Height*p.Width*p.Channels {
			return inputtype.InputType{}, inputtype.Invalidf("FeedForwardToCnn", layerIndex,
				"expected input of size %d, got %s", p.Height*p.Width*p.Channels, input)
		}
	} else if err := checkImage("FeedForwardToCnn", layerIndex, p.Height, p.Width, p.Channels, input); err != nil {
		return inputtype.InputType{}, err
	}
	return inputtype.Convolutional(p.Height, p.Width, p.Channels), nil
}

// Preprocess implements Preprocessor.
func (p *FeedForwardToCnn) Preprocess(x *tensors.Tensor, _ int) (*tensors.Tensor, error) {
	size := p.Height * p.Width * p.Channels
	if x.Rank() < 2 || x.Size() != x.Dimensions()[0]*size {
		return nil, errors.Errorf("FeedForwardToCnn: expected input of shape [batch, %d], got %s", size, x.Shape())
	}
	return x.Reshape(x.Dimensions()[0], p.Channels, p.Height, p.Width), nil
}

func checkImage(kind string, layerIndex, height, width, channels int, input inputtype.InputType) error {
	if height <= 0 || width <= 0 || channels <= 0 {
		return errors.Errorf("%s: invalid configuration %dx%dx%d", kind, height, width, channels)
	}
	if input.Kind != inputtype.KindConvolutional && input.Kind != inputtype.KindConvolutionalFlat {
		return inputtype.Invalidf(kind, layerIndex, "expected Convolutional input, got %s", input)
	}
	if input.Height != height || input.Width != width || input.Channels != channels {
		return inputtype.Invalidf(kind, layerIndex, "expected %dx%dx%d images, got %s",
			height, width, channels, input)
	}
	return nil
}
