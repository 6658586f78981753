// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package initializers fills parameter buffers with initial values.
//
// Initializers write directly into a view of the flat parameter buffer of a network: they
// never allocate the parameters themselves. Random initializers draw from a generator created
// with NewRandom, which is deterministic given the network seed and the vertex name.
package initializers

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/gomlx/compgraph/pkg/core/shapes"
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/stat/distuv"
)

// Type of weight initialization.
type Type int

const (
	// TypeZero fills with 0.
	TypeZero Type = iota

	// TypeOne fills with 1.
	TypeOne

	// TypeNormal samples from N(0, 1/sqrt(fanIn)).
	TypeNormal

	// TypeUniform samples from U(-a, a), a = 1/sqrt(fanIn).
	TypeUniform

	// TypeXavier samples from N(0, sqrt(2/(fanIn+fanOut))).
	TypeXavier

	// TypeXavierUniform samples from U(-a, a), a = sqrt(6/(fanIn+fanOut)).
	TypeXavierUniform

	// TypeRelu (He initialization) samples from N(0, sqrt(2/fanIn)).
	TypeRelu
)

//go:generate go tool enumer -type=Type -trimprefix=Type -transform=snake -values -text -json -output=gen_type_enumer.go initializers.go

// NewRandom returns a random number generator seeded by the network seed and the name of the
// vertex being initialized: vertices initialized concurrently don't share generators, and the
// result doesn't depend on the order of initialization.
func NewRandom(seed int64, name string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return rand.New(rand.NewPCG(uint64(seed), h.Sum64()))
}

// FanInFanOut of a parameter expected to be the weights of a dense, recurrent or convolution layer.
//
// For rank <= 1 (biases and other vectors) both are the size of the parameter.
func FanInFanOut(shape shapes.Shape) (fanIn, fanOut int) {
	rank := shape.Rank()
	switch rank {
	case 0, 1:
		fanIn = shape.Size()
		fanOut = fanIn
	case 2: // Weights of a dense layer.
		fanIn = shape.Dimensions[0]
		fanOut = shape.Dimensions[1]
	default: // Assuming convolution kernels [outChannels, inChannels, kernel...].
		receptiveFieldSize := 1
		for _, dim := range shape.Dimensions[2:] {
			receptiveFieldSize *= dim
		}
		fanIn = shape.Dimensions[1] * receptiveFieldSize
		fanOut = shape.Dimensions[0] * receptiveFieldSize
	}
	return
}

// Fill writes initial values of the given type into view, which holds a parameter of the given shape.
// It panics if the size of view doesn't match the shape.
func Fill(initType Type, rng *rand.Rand, shape shapes.Shape, view []float64) {
	if len(view) != shape.Size() {
		exceptions.Panicf("initializers.Fill(%s): view has %d elements, shape %s requires %d",
			initType, len(view), shape, shape.Size())
	}
	fanIn, fanOut := FanInFanOut(shape)
	fanIn, fanOut = max(fanIn, 1), max(fanOut, 1)
	switch initType {
	case TypeZero:
		Constant(view, 0)
	case TypeOne:
		Constant(view, 1)
	case TypeNormal:
		sample(distuv.Normal{Mu: 0, Sigma: 1 / math.Sqrt(float64(fanIn)), Src: rng}, view)
	case TypeUniform:
		limit := 1 / math.Sqrt(float64(fanIn))
		sample(distuv.Uniform{Min: -limit, Max: limit, Src: rng}, view)
	case TypeXavier:
		sample(distuv.Normal{Mu: 0, Sigma: math.Sqrt(2 / float64(fanIn+fanOut)), Src: rng}, view)
	case TypeXavierUniform:
		limit := math.Sqrt(6 / float64(fanIn+fanOut))
		sample(distuv.Uniform{Min: -limit, Max: limit, Src: rng}, view)
	case TypeRelu:
		sample(distuv.Normal{Mu: 0, Sigma: math.Sqrt(2 / float64(fanIn)), Src: rng}, view)
	default:
		exceptions.Panicf("initializers.Fill(): invalid initializer %q: options are %v", initType, TypeValues())
	}
}

// Constant fills view with value.
func Constant(view []float64, value float64) {
	for ii := range view {
		view[ii] = value
	}
}

type sampler interface {
	Rand() float64
}

func sample(dist sampler, view []float64) {
	for ii := range view {
		view[ii] = dist.Rand()
	}
}
