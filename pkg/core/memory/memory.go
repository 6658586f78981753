// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package memory holds memory estimates for layers (vertices) and whole networks.
//
// Reports are pure data: they record element counts per memory category, and are
// evaluated for a given minibatch size, use case (training or inference), cache mode and
// dtype. Producing or evaluating a report never allocates arrays.
package memory

import (
	"github.com/gomlx/compgraph/pkg/support/polymorphicjson"
	"github.com/gomlx/gopjrt/dtypes"
)

// Type enumerates the categories of memory accounted for in a Report.
type Type int

const (
	// TypeParameters are the learnable parameters.
	TypeParameters Type = iota

	// TypeParameterGradients are the gradients of the parameters, training only.
	TypeParameterGradients

	// TypeActivations are the outputs of each layer.
	TypeActivations

	// TypeActivationGradients are the gradients with respect to the inputs, training only.
	TypeActivationGradients

	// TypeUpdaterState is the state of the updater (e.g. Adam moments), training only.
	TypeUpdaterState

	// TypeWorkingMemoryFixed is the scratch memory used while computing a layer, independent of the minibatch size.
	TypeWorkingMemoryFixed

	// TypeWorkingMemoryVariable is the scratch memory per example.
	TypeWorkingMemoryVariable

	// TypeCachedMemoryFixed is the memory kept between forward and backward passes, independent of
	// the minibatch size. Training only.
	TypeCachedMemoryFixed

	// TypeCachedMemoryVariable is the cached memory per example. Training only.
	TypeCachedMemoryVariable
)

//go:generate go tool enumer -type=Type -trimprefix=Type -transform=snake -values -text -json -output=gen_type_enumer.go memory.go

// IsInference returns whether the memory category is used during inference.
func (t Type) IsInference() bool {
	switch t {
	case TypeParameters, TypeActivations, TypeWorkingMemoryFixed, TypeWorkingMemoryVariable:
		return true
	default:
		return false
	}
}

// UseCase of the network when evaluating a Report.
type UseCase int

const (
	UseCaseTraining UseCase = iota
	UseCaseInference
)

//go:generate go tool enumer -type=UseCase -trimprefix=UseCase -transform=snake -values -text -json -output=gen_usecase_enumer.go memory.go

// CacheMode configures where the intermediary values kept for the backward pass are stored.
type CacheMode int

const (
	CacheModeNone CacheMode = iota
	CacheModeHost
	CacheModeDevice
)

//go:generate go tool enumer -type=CacheMode -trimprefix=CacheMode -transform=snake -values -text -json -output=gen_cachemode_enumer.go memory.go

// Report is a memory estimate for a layer or for a network.
//
// Concrete reports are LayerReport (tag "layer") and NetworkReport (tag "network"), and they
// can be serialized with polymorphicjson.Wrapper[Report].
type Report interface {
	polymorphicjson.JSONIdentifiable

	// Name of the layer or network.
	Name() string

	// Elements returns the number of array elements of the given memory type.
	Elements(t Type, minibatch int, useCase UseCase, cacheMode CacheMode) int64

	// Bytes returns the memory in bytes of the given memory type, for arrays of the given dtype.
	Bytes(t Type, minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) int64

	// TotalBytes returns the memory in bytes summed over all memory types.
	TotalBytes(minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) int64

	// BytesByType returns the memory in bytes for each memory type.
	BytesByType(minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) map[Type]int64
}

// Interface name used in polymorphic JSON encoding.
const Interface = "MemoryReport"

func init() {
	polymorphicjson.Register(func() Report { return &LayerReport{} })
	polymorphicjson.Register(func() Report { return &NetworkReport{} })
}

// Wrapper holds a Report for JSON serialization.
type Wrapper = polymorphicjson.Wrapper[Report]

func bytesOf(elements int64, dtype dtypes.DType) int64 {
	return elements * int64(dtype.Memory())
}

func totalBytes(r Report, minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) int64 {
	var total int64
	for _, t := range TypeValues() {
		total += r.Bytes(t, minibatch, useCase, cacheMode, dtype)
	}
	return total
}

func bytesByType(r Report, minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) map[Type]int64 {
	byType := make(map[Type]int64, len(TypeValues()))
	for _, t := range TypeValues() {
		byType[t] = r.Bytes(t, minibatch, useCase, cacheMode, dtype)
	}
	return byType
}
