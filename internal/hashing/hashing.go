// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package hashing builds structural hashes of configuration values, compatible with their Equal methods.
package hashing

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// Hasher accumulates fields into a 64-bit FNV-1a hash.
type Hasher struct {
	h   hash.Hash64
	buf [8]byte
}

// New returns a Hasher seeded with the type tag of the value being hashed, so values of
// different kinds with the same fields hash differently.
func New(tag string) *Hasher {
	h := &Hasher{h: fnv.New64a()}
	return h.String(tag)
}

// String adds s, prefixed by its length.
func (h *Hasher) String(s string) *Hasher {
	h.Int(len(s))
	_, _ = h.h.Write([]byte(s))
	return h
}

// Int adds an integer.
func (h *Hasher) Int(v int) *Hasher {
	return h.Uint64(uint64(v))
}

// Ints adds a slice of integers, prefixed by its length.
func (h *Hasher) Ints(values []int) *Hasher {
	h.Int(len(values))
	for _, v := range values {
		h.Int(v)
	}
	return h
}

// Bool adds a boolean.
func (h *Hasher) Bool(v bool) *Hasher {
	if v {
		return h.Uint64(1)
	}
	return h.Uint64(0)
}

// Float adds a float64. 0 and -0 hash the same, since they compare equal.
func (h *Hasher) Float(v float64) *Hasher {
	if v == 0 {
		v = 0
	}
	return h.Uint64(math.Float64bits(v))
}

// Uint64 adds a raw 64-bit value, for instance the hash of a nested value.
func (h *Hasher) Uint64(v uint64) *Hasher {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.h.Write(h.buf[:])
	return h
}

// Sum returns the hash of everything added so far.
func (h *Hasher) Sum() uint64 {
	return h.h.Sum64()
}
