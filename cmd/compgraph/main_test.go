// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

const siameseGraph = "../../pkg/ml/compgraph/testdata/siamese.json"

func TestReports(t *testing.T) {
	conf := must.M1(load(siameseGraph))
	require.NoError(t, printTypes(conf))
	require.NoError(t, printMemory(conf, 8, memory.UseCaseTraining, memory.CacheModeDevice))
	require.NoError(t, runForward(conf, 4, 3))

	_, err := load("missing.json")
	require.Error(t, err)
}

func TestSave(t *testing.T) {
	conf := must.M1(load(siameseGraph))
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, save(conf, path, false))
	require.ErrorContains(t, save(conf, path, false), "already exists")
	require.NoError(t, save(conf, path, true))
	loaded := must.M1(load(path))
	require.True(t, conf.Equal(loaded))
}

func TestSyntheticInputs(t *testing.T) {
	conf := must.M1(load(siameseGraph))
	inputs := syntheticInputs(conf, 5)
	require.Len(t, inputs, 2)
	require.Equal(t, []int{5, 3}, inputs[1].Dimensions())
	require.Zero(t, inputs[0].Flat()[0])
	require.NotEqual(t, inputs[0].Flat(), inputs[1].Flat())
}
