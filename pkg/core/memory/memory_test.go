// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package memory

import (
	"encoding/json"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func denseReport() *LayerReport {
	return NewLayerReport("dense", "Dense",
		[]inputtype.InputType{inputtype.FeedForward(4)}, inputtype.FeedForward(3)).
		StandardMemory(15, 30).
		WorkingMemory(0, 2, 0, 5).
		CacheMemory(1, 3).
		Done()
}

func TestLayerReport(t *testing.T) {
	r := denseReport()
	const batch = 10

	// Inference.
	require.Equal(t, int64(15), r.Elements(TypeParameters, batch, UseCaseInference, CacheModeNone))
	require.Zero(t, r.Elements(TypeParameterGradients, batch, UseCaseInference, CacheModeNone))
	require.Zero(t, r.Elements(TypeUpdaterState, batch, UseCaseInference, CacheModeNone))
	require.Zero(t, r.Elements(TypeActivationGradients, batch, UseCaseInference, CacheModeNone))
	require.Equal(t, int64(30), r.Elements(TypeActivations, batch, UseCaseInference, CacheModeNone))
	require.Equal(t, int64(20), r.Elements(TypeWorkingMemoryVariable, batch, UseCaseInference, CacheModeNone))
	require.Zero(t, r.Elements(TypeCachedMemoryVariable, batch, UseCaseInference, CacheModeDevice))

	// Training.
	require.Equal(t, int64(15), r.Elements(TypeParameterGradients, batch, UseCaseTraining, CacheModeNone))
	require.Equal(t, int64(30), r.Elements(TypeUpdaterState, batch, UseCaseTraining, CacheModeNone))
	require.Equal(t, int64(40), r.Elements(TypeActivationGradients, batch, UseCaseTraining, CacheModeNone))
	require.Equal(t, int64(50), r.Elements(TypeWorkingMemoryVariable, batch, UseCaseTraining, CacheModeHost))
	require.Zero(t, r.Elements(TypeCachedMemoryFixed, batch, UseCaseTraining, CacheModeNone))
	require.Equal(t, int64(1), r.Elements(TypeCachedMemoryFixed, batch, UseCaseTraining, CacheModeDevice))
	require.Equal(t, int64(30), r.Elements(TypeCachedMemoryVariable, batch, UseCaseTraining, CacheModeDevice))

	// Bytes.
	require.Equal(t, int64(60), r.Bytes(TypeParameters, batch, UseCaseInference, CacheModeNone, dtypes.Float32))
	inference := r.TotalBytes(batch, UseCaseInference, CacheModeNone, dtypes.Float32)
	require.Equal(t, int64(4*(15+30+20)), inference)
	training := r.TotalBytes(batch, UseCaseTraining, CacheModeNone, dtypes.Float64)
	require.Equal(t, int64(8*(15+15+30+40+30+50)), training)

	byType := r.BytesByType(batch, UseCaseInference, CacheModeNone, dtypes.Float32)
	require.Len(t, byType, len(TypeValues()))
	require.Equal(t, int64(120), byType[TypeActivations])
}

func TestLayerReportDefaults(t *testing.T) {
	r := NewLayerReport("scale", "ScaleVertex",
		[]inputtype.InputType{inputtype.FeedForward(2)}, inputtype.FeedForward(2)).Done()
	for _, mode := range CacheModeValues() {
		require.Zero(t, r.Elements(TypeWorkingMemoryFixed, 3, UseCaseTraining, mode))
		require.Zero(t, r.Elements(TypeCachedMemoryVariable, 3, UseCaseTraining, mode))
	}
	require.Equal(t, int64(4*6), r.TotalBytes(3, UseCaseInference, CacheModeNone, dtypes.Float32))
}

func TestNetworkReport(t *testing.T) {
	layer0 := denseReport()
	layer1 := denseReport().WithName("dense2")
	net := &NetworkReport{NetworkName: "net", Layers: []*LayerReport{layer0, layer1}}
	require.Equal(t, int64(30), net.NumParams())
	require.Same(t, layer1, net.Layer("dense2"))
	require.Nil(t, net.Layer("missing"))
	require.Equal(t, 2*layer0.TotalBytes(7, UseCaseTraining, CacheModeHost, dtypes.Float32),
		net.TotalBytes(7, UseCaseTraining, CacheModeHost, dtypes.Float32))
	require.Equal(t, "dense", layer0.LayerName, "WithName must not change the original")
}

func TestReportJSON(t *testing.T) {
	net := &NetworkReport{
		NetworkName: "net",
		InputNames:  []string{"in"},
		InputTypes:  map[string]inputtype.InputType{"in": inputtype.FeedForward(4)},
		Layers:      []*LayerReport{denseReport()},
	}
	data, err := json.Marshal(Wrapper{Value: net})
	require.NoError(t, err)

	var loaded Wrapper
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.IsType(t, &NetworkReport{}, loaded.Value)
	require.Equal(t, net, loaded.Value)

	var mode CacheMode
	require.NoError(t, json.Unmarshal([]byte(`"device"`), &mode))
	require.Equal(t, CacheModeDevice, mode)
	require.Equal(t, "working_memory_variable", TypeWorkingMemoryVariable.String())
}
