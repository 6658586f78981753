// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/compgraph"
	"github.com/gomlx/compgraph/pkg/ml/listeners"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/ml/vertex"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func printSummary(path string, conf *compgraph.Config) {
	fmt.Println(titleStyle.Render("Summary"))
	table := newTable(lipgloss.Right, lipgloss.Left)
	table.Row("file", path)
	table.Row("inputs", strings.Join(conf.Inputs, ", "))
	table.Row("outputs", strings.Join(conf.Outputs, ", "))
	table.Row("# vertices", humanize.Comma(int64(len(conf.Vertices))))
	table.Row("# parameters (inference)", humanize.Comma(int64(conf.NumParams(false))))
	table.Row("# parameters (training)", humanize.Comma(int64(conf.NumParams(true))))
	table.Row("settings", "\n"+netconf.SprintSettings(conf.NetConf))
	fmt.Println(table.Render())
}

func printTypes(conf *compgraph.Config) error {
	order, err := conf.TopologicalOrder()
	if err != nil {
		return err
	}
	types, err := conf.OutputTypes()
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("Types"))
	table := newTable(lipgloss.Right, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Right).
		Headers("#", "name", "kind", "output type", "# params")
	var index int
	for ii, name := range conf.Inputs {
		table.Row("", name, "input", conf.InputTypes[ii].String(), "")
	}
	for _, name := range order {
		v := conf.Vertex(name)
		if v == nil {
			continue
		}
		table.Row(fmt.Sprint(index), name, vertex.Kind(v), types[name].String(),
			humanize.Comma(int64(v.NumParams(true))))
		index++
	}
	fmt.Println(table.Render())
	return nil
}

func printMemory(conf *compgraph.Config, batchSize int, useCase memory.UseCase, cacheMode memory.CacheMode) error {
	report, err := conf.MemoryReport()
	if err != nil {
		return err
	}
	dtype := conf.NetConf.DType
	fmt.Println(titleStyle.Render(fmt.Sprintf("Memory: %s, batch=%d, cache=%s, dtype=%s", useCase, batchSize, cacheMode, dtype)))

	table := newTable(lipgloss.Left, lipgloss.Left, lipgloss.Right).Headers("vertex", "kind", "bytes")
	for _, layer := range report.Layers {
		table.Row(layer.LayerName, layer.LayerKind,
			humanize.Bytes(uint64(layer.TotalBytes(batchSize, useCase, cacheMode, dtype))))
	}
	table.Row("total", "", humanize.Bytes(uint64(report.TotalBytes(batchSize, useCase, cacheMode, dtype))))
	fmt.Println(table.Render())

	byType := report.BytesByType(batchSize, useCase, cacheMode, dtype)
	table = newTable(lipgloss.Right, lipgloss.Right).Headers("memory type", "bytes")
	for _, t := range memory.TypeValues() {
		table.Row(t.String(), humanize.Bytes(uint64(byType[t])))
	}
	fmt.Println(table.Render())
	return nil
}

// syntheticInputs returns deterministic values for each graph input, shaped by its type.
func syntheticInputs(conf *compgraph.Config, batchSize int) []*tensors.Tensor {
	inputs := make([]*tensors.Tensor, len(conf.Inputs))
	for ii, inputType := range conf.InputTypes {
		t := tensors.Zeros(append([]int{batchSize}, inputType.Dimensions()...)...)
		for jj := range t.Flat() {
			t.Flat()[jj] = math.Sin(float64(ii + jj))
		}
		inputs[ii] = t
	}
	return inputs
}

func runForward(conf *compgraph.Config, batchSize, numPasses int) error {
	if len(conf.InputTypes) == 0 {
		return errors.New("input types are required to generate synthetic inputs")
	}
	progress := listeners.NewProgress(numPasses, os.Stderr)
	ls := []listeners.Listener{progress}
	if klog.V(1).Enabled() {
		ls = append(ls, &listeners.Logging{Every: 1})
	}
	g, err := conf.Init(nil, true, ls...)
	if err != nil {
		return err
	}
	inputs := syntheticInputs(conf, batchSize)
	var outputs []*tensors.Tensor
	for range numPasses {
		outputs, err = g.Output(inputs, nil)
		if err != nil {
			return err
		}
	}
	if err = progress.Finish(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(titleStyle.Render("Outputs"))
	table := newTable(lipgloss.Right, lipgloss.Left).Headers("output", "shape")
	for ii, name := range conf.Outputs {
		table.Row(name, outputs[ii].Shape().String())
	}
	fmt.Println(table.Render())
	return nil
}
