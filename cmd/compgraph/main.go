// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// compgraph loads a computation graph configuration (JSON), validates it, and reports its
// types, parameters and memory usage. Optionally it instantiates the graph and runs forward
// passes over synthetic inputs.
//
// Usage:
//
//	compgraph [flags] <graph.json>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/ml/compgraph"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/support/fsutil"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagTypes     = flag.Bool("types", true, "Display the output type of every vertex.")
	flagMemory    = flag.Bool("memory", false, "Display the memory report of the graph.")
	flagBatchSize = flag.Int("batch", 32, "Minibatch size used in the memory report and in forward passes.")
	flagTraining  = flag.Bool("training", false, "Memory report for training, instead of inference.")
	flagCacheMode = flag.String("cache_mode", memory.CacheModeNone.String(),
		fmt.Sprintf("Cache mode used in the memory report, one of %v.", memory.CacheModeStrings()))
	flagForward   = flag.Int("forward", 0, "If > 0, instantiate the graph and run this number of forward passes over synthetic inputs.")
	flagSave      = flag.String("save", "", "If set, save the configuration, with the settings applied, to this file.")
	flagOverwrite = flag.Bool("overwrite", false, "Allow -save to overwrite an existing file.")

	// settings are applied to the network configuration loaded, and not to the defaults displayed in the usage.
	settings = netconf.CreateSettingsFlag(netconf.New(), "set")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		klog.Errorf("Expected exactly one graph configuration file. See 'compgraph -help'.")
		os.Exit(1)
	}
	conf := must.M1(load(args[0]))
	if *settings != "" {
		keys, err := netconf.ParseSettings(conf.NetConf, *settings)
		if err != nil {
			klog.Fatalf("Failed to parse -set=%q: %+v", *settings, err)
		}
		klog.V(1).Infof("Settings changed: %v", keys)
	}
	if err := conf.Validate(); err != nil {
		klog.Fatalf("Invalid graph %q: %+v", args[0], err)
	}

	printSummary(args[0], conf)
	if *flagTypes && len(conf.InputTypes) > 0 {
		must.M(printTypes(conf))
	}
	if *flagMemory {
		cacheMode, err := memory.CacheModeString(*flagCacheMode)
		if err != nil {
			klog.Fatalf("Invalid -cache_mode=%q: %v", *flagCacheMode, err)
		}
		useCase := memory.UseCaseInference
		if *flagTraining {
			useCase = memory.UseCaseTraining
		}
		must.M(printMemory(conf, *flagBatchSize, useCase, cacheMode))
	}
	if *flagForward > 0 {
		must.M(runForward(conf, *flagBatchSize, *flagForward))
	}
	if *flagSave != "" {
		must.M(save(conf, *flagSave, *flagOverwrite))
		klog.Infof("Configuration saved to %q", *flagSave)
	}
}

// load reads the graph configuration.
func load(path string) (*compgraph.Config, error) {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compgraph.FromJSON(data)
}

// save writes the graph configuration, refusing to replace an existing file unless overwrite is set.
func save(conf *compgraph.Config, path string, overwrite bool) error {
	path, err := fsutil.ReplaceTildeInDir(path)
	if err != nil {
		return err
	}
	exists, err := fsutil.FileExists(path)
	if err != nil {
		return err
	}
	if exists && !overwrite {
		return errors.Errorf("file %q already exists, use -overwrite to replace it", path)
	}
	data, err := conf.ToJSON()
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "failed to save configuration to %q", path)
}
