// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package listeners defines Listener, an observer of the nodes of an instantiated graph, and
// some implementations: Logging (klog), Progress (a command-line progress bar) and Recorder.
package listeners

import (
	"slices"
	"sync"

	"github.com/gomlx/compgraph/pkg/core/tensors"
	"k8s.io/klog/v2"
)

// Listener observes the nodes of a graph.
//
// OnInstantiate may be called concurrently, for different nodes, while a graph is being instantiated.
// OnForward and IterationDone are called sequentially during forward passes.
type Listener interface {
	// OnInstantiate is called once a node is fully bound to its parameters.
	OnInstantiate(name string, index int, numParams int)

	// OnForward is called after a node computes its output.
	OnForward(name string, index int, output *tensors.Tensor)

	// IterationDone is called after each complete forward pass of the graph.
	IterationDone(iteration int)
}

// Base implements Listener with no-ops. Embed it to implement only some of the methods.
type Base struct{}

var _ Listener = Base{}

func (Base) OnInstantiate(string, int, int)         {}
func (Base) OnForward(string, int, *tensors.Tensor) {}
func (Base) IterationDone(int)                      {}

// Logging logs instantiation (klog verbosity 1), node outputs (verbosity 2) and every
// Every iterations (always).
type Logging struct {
	Base

	// Every is the period, in iterations, of the logs. If <= 0 iterations are not logged.
	Every int
}

var _ Listener = (*Logging)(nil)

// OnInstantiate implements Listener.
func (l *Logging) OnInstantiate(name string, index int, numParams int) {
	klog.V(1).Infof("instantiated vertex #%d %q with %d parameters", index, name, numParams)
}

// OnForward implements Listener.
func (l *Logging) OnForward(name string, index int, output *tensors.Tensor) {
	if klog.V(2).Enabled() {
		klog.Infof("vertex #%d %q output shape %s", index, name, output.Shape())
	}
}

// IterationDone implements Listener.
func (l *Logging) IterationDone(iteration int) {
	if l.Every > 0 && iteration%l.Every == 0 {
		klog.Infof("completed iteration %d", iteration)
	}
}

// Event recorded by a Recorder.
type Event struct {
	Kind      string // "instantiate", "forward" or "iteration".
	Name      string
	Index     int
	NumParams int
	Iteration int
}

// Recorder records every event, safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Listener = (*Recorder)(nil)

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// OnInstantiate implements Listener.
func (r *Recorder) OnInstantiate(name string, index int, numParams int) {
	r.add(Event{Kind: "instantiate", Name: name, Index: index, NumParams: numParams})
}

// OnForward implements Listener.
func (r *Recorder) OnForward(name string, index int, _ *tensors.Tensor) {
	r.add(Event{Kind: "forward", Name: name, Index: index})
}

// IterationDone implements Listener.
func (r *Recorder) IterationDone(iteration int) {
	r.add(Event{Kind: "iteration", Iteration: iteration})
}

// Events returns a copy of the events recorded so far, optionally filtered by kind.
func (r *Recorder) Events(kind string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind == "" {
		return slices.Clone(r.events)
	}
	var filtered []Event
	for _, e := range r.events {
		if e.Kind == kind {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
