// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package listeners

import (
	"bytes"
	"sync"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	var wg sync.WaitGroup
	for ii := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.OnInstantiate("v", ii, ii)
		}()
	}
	wg.Wait()
	r.OnForward("v", 0, tensors.Zeros(1, 2))
	r.IterationDone(1)
	require.Len(t, r.Events("instantiate"), 10)
	require.Len(t, r.Events("forward"), 1)
	require.Equal(t, []Event{{Kind: "iteration", Iteration: 1}}, r.Events("iteration"))
	require.Len(t, r.Events(""), 12)
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(3, &buf)
	p.OnInstantiate("a", 0, 1000)
	p.OnInstantiate("b", 1, 500)
	for ii := range 3 {
		p.IterationDone(ii)
	}
	require.NoError(t, p.Finish())
	require.Equal(t, 3, p.Iterations())
	require.Equal(t, int64(1500), p.NumParams())
	require.Contains(t, buf.String(), "1,500 params")
}

func TestLogging(t *testing.T) {
	var l Listener = &Logging{Every: 2}
	l.OnInstantiate("a", 0, 10)
	l.OnForward("a", 0, tensors.Zeros(1, 1))
	l.IterationDone(2)
}
