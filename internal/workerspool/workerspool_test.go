// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package workerspool

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	for _, parallelism := range []int{-1, 0, 1, 3} {
		t.Run(fmt.Sprintf("parallelism=%d", parallelism), func(t *testing.T) {
			pool := New().SetMaxParallelism(parallelism)
			results := make([]int, 20)
			require.NoError(t, pool.Run(len(results), func(i int) error {
				results[i] = i * i
				return nil
			}))
			for i, r := range results {
				require.Equal(t, i*i, r)
			}
		})
	}
}

func TestRunLimitsParallelism(t *testing.T) {
	const limit = 2
	pool := New().SetMaxParallelism(limit)
	var running, maxRunning atomic.Int32
	require.NoError(t, pool.Run(10, func(int) error {
		current := running.Add(1)
		for {
			seen := maxRunning.Load()
			if current <= seen || maxRunning.CompareAndSwap(seen, current) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return nil
	}))
	require.LessOrEqual(t, int(maxRunning.Load()), limit)
	require.Zero(t, running.Load())
}

func TestRunErrors(t *testing.T) {
	pool := New()
	var count atomic.Int32
	err := pool.Run(8, func(i int) error {
		count.Add(1)
		if i == 5 || i == 3 {
			return fmt.Errorf("task %d failed", i)
		}
		return nil
	})
	require.EqualError(t, err, "task 3 failed")
	require.Equal(t, int32(8), count.Load(), "all tasks run even if some fail")
}
