// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package listeners

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// ProgressbarStyle to use. Defaults to the ASCII version.
// Consider "progressbar.ThemeUnicode" for a prettier version.
var ProgressbarStyle = progressbar.ThemeASCII

// Progress displays a progress bar over a known number of forward passes.
type Progress struct {
	Base
	bar        *progressbar.ProgressBar
	iterations int
	numNodes   atomic.Int64
	numParams  atomic.Int64
}

var _ Listener = (*Progress)(nil)

// NewProgress creates a progress bar for numIterations forward passes, written to w.
func NewProgress(numIterations int, w io.Writer) *Progress {
	return &Progress{
		bar: progressbar.NewOptions(numIterations,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("forward"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("passes"),
			progressbar.OptionSetTheme(ProgressbarStyle),
		),
	}
}

// OnInstantiate implements Listener.
func (p *Progress) OnInstantiate(_ string, _ int, numParams int) {
	p.numNodes.Add(1)
	p.numParams.Add(int64(numParams))
}

// IterationDone implements Listener.
func (p *Progress) IterationDone(int) {
	p.iterations++
	p.bar.Describe(fmt.Sprintf("forward (%s vertices, %s params)",
		humanize.Comma(p.numNodes.Load()), humanize.Comma(p.numParams.Load())))
	_ = p.bar.Add(1)
}

// Iterations returns the number of forward passes completed.
func (p *Progress) Iterations() int { return p.iterations }

// NumParams returns the total number of parameters of the instantiated nodes observed.
func (p *Progress) NumParams() int64 { return p.numParams.Load() }

// Finish completes the progress bar.
func (p *Progress) Finish() error {
	return p.bar.Finish()
}
