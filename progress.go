// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"fmt"
	"io"
	"strings"
)

// ProgressBar draws a single-line console progress bar, redrawn in
// place with ANSI escapes. Quiet mode (and max < 1) disables output
// entirely, so callers never need to guard their Update calls.
type ProgressBar struct {
	out     io.Writer
	max     int
	width   int
	symbol  string
	quiet   bool
	ndigits int
}

// NewProgressBar returns a bar expecting max steps. Callers decide
// quiet (typically: user flag, or stderr is not a terminal).
func NewProgressBar(out io.Writer, max int, quiet bool) *ProgressBar {
	return &ProgressBar{
		out:     out,
		max:     max,
		width:   20,
		symbol:  "=",
		quiet:   quiet || max < 1,
		ndigits: len(fmt.Sprintf("%d", max)),
	}
}

// Update redraws the bar after step (0-based) completes, with a short
// status such as the current file or the current loss.
func (pb *ProgressBar) Update(step int, status string) {
	if pb.quiet {
		return
	}
	done := step + 1
	if done > pb.max {
		done = pb.max
	}
	fill := pb.width * done / pb.max
	fmt.Fprintf(pb.out, "\r%*d/%d \x1b[1;37m[\x1b[0;36m%-*s\x1b[1;37m]\x1b[0m %s",
		pb.ndigits, done, pb.max, pb.width, strings.Repeat(pb.symbol, fill), status)
}

// Done terminates the bar's line.
func (pb *ProgressBar) Done() {
	if pb.quiet {
		return
	}
	fmt.Fprintln(pb.out)
}
