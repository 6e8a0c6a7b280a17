// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"os"
	"strconv"
)

// LossTracker accumulates per-epoch loss values and appends them to a
// file every interval values. The file format is comma-separated with
// a leading comma per flush, which is what downstream plotting
// scripts expect.
type LossTracker struct {
	path     string
	interval int
	history  []float64
}

func NewLossTracker(path string, interval int) *LossTracker {
	if interval < 1 {
		interval = 100
	}
	return &LossTracker{path: path, interval: interval}
}

// Add records one loss value, flushing to disk when the in-memory
// history reaches the tracker's interval.
func (lt *LossTracker) Add(loss float64) error {
	lt.history = append(lt.history, loss)
	if len(lt.history) >= lt.interval {
		return lt.Flush()
	}
	return nil
}

// Flush appends the buffered history to the tracker's file and resets
// the buffer. Flushing an empty buffer is a no-op.
func (lt *LossTracker) Flush() error {
	if len(lt.history) == 0 {
		return nil
	}
	f, err := os.OpenFile(lt.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(lt.history)*8)
	for _, v := range lt.history {
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	_, err = f.Write(buf)
	if err != nil {
		f.Close()
		return err
	}
	lt.history = lt.history[:0]
	return f.Close()
}

// Len returns the number of unflushed loss values.
func (lt *LossTracker) Len() int { return len(lt.history) }

// Current returns the most recently added loss value; ok is false if
// nothing has been added since the last flush.
func (lt *LossTracker) Current() (loss float64, ok bool) {
	if len(lt.history) == 0 {
		return 0, false
	}
	return lt.history[len(lt.history)-1], true
}
