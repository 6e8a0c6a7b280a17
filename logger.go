// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// runID returns a timestamp-based identifier for one invocation, used
// to name per-run artifacts such as log files.
func runID() string {
	return strings.Replace(time.Now().Format("2006-01-02 150405.000000"), " ", "", 1)
}

// newRunLogger returns a logger scoped to a single run. It writes to
// stderr and, if logdir is non-empty, also to a fresh
// stcount-<runID>.log file in logdir. The returned closer closes the
// log file, if any.
func newRunLogger(stderr io.Writer, logdir string) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetOutput(stderr)
	if logdir == "" {
		return logger, nopCloser{nil}, nil
	}
	path := filepath.Join(logdir, "stcount-"+runID()+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(stderr, f))
	return logger, f, nil
}
