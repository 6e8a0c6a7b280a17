// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

type joincmd struct{}

func (cmd *joincmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	outputFilename := flags.String("o", "-", "output `file` for the joint matrix (.tsv or .tsv.gz)")
	logDir := flags.String("log-dir", "", "also write log to a run-stamped file in `directory`")
	loglevel := flags.String("loglevel", "info", "logging threshold (trace, debug, info, warn, error, fatal, or panic)")
	quiet := flags.Bool("quiet", false, "suppress console progress bar")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	logger, closer, err := newRunLogger(stderr, *logDir)
	if err != nil {
		return 1
	}
	defer closer.Close()
	lvl, err := logrus.ParseLevel(*loglevel)
	if err != nil {
		return 2
	}
	logger.SetLevel(lvl)

	infiles := flags.Args()
	bar := NewProgressBar(stderr, len(infiles), *quiet || !isTerminal(stderr))
	mtxs := make([]*CountMatrix, len(infiles))
	for i, path := range infiles {
		mtxs[i], err = ReadCountMatrix(path)
		if err != nil {
			return 1
		}
		nsamples, ngenes := mtxs[i].Dims()
		logger.Debugf("%s: %d samples, %d genes", path, nsamples, ngenes)
		bar.Update(i, path)
	}
	bar.Done()

	joint, err := Join(mtxs)
	if err != nil {
		return 1
	}
	nsamples, ngenes := joint.Dims()
	logger.Infof("joined %d matrices: %d samples, %d genes", len(mtxs), nsamples, ngenes)

	if *outputFilename == "-" {
		err = writeCountMatrix(joint, stdout)
	} else {
		err = WriteCountMatrix(joint, *outputFilename)
	}
	if err != nil {
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
