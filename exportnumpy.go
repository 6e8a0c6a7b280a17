// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
)

type exportNumpy struct{}

func (cmd *exportNumpy) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "-", "input `file` (.tsv or .tsv.gz)")
	outputFilename := flags.String("o", "-", "output `file` (.npy)")
	labelsFilename := flags.String("output-labels", "", "also write sample labels to `file` (csv)")
	genesFilename := flags.String("output-genes", "", "also write gene names to `file` (csv)")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}

	var m *CountMatrix
	if *inputFilename == "-" {
		m, err = readCountMatrix(stdin)
	} else {
		m, err = ReadCountMatrix(*inputFilename)
	}
	if err != nil {
		return 1
	}
	rows, cols := m.Dims()
	log.Printf("exporting %d rows, %d cols", rows, cols)

	out := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[i*cols+j] = m.Counts.At(i, j)
		}
	}

	var output io.WriteCloser
	if *outputFilename == "-" {
		output = nopCloser{stdout}
	} else {
		output, err = os.OpenFile(*outputFilename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0777)
		if err != nil {
			return 1
		}
		defer output.Close()
	}
	bufw := bufio.NewWriter(output)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return 1
	}
	npw.Shape = []int{rows, cols}
	err = npw.WriteFloat64(out)
	if err != nil {
		return 1
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}

	if *labelsFilename != "" {
		err = writeLabelsCSV(*labelsFilename, m.SampleIDs)
		if err != nil {
			return 1
		}
	}
	if *genesFilename != "" {
		err = writeLabelsCSV(*genesFilename, m.Genes)
		if err != nil {
			return 1
		}
	}
	return 0
}

func writeLabelsCSV(path string, labels []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for i, label := range labels {
		fmt.Fprintf(w, "%d,%q\n", i, label)
	}
	err = w.Flush()
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: write: %w", path, err)
	}
	return f.Close()
}
