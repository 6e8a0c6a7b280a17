// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type splitcmd struct{}

func (cmd *splitcmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "-", "input `file` (joint matrix)")
	outputDir := flags.String("output-dir", ".", "output `directory`")
	gz := flags.Bool("gz", false, "gzip output files")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}

	var joint *CountMatrix
	if *inputFilename == "-" {
		joint, err = readCountMatrix(stdin)
	} else {
		joint, err = ReadCountMatrix(*inputFilename)
	}
	if err != nil {
		return 1
	}

	mtxs, err := Split(joint)
	if err != nil {
		return 1
	}

	err = os.MkdirAll(*outputDir, 0777)
	if err != nil {
		return 1
	}
	for i, m := range mtxs {
		path := filepath.Join(*outputDir, fmt.Sprintf("matrix.%d.tsv", i))
		if *gz {
			path += ".gz"
		}
		err = WriteCountMatrix(m, path)
		if err != nil {
			return 1
		}
		fmt.Fprintln(stdout, path)
	}
	return 0
}
