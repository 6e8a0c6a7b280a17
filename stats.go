// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"gonum.org/v1/gonum/stat"
)

type statscmd struct{}

type matrixStats struct {
	Path               string
	Samples            int
	Genes              int
	TotalCount         float64
	MeanCountPerSample float64
	ZeroFraction       float64
	Digest             string
}

func (cmd *statscmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
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

	infiles := flags.Args()
	ret := make([]matrixStats, len(infiles))
	throttle := throttle{Max: 8}
	for i, path := range infiles {
		i, path := i, path
		throttle.Acquire()
		go func() {
			defer throttle.Release()
			m, err := ReadCountMatrix(path)
			if err != nil {
				throttle.Report(err)
				return
			}
			st, err := countMatrixStats(path, m)
			if err != nil {
				throttle.Report(err)
				return
			}
			ret[i] = st
		}()
	}
	err = throttle.Wait()
	if err != nil {
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	err = enc.Encode(ret)
	if err != nil {
		return 1
	}
	return 0
}

func countMatrixStats(path string, m *CountMatrix) (matrixStats, error) {
	nsamples, ngenes := m.Dims()
	rowtotal := make([]float64, nsamples)
	zeros := 0
	for i := 0; i < nsamples; i++ {
		for j := 0; j < ngenes; j++ {
			v := m.Counts.At(i, j)
			rowtotal[i] += v
			if v == 0 {
				zeros++
			}
		}
	}
	total := 0.0
	for _, t := range rowtotal {
		total += t
	}

	// Digest of the serialized table. Two matrices with equal
	// labels and values have equal digests, so a deterministic
	// pipeline can be verified file-to-file.
	h, err := blake2b.New256(nil)
	if err != nil {
		return matrixStats{}, err
	}
	err = writeCountMatrix(m, h)
	if err != nil {
		return matrixStats{}, err
	}

	return matrixStats{
		Path:               path,
		Samples:            nsamples,
		Genes:              ngenes,
		TotalCount:         total,
		MeanCountPerSample: stat.Mean(rowtotal, nil),
		ZeroFraction:       float64(zeros) / float64(nsamples*ngenes),
		Digest:             hex.EncodeToString(h.Sum(nil)),
	}, nil
}
