// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

// ErrUnsupportedFormat means a path's extension is not one of the
// recognized table formats (.tsv, .tsv.gz, .gz).
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadCountMatrix reads a tab-separated count matrix: header row of
// gene names (leading cell is the index name and is ignored), then
// one row per sample with the sample ID in column 0. Paths ending in
// .gz are gzip-decompressed.
func ReadCountMatrix(path string) (*CountMatrix, error) {
	gz := strings.HasSuffix(path, ".gz")
	if !gz && !strings.HasSuffix(path, ".tsv") {
		return nil, fmt.Errorf("%s: %w (supported: .tsv, .tsv.gz)", path, ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var in io.Reader = f
	if gz {
		gzr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gzr.Close()
		in = gzr
	}
	m, err := readCountMatrix(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func readCountMatrix(in io.Reader) (*CountMatrix, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(nil, 1<<28)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty table")
	}
	header := strings.Split(scanner.Text(), "\t")
	genes := header[1:]

	var ids []string
	var counts []float64
	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != len(genes)+1 {
			return nil, fmt.Errorf("line %d: %d fields, expected %d", line, len(fields), len(genes)+1)
		}
		ids = append(ids, fields[0])
		for _, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", line, err)
			}
			counts = append(counts, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewCountMatrix(ids, genes, counts)
}

// WriteCountMatrix writes m in the tab-separated layout ReadCountMatrix
// reads, gzip-compressed if path ends in .gz.
func WriteCountMatrix(m *CountMatrix, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0777)
	if err != nil {
		return err
	}
	defer f.Close()
	bufw := bufio.NewWriter(f)
	var out io.Writer = bufw
	var gzw *pgzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gzw = pgzip.NewWriter(bufw)
		out = gzw
	}
	err = writeCountMatrix(m, out)
	if err == nil && gzw != nil {
		err = gzw.Close()
	}
	if err == nil {
		err = bufw.Flush()
	}
	if err == nil {
		err = f.Close()
	}
	if err != nil {
		return fmt.Errorf("%s: write: %w", path, err)
	}
	return nil
}

func writeCountMatrix(m *CountMatrix, out io.Writer) error {
	w := bufio.NewWriter(out)
	for _, g := range m.Genes {
		w.WriteByte('\t')
		w.WriteString(g)
	}
	w.WriteByte('\n')
	for i, id := range m.SampleIDs {
		w.WriteString(id)
		for j := range m.Genes {
			w.WriteByte('\t')
			w.WriteString(strconv.FormatFloat(m.Counts.At(i, j), 'g', -1, 64))
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}
