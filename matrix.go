// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CountMatrix is a labeled samples-by-genes count table: one row per
// spatial spot or cell, one column per gene. Sample IDs keep their
// input order and may repeat; gene names must be unique.
type CountMatrix struct {
	SampleIDs []string
	Genes     []string
	Counts    *mat.Dense
}

// NewCountMatrix builds a CountMatrix from row-major counts data.
func NewCountMatrix(sampleIDs, genes []string, counts []float64) (*CountMatrix, error) {
	if len(sampleIDs) == 0 {
		return nil, fmt.Errorf("count matrix has no samples")
	}
	if len(genes) == 0 {
		return nil, fmt.Errorf("count matrix has no genes")
	}
	if len(counts) != len(sampleIDs)*len(genes) {
		return nil, fmt.Errorf("count matrix shape mismatch: %d values for %d samples x %d genes", len(counts), len(sampleIDs), len(genes))
	}
	seen := make(map[string]bool, len(genes))
	for _, g := range genes {
		if seen[g] {
			return nil, fmt.Errorf("duplicate gene %q", g)
		}
		seen[g] = true
	}
	return &CountMatrix{
		SampleIDs: sampleIDs,
		Genes:     genes,
		Counts:    mat.NewDense(len(sampleIDs), len(genes), counts),
	}, nil
}

// Dims returns the number of samples (rows) and genes (columns).
func (m *CountMatrix) Dims() (samples, genes int) {
	return len(m.SampleIDs), len(m.Genes)
}
