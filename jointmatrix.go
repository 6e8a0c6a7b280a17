// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// keySeparator joins a source index and an original sample ID into a
// joint-matrix row key, e.g. "0&-spot_17x32". Sample IDs containing
// the separator are rejected at join time so the encoding stays
// unambiguous.
const keySeparator = "&-"

var (
	ErrNoMatrices     = errors.New("no matrices to join")
	ErrSeparatorInID  = errors.New("sample ID contains reserved token \"" + keySeparator + "\"")
	ErrNotJointMatrix = errors.New("not a joint matrix produced by join")
)

// rowOrigin records where a joint-matrix row came from: the position
// of its source matrix in the argument list passed to Join, and the
// sample ID it had there.
type rowOrigin struct {
	source int
	label  string
}

func encodeRowKey(source int, label string) string {
	return strconv.Itoa(source) + keySeparator + label
}

func parseRowKey(key string) (rowOrigin, error) {
	sep := strings.Index(key, keySeparator)
	if sep < 0 {
		return rowOrigin{}, fmt.Errorf("%w: sample ID %q has no source tag", ErrNotJointMatrix, key)
	}
	source, err := strconv.Atoi(key[:sep])
	if err != nil || source < 0 {
		return rowOrigin{}, fmt.Errorf("%w: sample ID %q has a non-numeric source tag", ErrNotJointMatrix, key)
	}
	return rowOrigin{source: source, label: key[sep+len(keySeparator):]}, nil
}

// Join merges the given count matrices into one joint matrix over the
// union of their genes, in lexicographic gene order. Rows appear in
// input order, source 0 first, and each row's sample ID is tagged
// with its source index ("k&-originalID"). Genes a source did not
// observe are zero in that source's rows.
func Join(matrices []*CountMatrix) (*CountMatrix, error) {
	if len(matrices) == 0 {
		return nil, ErrNoMatrices
	}
	union := map[string]bool{}
	start := make([]int, len(matrices)+1)
	for k, m := range matrices {
		for _, id := range m.SampleIDs {
			if strings.Contains(id, keySeparator) {
				return nil, fmt.Errorf("%w: input %d, sample %q", ErrSeparatorInID, k, id)
			}
		}
		for _, g := range m.Genes {
			union[g] = true
		}
		start[k+1] = start[k] + len(m.SampleIDs)
	}
	genes := make([]string, 0, len(union))
	for g := range union {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	col := make(map[string]int, len(genes))
	for j, g := range genes {
		col[g] = j
	}

	joint := mat.NewDense(start[len(matrices)], len(genes), nil)
	ids := make([]string, 0, start[len(matrices)])
	for k, m := range matrices {
		dst := make([]int, len(m.Genes))
		for j, g := range m.Genes {
			dst[j] = col[g]
		}
		for i, id := range m.SampleIDs {
			for j := range m.Genes {
				joint.Set(start[k]+i, dst[j], m.Counts.At(i, j))
			}
			ids = append(ids, encodeRowKey(k, id))
		}
	}
	return &CountMatrix{SampleIDs: ids, Genes: genes, Counts: joint}, nil
}

// Split recovers the constituent matrices of a joint matrix produced
// by Join, ordered by ascending source index, with original sample
// IDs restored and relative row order preserved. Each recovered
// matrix keeps the joint matrix's full gene union, so genes a source
// never observed come back as explicit zero columns rather than being
// dropped. Any row whose sample ID does not carry a source tag aborts
// the whole split.
func Split(joint *CountMatrix) ([]*CountMatrix, error) {
	origins := make([]rowOrigin, len(joint.SampleIDs))
	for i, key := range joint.SampleIDs {
		o, err := parseRowKey(key)
		if err != nil {
			return nil, err
		}
		origins[i] = o
	}
	bysource := map[int][]int{}
	var sources []int
	for i, o := range origins {
		if _, ok := bysource[o.source]; !ok {
			sources = append(sources, o.source)
		}
		bysource[o.source] = append(bysource[o.source], i)
	}
	sort.Ints(sources)

	out := make([]*CountMatrix, 0, len(sources))
	for _, k := range sources {
		rows := bysource[k]
		counts := mat.NewDense(len(rows), len(joint.Genes), nil)
		ids := make([]string, len(rows))
		for i, r := range rows {
			ids[i] = origins[r].label
			counts.SetRow(i, mat.Row(nil, r, joint.Counts))
		}
		out = append(out, &CountMatrix{
			SampleIDs: ids,
			Genes:     append([]string(nil), joint.Genes...),
			Counts:    counts,
		})
	}
	return out, nil
}
