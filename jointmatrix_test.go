// Copyright (C) The Stcount Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package stcount

import (
	"bytes"
	"errors"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/check.v1"
)

type jointMatrixSuite struct{}

var _ = check.Suite(&jointMatrixSuite{})

func mustMatrix(c *check.C, ids, genes []string, counts []float64) *CountMatrix {
	m, err := NewCountMatrix(ids, genes, counts)
	c.Assert(err, check.IsNil)
	return m
}

func rowVals(m *CountMatrix, i int) []float64 {
	return mat.Row(nil, i, m.Counts)
}

func (s *jointMatrixSuite) TestJoinSplit(c *check.C) {
	t0 := mustMatrix(c, []string{"a", "b"}, []string{"g1", "g2"}, []float64{
		1, 2,
		3, 4,
	})
	t1 := mustMatrix(c, []string{"x"}, []string{"g2", "g3"}, []float64{
		5, 6,
	})

	joint, err := Join([]*CountMatrix{t0, t1})
	c.Assert(err, check.IsNil)
	c.Check(joint.SampleIDs, check.DeepEquals, []string{"0&-a", "0&-b", "1&-x"})
	c.Check(joint.Genes, check.DeepEquals, []string{"g1", "g2", "g3"})
	c.Check(rowVals(joint, 0), check.DeepEquals, []float64{1, 2, 0})
	c.Check(rowVals(joint, 1), check.DeepEquals, []float64{3, 4, 0})
	c.Check(rowVals(joint, 2), check.DeepEquals, []float64{0, 5, 6})

	mtxs, err := Split(joint)
	c.Assert(err, check.IsNil)
	c.Assert(mtxs, check.HasLen, 2)
	c.Check(mtxs[0].SampleIDs, check.DeepEquals, []string{"a", "b"})
	c.Check(mtxs[0].Genes, check.DeepEquals, []string{"g1", "g2", "g3"})
	c.Check(rowVals(mtxs[0], 0), check.DeepEquals, []float64{1, 2, 0})
	c.Check(rowVals(mtxs[0], 1), check.DeepEquals, []float64{3, 4, 0})
	c.Check(mtxs[1].SampleIDs, check.DeepEquals, []string{"x"})
	c.Check(rowVals(mtxs[1], 0), check.DeepEquals, []float64{0, 5, 6})
}

func (s *jointMatrixSuite) TestRoundTripValues(c *check.C) {
	// Values for each source's own genes must survive
	// join-then-split exactly, whatever the gene overlap.
	inputs := []*CountMatrix{
		mustMatrix(c, []string{"s1", "s2"}, []string{"Actb", "Gapdh", "Vim"}, []float64{
			10, 0, 3,
			7, 2, 0,
		}),
		mustMatrix(c, []string{"s1", "s3", "s4"}, []string{"Vim", "Actb"}, []float64{
			1, 9,
			0, 0,
			4, 5,
		}),
		mustMatrix(c, []string{"only"}, []string{"Xist"}, []float64{8}),
	}
	joint, err := Join(inputs)
	c.Assert(err, check.IsNil)
	mtxs, err := Split(joint)
	c.Assert(err, check.IsNil)
	c.Assert(mtxs, check.HasLen, len(inputs))
	for k, orig := range inputs {
		got := mtxs[k]
		c.Check(got.SampleIDs, check.DeepEquals, orig.SampleIDs)
		col := map[string]int{}
		for j, g := range got.Genes {
			col[g] = j
		}
		for i := range orig.SampleIDs {
			for j, g := range orig.Genes {
				c.Check(got.Counts.At(i, col[g]), check.Equals, orig.Counts.At(i, j),
					check.Commentf("input %d sample %d gene %s", k, i, g))
			}
		}
	}
}

func (s *jointMatrixSuite) TestJoinZeroFill(c *check.C) {
	t0 := mustMatrix(c, []string{"a"}, []string{"g2"}, []float64{7})
	t1 := mustMatrix(c, []string{"b"}, []string{"g1", "g3"}, []float64{1, 2})
	joint, err := Join([]*CountMatrix{t0, t1})
	c.Assert(err, check.IsNil)
	c.Check(joint.Genes, check.DeepEquals, []string{"g1", "g2", "g3"})
	c.Check(rowVals(joint, 0), check.DeepEquals, []float64{0, 7, 0})
	c.Check(rowVals(joint, 1), check.DeepEquals, []float64{1, 0, 2})
}

func (s *jointMatrixSuite) TestJoinDeterminism(c *check.C) {
	in := func() []*CountMatrix {
		return []*CountMatrix{
			mustMatrix(c, []string{"a", "b"}, []string{"g2", "g1"}, []float64{1, 2, 3, 4}),
			mustMatrix(c, []string{"x"}, []string{"g3", "g2"}, []float64{5, 6}),
		}
	}
	j1, err := Join(in())
	c.Assert(err, check.IsNil)
	j2, err := Join(in())
	c.Assert(err, check.IsNil)
	var b1, b2 bytes.Buffer
	c.Assert(writeCountMatrix(j1, &b1), check.IsNil)
	c.Assert(writeCountMatrix(j2, &b2), check.IsNil)
	c.Check(b1.Bytes(), check.DeepEquals, b2.Bytes())
}

func (s *jointMatrixSuite) TestJoinSingleInput(c *check.C) {
	t0 := mustMatrix(c, []string{"a"}, []string{"g1"}, []float64{3})
	joint, err := Join([]*CountMatrix{t0})
	c.Assert(err, check.IsNil)
	c.Check(joint.SampleIDs, check.DeepEquals, []string{"0&-a"})
	mtxs, err := Split(joint)
	c.Assert(err, check.IsNil)
	c.Assert(mtxs, check.HasLen, 1)
	c.Check(mtxs[0].SampleIDs, check.DeepEquals, []string{"a"})
}

func (s *jointMatrixSuite) TestJoinEmptyInput(c *check.C) {
	joint, err := Join(nil)
	c.Check(joint, check.IsNil)
	c.Check(errors.Is(err, ErrNoMatrices), check.Equals, true)
}

func (s *jointMatrixSuite) TestJoinRejectsSeparatorInSampleID(c *check.C) {
	t0 := mustMatrix(c, []string{"bad&-id"}, []string{"g1"}, []float64{1})
	joint, err := Join([]*CountMatrix{t0})
	c.Check(joint, check.IsNil)
	c.Check(errors.Is(err, ErrSeparatorInID), check.Equals, true)
}

func (s *jointMatrixSuite) TestJoinPreservesDuplicateSampleIDs(c *check.C) {
	t0 := mustMatrix(c, []string{"dup", "dup"}, []string{"g1"}, []float64{1, 2})
	joint, err := Join([]*CountMatrix{t0})
	c.Assert(err, check.IsNil)
	c.Check(joint.SampleIDs, check.DeepEquals, []string{"0&-dup", "0&-dup"})
	mtxs, err := Split(joint)
	c.Assert(err, check.IsNil)
	c.Check(mtxs[0].SampleIDs, check.DeepEquals, []string{"dup", "dup"})
	c.Check(rowVals(mtxs[0], 0), check.DeepEquals, []float64{1})
	c.Check(rowVals(mtxs[0], 1), check.DeepEquals, []float64{2})
}

func (s *jointMatrixSuite) TestLabelRoundTrip(c *check.C) {
	// IDs may contain anything except the "&-" token, including
	// "&" and "-" on their own.
	ids := []string{"spot 17x32", "A&B", "x-y-z", "ümlaut", "-3&"}
	counts := make([]float64, len(ids))
	for i := range counts {
		counts[i] = float64(i)
	}
	t0 := mustMatrix(c, ids, []string{"g1"}, counts)
	joint, err := Join([]*CountMatrix{t0})
	c.Assert(err, check.IsNil)
	mtxs, err := Split(joint)
	c.Assert(err, check.IsNil)
	c.Check(mtxs[0].SampleIDs, check.DeepEquals, ids)
}

func (s *jointMatrixSuite) TestSplitMalformed(c *check.C) {
	for _, id := range []string{"no-separator-here", "x&-label", "&-label", "-1&-label"} {
		joint := mustMatrix(c, []string{"0&-ok", id}, []string{"g1"}, []float64{1, 2})
		mtxs, err := Split(joint)
		c.Check(mtxs, check.IsNil, check.Commentf("id %q", id))
		c.Check(errors.Is(err, ErrNotJointMatrix), check.Equals, true, check.Commentf("id %q", id))
	}
}

func (s *jointMatrixSuite) TestSplitInterleavedSources(c *check.C) {
	// Sources need not be contiguous or start at 0; relative row
	// order within each source is what must be preserved.
	joint := mustMatrix(c,
		[]string{"2&-c1", "0&-a1", "2&-c2", "0&-a2"},
		[]string{"g1"},
		[]float64{1, 2, 3, 4})
	mtxs, err := Split(joint)
	c.Assert(err, check.IsNil)
	c.Assert(mtxs, check.HasLen, 2)
	c.Check(mtxs[0].SampleIDs, check.DeepEquals, []string{"a1", "a2"})
	c.Check(rowVals(mtxs[0], 0), check.DeepEquals, []float64{2})
	c.Check(rowVals(mtxs[0], 1), check.DeepEquals, []float64{4})
	c.Check(mtxs[1].SampleIDs, check.DeepEquals, []string{"c1", "c2"})
	c.Check(rowVals(mtxs[1], 0), check.DeepEquals, []float64{1})
	c.Check(rowVals(mtxs[1], 1), check.DeepEquals, []float64{3})
}

func (s *jointMatrixSuite) TestRowKeyCodec(c *check.C) {
	for _, trial := range []struct {
		source int
		label  string
	}{
		{0, "a"},
		{12, "spot 17x32"},
		{3, "a&b-c"},
	} {
		o, err := parseRowKey(encodeRowKey(trial.source, trial.label))
		c.Assert(err, check.IsNil)
		c.Check(o.source, check.Equals, trial.source)
		c.Check(o.label, check.Equals, trial.label)
	}

	// Splitting happens at the first separator occurrence, so a
	// (forbidden) separator inside the label still decodes with
	// the tag removed.
	o, err := parseRowKey("3&-a&-b")
	c.Assert(err, check.IsNil)
	c.Check(o.source, check.Equals, 3)
	c.Check(o.label, check.Equals, "a&-b")
}
