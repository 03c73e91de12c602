// SPDX-License-Identifier: MIT

package container_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/nampc/cellgraph"
	"github.com/katalvlaran/nampc/container"
	"github.com/katalvlaran/nampc/errkind"
	"github.com/katalvlaran/nampc/samples"
)

// fixture: 3 samples, 6 cells on a path graph, batch + age + sex metadata.
func fixture(t *testing.T, prefix string) *container.Dataset {
	t.Helper()

	tab, err := samples.NewTable("donor", []string{"d1", "d2", "d3"})
	require.NoError(t, err)
	require.NoError(t, tab.AddCategorical(samples.BatchColumn, []string{"b1", "b1", "b2"}, nil))
	require.NoError(t, tab.AddNumeric("age", []float64{31, 0, 58.5}, []bool{false, true, false}))
	require.NoError(t, tab.AddCategorical("sex", []string{"F", "M", "F"}, nil))

	cells := []string{"c0", "c1", "c2", "c3", "c4", "c5"}
	owner := []string{"d1", "d1", "d2", "d2", "d3", "d3"}
	a, err := samples.NewAssignment(cells, owner, tab)
	require.NoError(t, err)

	rows := []int{0, 1, 1, 2, 2, 3, 3, 4, 4, 5}
	cols := []int{1, 0, 2, 1, 3, 2, 4, 3, 5, 4}
	vals := []float64{1, 1, 0.5, 0.5, 1, 1, 0.25, 0.25, 1, 1}
	g, err := cellgraph.FromTriplets(6, rows, cols, vals)
	require.NoError(t, err)
	d, err := cellgraph.FromTriplets(6, rows, cols, []float64{2, 2, 3, 3, 1, 1, 4, 4, 2, 2})
	require.NoError(t, err)

	return &container.Dataset{Table: tab, Assignment: a, Graph: g, Distances: d, Prefix: prefix}
}

type StoreSuite struct {
	suite.Suite
	ctx  context.Context
	path string
	ds   *container.Dataset
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "cells.db")
	s.ds = fixture(s.T(), "")
	s.Require().NoError(container.Create(s.ctx, s.path, s.ds))
}

func (s *StoreSuite) open() *container.Store {
	st, err := container.Open(s.ctx, s.path)
	s.Require().NoError(err)
	s.T().Cleanup(func() { st.Close() })

	return st
}

func (s *StoreSuite) TestRoundTrip() {
	st := s.open()
	got, err := st.Load(s.ctx, container.LoadOptions{SampleID: "donor"})
	s.Require().NoError(err)

	s.Equal([]string{"d1", "d2", "d3"}, got.Table.IDs())
	s.Equal([]string{samples.BatchColumn, "age", "sex"}, got.Table.Columns())

	age, ok := got.Table.Column("age")
	s.Require().True(ok)
	s.Equal(samples.Numeric, age.Kind)
	s.True(age.Missing(1))
	s.Equal(58.5, age.Float(2))

	sex, _ := got.Table.Column("sex")
	s.Equal(samples.Categorical, sex.Kind)
	s.Equal([]string{"F", "M"}, sex.Levels())

	codes, levels, err := got.Table.Batches()
	s.Require().NoError(err)
	s.Equal([]int{0, 0, 1}, codes)
	s.Equal([]string{"b1", "b2"}, levels)

	s.Equal(6, got.Assignment.Len())
	s.Equal([]int{2, 2, 2}, got.Assignment.Counts())
	s.Equal("c3", got.Assignment.Cell(3))
	s.Equal(1, got.Assignment.Sample(3))

	r0, c0, v0 := s.ds.Graph.Triplets()
	r1, c1, v1 := got.Graph.Triplets()
	s.Equal(r0, r1)
	s.Equal(c0, c1)
	s.Equal(v0, v1)
	s.Require().NotNil(got.Distances)
	s.Equal(4.0, got.Distances.Weight(3, 4))
	s.Equal(container.KeyConnectivities, got.GraphKey())
}

func (s *StoreSuite) TestDefaultSampleIDMissing() {
	st := s.open()
	_, err := st.Load(s.ctx, container.LoadOptions{})
	s.ErrorIs(err, container.ErrNoSampleIDColumn)
	s.ErrorIs(err, errkind.ErrConfiguration)
}

func (s *StoreSuite) TestMissingPrefix() {
	st := s.open()
	_, err := st.Load(s.ctx, container.LoadOptions{SampleID: "donor", Prefix: "harmony"})
	s.ErrorIs(err, container.ErrMissingGraph)

	ok, err := st.HasGraph(s.ctx, "harmony_connectivities")
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestCreateRefusesOverwrite() {
	err := container.Create(s.ctx, s.path, s.ds)
	s.ErrorIs(err, container.ErrExists)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func TestLoad_CustomPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "custom.db")
	require.NoError(t, container.Create(ctx, path, fixture(t, "scvi")))

	st, err := container.Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Load(ctx, container.LoadOptions{SampleID: "donor", Prefix: "scvi"})
	require.NoError(t, err)
	require.Equal(t, "scvi_connectivities", got.GraphKey())
	require.Equal(t, 10, got.Graph.NNZ())

	// Default keys are absent from this file.
	_, err = st.Load(ctx, container.LoadOptions{SampleID: "donor"})
	require.ErrorIs(t, err, container.ErrMissingGraph)
}

// rawDB creates a container by hand for malformed-input cases.
func rawDB(t *testing.T, stmts ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "raw.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, q := range stmts {
		_, err := db.Exec(q)
		require.NoError(t, err, q)
	}

	return path
}

const (
	baseSamplem = `CREATE TABLE samplem (id TEXT, batch INTEGER, site TEXT, score REAL);
		INSERT INTO samplem VALUES ('s1', 1, 'north', 1.5), ('s2', 2, 'south', 2), ('s3', 1, 7, NULL);`
	baseObs  = `CREATE TABLE obs (cell TEXT, id TEXT); INSERT INTO obs VALUES ('a','s1'), ('b','s2'), ('c','s3');`
	baseObsp = `CREATE TABLE obsp (key TEXT, i INTEGER, j INTEGER, value REAL);`
)

func TestLoad_ColumnTyping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := rawDB(t, baseSamplem, baseObs, baseObsp,
		`INSERT INTO obsp VALUES ('connectivities', 0, 1, 1), ('connectivities', 1, 0, 1)`)
	st, err := container.Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	ds, err := st.Load(ctx, container.LoadOptions{})
	require.NoError(t, err)
	require.Nil(t, ds.Distances)

	batch, _ := ds.Table.Column("batch")
	require.Equal(t, samples.Numeric, batch.Kind)
	site, _ := ds.Table.Column("site")
	require.Equal(t, samples.Categorical, site.Kind, "mixed TEXT/INTEGER column is categorical")
	require.Equal(t, "7", site.Label(2))
	score, _ := ds.Table.Column("score")
	require.True(t, score.Missing(2))

	codes, _, err := ds.Table.Batches()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 0}, codes)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := container.Open(ctx, filepath.Join(t.TempDir(), "absent.db"))
	require.ErrorIs(t, err, container.ErrNotFound)

	_, err = container.Open(ctx, rawDB(t, baseSamplem, baseObs))
	require.ErrorIs(t, err, container.ErrMissingTable)

	cases := []struct {
		name  string
		extra string
		want  error
		kind  error
	}{
		{"index out of range", `INSERT INTO obsp VALUES ('connectivities', 0, 3, 1)`, cellgraph.ErrIndexOutOfRange, errkind.ErrDataShape},
		{"negative weight", `INSERT INTO obsp VALUES ('connectivities', 0, 1, -1)`, cellgraph.ErrInvalidWeight, errkind.ErrNumerical},
		{"no graph", `INSERT INTO obsp VALUES ('distances', 0, 1, 1)`, container.ErrMissingGraph, errkind.ErrConfiguration},
		{"unknown sample", `INSERT INTO obs VALUES ('d', 'ghost'); INSERT INTO obsp VALUES ('connectivities', 0, 1, 1)`, samples.ErrUnknownSample, errkind.ErrConfiguration},
		{"duplicate sample", `INSERT INTO samplem VALUES ('s1', 1, 'x', 0); INSERT INTO obsp VALUES ('connectivities', 0, 1, 1)`, samples.ErrDuplicateSample, errkind.ErrConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := container.Open(ctx, rawDB(t, baseSamplem, baseObs, baseObsp, tc.extra))
			require.NoError(t, err)
			defer st.Close()

			_, err = st.Load(ctx, container.LoadOptions{})
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestKeys(t *testing.T) {
	t.Parallel()

	c, d := container.Keys("")
	require.Equal(t, "connectivities", c)
	require.Equal(t, "distances", d)
	c, d = container.Keys("bbknn")
	require.Equal(t, "bbknn_connectivities", c)
	require.Equal(t, "bbknn_distances", d)
}
