// SPDX-License-Identifier: MIT

package samples_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nampc/errkind"
	"github.com/katalvlaran/nampc/samples"
)

type TableSuite struct {
	suite.Suite
	tab *samples.Table
}

func (s *TableSuite) SetupTest() {
	tab, err := samples.NewTable("id", []string{"s1", "s2", "s3", "s4"})
	s.Require().NoError(err)
	s.Require().NoError(tab.AddNumeric("age", []float64{30, 40, 50, 60}, nil))
	s.Require().NoError(tab.AddCategorical("sex", []string{"M", "F", "F", "M"}, nil))
	s.Require().NoError(tab.AddCategorical("batch", []string{"b2", "b1", "b2", "b1"}, nil))
	s.Require().NoError(tab.AddNumeric("bmi", []float64{20, 0, 22, 23}, []bool{false, true, false, false}))
	s.tab = tab
}

func (s *TableSuite) TestLookup() {
	s.Equal(4, s.tab.Len())
	s.Equal("id", s.tab.IDColumn())
	i, ok := s.tab.Index("s3")
	s.True(ok)
	s.Equal(2, i)
	_, ok = s.tab.Index("nope")
	s.False(ok)
	s.Equal([]string{"age", "sex", "batch", "bmi"}, s.tab.Columns())

	c, ok := s.tab.Column("sex")
	s.True(ok)
	s.Equal(samples.Categorical, c.Kind)
	s.Equal([]string{"F", "M"}, c.Levels())
	s.Equal("categorical", c.Kind.String())

	bmi, _ := s.tab.Column("bmi")
	s.True(bmi.Missing(1))
	s.True(math.IsNaN(bmi.Float(1)))
	s.Equal(22.0, bmi.Float(2))
}

func (s *TableSuite) TestBatches() {
	codes, levels, err := s.tab.Batches()
	s.Require().NoError(err)
	s.Equal([]string{"b1", "b2"}, levels)
	s.Equal([]int{1, 0, 1, 0}, codes)
}

func (s *TableSuite) TestCovariates_NumericAndDummies() {
	X, names, err := s.tab.Covariates([]string{"age", "sex"})
	s.Require().NoError(err)
	s.Equal([]string{"age", "sex=M"}, names)
	want := mat.NewDense(4, 2, []float64{
		30, 1,
		40, 0,
		50, 0,
		60, 1,
	})
	s.True(mat.Equal(want, X))
}

func (s *TableSuite) TestCovariates_Errors() {
	_, _, err := s.tab.Covariates([]string{"age", "height"})
	s.ErrorIs(err, samples.ErrUnknownColumn)
	s.ErrorIs(err, errkind.ErrConfiguration)

	_, _, err = s.tab.Covariates([]string{"bmi"})
	s.ErrorIs(err, samples.ErrMissingValue)

	s.Require().NoError(s.tab.AddCategorical("site", []string{"A", "A", "A", "A"}, nil))
	s.Require().NoError(s.tab.AddNumeric("dose", []float64{5, 5, 5, 5}, nil))
	for _, name := range []string{"site", "dose"} {
		X, names, err := s.tab.Covariates([]string{"age", name})
		s.ErrorIs(err, samples.ErrConstantColumn, name)
		s.ErrorIs(err, errkind.ErrConfiguration, name)
		s.Nil(X)
		s.Nil(names)
	}

	X, names, err := s.tab.Covariates(nil)
	s.NoError(err)
	s.Nil(X)
	s.Empty(names)
}

func (s *TableSuite) TestAddColumn_Errors() {
	s.ErrorIs(s.tab.AddNumeric("age", []float64{1, 2, 3, 4}, nil), samples.ErrColumnExists)
	s.ErrorIs(s.tab.AddNumeric("id", []float64{1, 2, 3, 4}, nil), samples.ErrColumnExists)
	s.ErrorIs(s.tab.AddNumeric("w", []float64{1, 2}, nil), samples.ErrColumnLength)
	s.ErrorIs(s.tab.AddNumeric("w", []float64{1, 2, math.Inf(1), 4}, nil), samples.ErrNonFinite)
	s.ErrorIs(s.tab.AddCategorical("g", []string{"a"}, nil), samples.ErrColumnLength)
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableSuite))
}

func TestNewTable_Errors(t *testing.T) {
	t.Parallel()

	_, err := samples.NewTable("", []string{"a"})
	require.ErrorIs(t, err, samples.ErrEmptyIDColumn)

	_, err = samples.NewTable("id", nil)
	require.ErrorIs(t, err, samples.ErrNoSamples)
	require.ErrorIs(t, err, errkind.ErrDataShape)

	_, err = samples.NewTable("id", []string{"a", "b", "a"})
	require.ErrorIs(t, err, samples.ErrDuplicateSample)

	_, err = samples.NewTable("id", []string{"a", ""})
	require.ErrorIs(t, err, samples.ErrEmptySampleID)
}

func TestBatches_Missing(t *testing.T) {
	t.Parallel()

	tab, err := samples.NewTable("id", []string{"a", "b"})
	require.NoError(t, err)
	_, _, err = tab.Batches()
	require.ErrorIs(t, err, samples.ErrNoBatchColumn)

	require.NoError(t, tab.AddNumeric("batch", []float64{1, 2}, []bool{false, true}))
	_, _, err = tab.Batches()
	require.ErrorIs(t, err, samples.ErrMissingValue)
}

func TestAssignment(t *testing.T) {
	t.Parallel()

	tab, err := samples.NewTable("donor", []string{"a", "b", "c"})
	require.NoError(t, err)

	a, err := samples.NewAssignment(
		[]string{"c1", "c2", "c3", "c4"},
		[]string{"b", "a", "b", "b"}, tab)
	require.NoError(t, err)
	require.Equal(t, 4, a.Len())
	require.Equal(t, 3, a.NSamples())
	require.Equal(t, 1, a.Sample(0))
	require.Equal(t, "c2", a.Cell(1))
	require.Equal(t, []int{1, 3, 0}, a.Counts())
	require.Equal(t, []int{2}, a.EmptySamples())

	_, err = samples.NewAssignment([]string{"c1"}, []string{"zzz"}, tab)
	require.ErrorIs(t, err, samples.ErrUnknownSample)

	_, err = samples.NewAssignment([]string{"c1", "c1"}, []string{"a", "a"}, tab)
	require.ErrorIs(t, err, samples.ErrDuplicateCell)

	_, err = samples.NewAssignment([]string{"c1"}, nil, tab)
	require.ErrorIs(t, err, samples.ErrLengthMismatch)
}
