// SPDX-License-Identifier: MIT
// Package: samples
//
// Purpose:
//   - Typed per-sample metadata keyed by sample id, with explicitly declared
//     numeric and categorical columns.
//   - Turn requested covariate names into a design block at call time,
//     failing fast on unknown names or missing values.
//
// Determinism:
//   - Sample order is insertion order and is the row order of every matrix
//     produced here. Categorical levels are sorted lexicographically.

package samples

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BatchColumn is the column consulted by Batches.
const BatchColumn = "batch"

const (
	opNewTable       = "NewTable"
	opAddNumeric     = "AddNumeric"
	opAddCategorical = "AddCategorical"
	opBatches        = "Batches"
	opCovariates     = "Covariates"
)

// Kind is the declared type of a column.
type Kind int

const (
	// Numeric columns enter a design matrix as-is.
	Numeric Kind = iota
	// Categorical columns enter a design matrix one-hot encoded, first level dropped.
	Categorical
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is one declared metadata column.
type Column struct {
	Name    string
	Kind    Kind
	numeric []float64
	labels  []string
	missing []bool
}

// Missing reports whether row i has no value.
func (c *Column) Missing(i int) bool { return c.missing[i] }

// Float returns the numeric value of row i (NaN for categorical or missing).
func (c *Column) Float(i int) float64 {
	if c.Kind != Numeric || c.missing[i] {
		return math.NaN()
	}

	return c.numeric[i]
}

// Label returns the categorical value of row i ("" for numeric or missing).
func (c *Column) Label(i int) string {
	if c.Kind != Categorical || c.missing[i] {
		return ""
	}

	return c.labels[i]
}

// Levels returns the sorted distinct non-missing labels of a categorical column.
func (c *Column) Levels() []string {
	if c.Kind != Categorical {
		return nil
	}
	seen := make(map[string]struct{}, len(c.labels))
	out := make([]string, 0)
	for i, l := range c.labels {
		if c.missing[i] {
			continue
		}
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Strings(out)

	return out
}

// Table is the sample metadata table (one row per sample).
type Table struct {
	idColumn string
	ids      []string
	index    map[string]int
	cols     map[string]*Column
	order    []string
}

// NewTable creates a table with the given id column name and sample ids.
//
// Errors:
//   - ErrEmptyIDColumn, ErrNoSamples, ErrEmptySampleID, ErrDuplicateSample.
func NewTable(idColumn string, ids []string) (*Table, error) {
	if idColumn == "" {
		return nil, fmt.Errorf("%s: %w", opNewTable, ErrEmptyIDColumn)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", opNewTable, ErrNoSamples)
	}
	t := &Table{
		idColumn: idColumn,
		ids:      append([]string(nil), ids...),
		index:    make(map[string]int, len(ids)),
		cols:     make(map[string]*Column),
	}
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%s: row %d: %w", opNewTable, i, ErrEmptySampleID)
		}
		if prev, dup := t.index[id]; dup {
			return nil, fmt.Errorf("%s: %q at rows %d and %d: %w", opNewTable, id, prev, i, ErrDuplicateSample)
		}
		t.index[id] = i
	}

	return t, nil
}

// AddNumeric declares a numeric column. missing may be nil (nothing missing).
func (t *Table) AddNumeric(name string, values []float64, missing []bool) error {
	if err := t.checkNew(opAddNumeric, name, len(values), missing); err != nil {
		return err
	}
	miss := normMissing(missing, len(values))
	for i, v := range values {
		if !miss[i] && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("%s(%s): row %d=%g: %w", opAddNumeric, name, i, v, ErrNonFinite)
		}
	}
	t.add(&Column{Name: name, Kind: Numeric, numeric: append([]float64(nil), values...), missing: miss})

	return nil
}

// AddCategorical declares a categorical column. missing may be nil.
func (t *Table) AddCategorical(name string, values []string, missing []bool) error {
	if err := t.checkNew(opAddCategorical, name, len(values), missing); err != nil {
		return err
	}
	t.add(&Column{
		Name:    name,
		Kind:    Categorical,
		labels:  append([]string(nil), values...),
		missing: normMissing(missing, len(values)),
	})

	return nil
}

// IDColumn returns the name of the sample-id column.
func (t *Table) IDColumn() string { return t.idColumn }

// Len returns the number of samples.
func (t *Table) Len() int { return len(t.ids) }

// IDs returns a copy of the sample ids in index order.
func (t *Table) IDs() []string { return append([]string(nil), t.ids...) }

// Index returns the row of sample id.
func (t *Table) Index(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Column returns a declared column by name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// Columns returns declared column names in declaration order.
func (t *Table) Columns() []string { return append([]string(nil), t.order...) }

// Batches returns per-sample batch codes (indices into levels) from the
// batch column. Numeric batch columns are treated as labels.
//
// Errors:
//   - ErrNoBatchColumn, ErrMissingValue.
func (t *Table) Batches() (codes []int, levels []string, err error) {
	c, ok := t.cols[BatchColumn]
	if !ok {
		return nil, nil, fmt.Errorf("%s: column %q: %w", opBatches, BatchColumn, ErrNoBatchColumn)
	}
	labels := make([]string, t.Len())
	for i := range labels {
		if c.missing[i] {
			return nil, nil, fmt.Errorf("%s: sample %q: %w", opBatches, t.ids[i], ErrMissingValue)
		}
		if c.Kind == Numeric {
			labels[i] = fmt.Sprintf("%g", c.numeric[i])
		} else {
			labels[i] = c.labels[i]
		}
	}
	codes, levels = encode(labels)

	return codes, levels, nil
}

// Covariates assembles the named columns into an N × p matrix.
// Numeric columns contribute one column; categorical columns with L levels
// contribute L−1 indicator columns (first sorted level is the reference).
// The returned names label the matrix columns ("sex=M" for indicators).
//
// Errors:
//   - ErrUnknownColumn, ErrMissingValue, ErrConstantColumn.
func (t *Table) Covariates(names []string) (*mat.Dense, []string, error) {
	n := t.Len()
	var (
		data   [][]float64
		labels []string
	)
	for _, name := range names {
		c, ok := t.cols[name]
		if !ok {
			return nil, nil, fmt.Errorf("%s: %q (have %v): %w", opCovariates, name, t.order, ErrUnknownColumn)
		}
		for i := 0; i < n; i++ {
			if c.missing[i] {
				return nil, nil, fmt.Errorf("%s: %q sample %q: %w", opCovariates, name, t.ids[i], ErrMissingValue)
			}
		}
		if c.Kind == Numeric {
			if floats.Min(c.numeric) == floats.Max(c.numeric) {
				return nil, nil, fmt.Errorf("%s: %q = %g for every sample: %w", opCovariates, name, c.numeric[0], ErrConstantColumn)
			}
			data = append(data, append([]float64(nil), c.numeric...))
			labels = append(labels, name)
			continue
		}
		codes, levels := encode(c.labels)
		if len(levels) < 2 {
			return nil, nil, fmt.Errorf("%s: %q has levels %v: %w", opCovariates, name, levels, ErrConstantColumn)
		}
		for l := 1; l < len(levels); l++ {
			col := make([]float64, n)
			for i, code := range codes {
				if code == l {
					col[i] = 1
				}
			}
			data = append(data, col)
			labels = append(labels, name+"="+levels[l])
		}
	}
	if len(data) == 0 {
		return nil, nil, nil
	}

	X := mat.NewDense(n, len(data), nil)
	for j, col := range data {
		X.SetCol(j, col)
	}

	return X, labels, nil
}

func (t *Table) checkNew(op, name string, n int, missing []bool) error {
	if name == "" || name == t.idColumn {
		return fmt.Errorf("%s(%q): reserved or empty name: %w", op, name, ErrColumnExists)
	}
	if _, dup := t.cols[name]; dup {
		return fmt.Errorf("%s(%q): %w", op, name, ErrColumnExists)
	}
	if n != t.Len() || (missing != nil && len(missing) != t.Len()) {
		return fmt.Errorf("%s(%q): %d values for %d samples: %w", op, name, n, t.Len(), ErrColumnLength)
	}

	return nil
}

func (t *Table) add(c *Column) {
	t.cols[c.Name] = c
	t.order = append(t.order, c.Name)
}

func normMissing(missing []bool, n int) []bool {
	if missing == nil {
		return make([]bool, n)
	}

	return append([]bool(nil), missing...)
}

// encode maps labels to codes over sorted distinct levels.
func encode(labels []string) ([]int, []string) {
	set := make(map[string]int)
	for _, l := range labels {
		set[l] = 0
	}
	levels := make([]string, 0, len(set))
	for l := range set {
		levels = append(levels, l)
	}
	sort.Strings(levels)
	for i, l := range levels {
		set[l] = i
	}
	codes := make([]int, len(labels))
	for i, l := range labels {
		codes[i] = set[l]
	}

	return codes, levels
}
