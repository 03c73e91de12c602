// SPDX-License-Identifier: MIT
// Package: container
//
// Schema:
//
//	samplem(<sampleid>, [batch], covariate columns…)   one row per sample, rowid order
//	obs(cell, <sampleid>)                              one row per cell, rowid order
//	obsp(key, i, j, value)                             sparse cell × cell matrices
//
// Column typing in samplem: a column whose non-NULL values are all INTEGER
// or REAL is numeric, anything else is categorical. NULL is a missing value.

package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/katalvlaran/nampc/cellgraph"
	"github.com/katalvlaran/nampc/samples"
)

// Table names.
const (
	TableSamples = "samplem"
	TableCells   = "obs"
	TableGraphs  = "obsp"
)

// Graph keys without a custom prefix.
const (
	KeyConnectivities = "connectivities"
	KeyDistances      = "distances"
)

const (
	opOpen    = "Open"
	opSamples = "Samples"
	opCells   = "Cells"
	opGraph   = "Graph"
	opLoad    = "Load"
)

// Keys returns the obsp keys of the connectivities and distances for prefix
// ("" selects the default keys).
func Keys(prefix string) (conn, dist string) {
	if prefix == "" {
		return KeyConnectivities, KeyDistances
	}

	return prefix + "_" + KeyConnectivities, prefix + "_" + KeyDistances
}

// Store is an open container.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens an existing container file.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", opOpen, path, ErrNotFound)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %v: %w", opOpen, path, err, ErrStorage)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %s: %v: %w", opOpen, path, err, ErrStorage)
	}
	s := &Store{db: db, path: path}
	for _, table := range []string{TableSamples, TableCells, TableGraphs} {
		if _, err := s.columns(ctx, table); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", opOpen, err)
		}
	}

	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

// Samples reads samplem into a typed table keyed by the sampleID column.
func (s *Store) Samples(ctx context.Context, sampleID string) (*samples.Table, error) {
	cols, err := s.columns(ctx, TableSamples)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSamples, err)
	}
	idCol := indexOf(cols, sampleID)
	if idCol < 0 {
		return nil, fmt.Errorf("%s: %q not among %v: %w", opSamples, sampleID, cols, ErrNoSampleIDColumn)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+identList(cols)+" FROM "+quoteIdent(TableSamples)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", opSamples, err, ErrStorage)
	}
	defer rows.Close()

	values := make([][]any, len(cols))
	for rows.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for j := range row {
			ptrs[j] = &row[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", opSamples, err, ErrStorage)
		}
		for j, v := range row {
			values[j] = append(values[j], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", opSamples, err, ErrStorage)
	}

	ids := make([]string, len(values[idCol]))
	for i, v := range values[idCol] {
		if ids[i], _, err = text(v); err != nil {
			return nil, fmt.Errorf("%s: %s row %d: %w", opSamples, sampleID, i, err)
		}
	}
	t, err := samples.NewTable(sampleID, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSamples, err)
	}

	for j, name := range cols {
		if j == idCol {
			continue
		}
		if err := addColumn(t, name, values[j]); err != nil {
			return nil, fmt.Errorf("%s: %w", opSamples, err)
		}
	}

	return t, nil
}

// addColumn declares one samplem column on t, typed by its stored values.
func addColumn(t *samples.Table, name string, vals []any) error {
	missing := make([]bool, len(vals))
	numeric := true
	for i, v := range vals {
		switch v.(type) {
		case nil:
			missing[i] = true
		case int64, float64:
		case []byte:
			return fmt.Errorf("column %q row %d: %w", name, i, ErrUnsupportedValue)
		default:
			numeric = false
		}
	}

	if numeric {
		nums := make([]float64, len(vals))
		for i, v := range vals {
			switch x := v.(type) {
			case int64:
				nums[i] = float64(x)
			case float64:
				nums[i] = x
			}
		}

		return t.AddNumeric(name, nums, missing)
	}

	labels := make([]string, len(vals))
	for i, v := range vals {
		l, _, err := text(v)
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		labels[i] = l
	}

	return t.AddCategorical(name, labels, missing)
}

// Cells reads obs: cell ids and the sample id of every cell, in rowid order.
func (s *Store) Cells(ctx context.Context, sampleID string) (cells, sampleIDs []string, err error) {
	cols, err := s.columns(ctx, TableCells)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opCells, err)
	}
	if indexOf(cols, sampleID) < 0 {
		return nil, nil, fmt.Errorf("%s: %q not among obs columns %v: %w", opCells, sampleID, cols, ErrNoSampleIDColumn)
	}

	q := "SELECT cell, " + quoteIdent(sampleID) + " FROM " + quoteIdent(TableCells) + " ORDER BY rowid"
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %v: %w", opCells, err, ErrStorage)
	}
	defer rows.Close()

	for rows.Next() {
		var c, sid any
		if err := rows.Scan(&c, &sid); err != nil {
			return nil, nil, fmt.Errorf("%s: %v: %w", opCells, err, ErrStorage)
		}
		cs, _, err := text(c)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: cell %d: %w", opCells, len(cells), err)
		}
		ss, _, err := text(sid)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: cell %q: %w", opCells, cs, err)
		}
		cells = append(cells, cs)
		sampleIDs = append(sampleIDs, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %v: %w", opCells, err, ErrStorage)
	}

	return cells, sampleIDs, nil
}

// HasGraph reports whether obsp holds at least one entry under key.
func (s *Store) HasGraph(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM "+quoteIdent(TableGraphs)+" WHERE key = ? LIMIT 1", key).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("HasGraph: %v: %w", err, ErrStorage)
	default:
		return true, nil
	}
}

// Graph reads the n × n matrix stored under key.
func (s *Store) Graph(ctx context.Context, key string, n int, opts ...cellgraph.Option) (*cellgraph.Graph, error) {
	ok, err := s.HasGraph(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opGraph, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: obsp key %q: %w", opGraph, key, ErrMissingGraph)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT i, j, value FROM "+quoteIdent(TableGraphs)+" WHERE key = ? ORDER BY rowid", key)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", opGraph, err, ErrStorage)
	}
	defer rows.Close()

	var (
		is, js []int
		vs     []float64
	)
	for rows.Next() {
		var (
			i, j int64
			v    float64
		)
		if err := rows.Scan(&i, &j, &v); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", opGraph, err, ErrStorage)
		}
		is = append(is, int(i))
		js = append(js, int(j))
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", opGraph, err, ErrStorage)
	}

	g, err := cellgraph.FromTriplets(n, is, js, vs, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", opGraph, key, err)
	}

	return g, nil
}

// Dataset is everything the pipeline needs from a container.
type Dataset struct {
	Table      *samples.Table
	Assignment *samples.Assignment
	Graph      *cellgraph.Graph // connectivities
	Distances  *cellgraph.Graph // nil when not stored
	Prefix     string           // obsp key prefix ("" = default keys)
}

// GraphKey returns the obsp key the connectivities came from.
func (d *Dataset) GraphKey() string {
	conn, _ := Keys(d.Prefix)
	return conn
}

// LoadOptions selects what Load reads.
type LoadOptions struct {
	SampleID string // column naming the sample of each cell; default "id"
	Prefix   string // custom obsp prefix; both <prefix>_connectivities and <prefix>_distances must exist
}

// DefaultSampleID is the sample-id column used when none is given.
const DefaultSampleID = "id"

// Load reads the sample table, resolves every cell to its sample and reads
// the connectivities graph.
func (s *Store) Load(ctx context.Context, lo LoadOptions) (*Dataset, error) {
	if lo.SampleID == "" {
		lo.SampleID = DefaultSampleID
	}
	t, err := s.Samples(ctx, lo.SampleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	cells, sids, err := s.Cells(ctx, lo.SampleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	a, err := samples.NewAssignment(cells, sids, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}

	connKey, distKey := Keys(lo.Prefix)
	g, err := s.Graph(ctx, connKey, len(cells))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}

	var dist *cellgraph.Graph
	hasDist, err := s.HasGraph(ctx, distKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	switch {
	case hasDist:
		if dist, err = s.Graph(ctx, distKey, len(cells)); err != nil {
			return nil, fmt.Errorf("%s: %w", opLoad, err)
		}
	case lo.Prefix != "":
		// A custom prefix replaces both matrices, so both must be present.
		return nil, fmt.Errorf("%s: obsp key %q: %w", opLoad, distKey, ErrMissingGraph)
	}

	return &Dataset{Table: t, Assignment: a, Graph: g, Distances: dist, Prefix: lo.Prefix}, nil
}

// columns lists the columns of table in declaration order.
func (s *Store) columns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, fmt.Errorf("table %q: %v: %w", table, err, ErrStorage)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("table %q: %v: %w", table, err, ErrStorage)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table %q: %v: %w", table, err, ErrStorage)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q: %w", table, ErrMissingTable)
	}

	return cols, nil
}

// text renders a stored scalar as a label. NULL yields ("", true, nil).
func text(v any) (string, bool, error) {
	switch x := v.(type) {
	case nil:
		return "", true, nil
	case string:
		return x, false, nil
	case int64:
		return strconv.FormatInt(x, 10), false, nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), false, nil
	case bool:
		return strconv.FormatBool(x), false, nil
	default:
		return "", false, fmt.Errorf("%T: %w", v, ErrUnsupportedValue)
	}
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}

	return -1
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func identList(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = quoteIdent(c)
	}

	return strings.Join(q, ", ")
}
