// SPDX-License-Identifier: MIT

package container

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/katalvlaran/nampc/cellgraph"
	"github.com/katalvlaran/nampc/samples"
)

const opCreate = "Create"

// Create writes ds into a new container file at path. Numeric metadata
// columns are stored as REAL, categorical ones as TEXT; missing values as NULL.
func Create(ctx context.Context, path string, ds *Dataset) error {
	if ds == nil || ds.Table == nil || ds.Assignment == nil || ds.Graph == nil {
		return fmt.Errorf("%s: %w", opCreate, ErrNilDataset)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %s: %w", opCreate, path, ErrExists)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", opCreate, err, ErrStorage)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", opCreate, err, ErrStorage)
	}
	defer tx.Rollback()

	steps := []func(context.Context, *sql.Tx, *Dataset) error{writeSamples, writeCells, writeGraphs}
	for _, step := range steps {
		if err := step(ctx, tx, ds); err != nil {
			return fmt.Errorf("%s: %w", opCreate, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %v: %w", opCreate, err, ErrStorage)
	}

	return nil
}

func writeSamples(ctx context.Context, tx *sql.Tx, ds *Dataset) error {
	t := ds.Table
	names := append([]string{t.IDColumn()}, t.Columns()...)
	defs := quoteIdent(t.IDColumn()) + " TEXT NOT NULL"
	cols := make([]*samples.Column, 0, len(names)-1)
	for _, name := range names[1:] {
		c, _ := t.Column(name)
		cols = append(cols, c)
		typ := "REAL"
		if c.Kind == samples.Categorical {
			typ = "TEXT"
		}
		defs += ", " + quoteIdent(name) + " " + typ
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE "+quoteIdent(TableSamples)+" ("+defs+")"); err != nil {
		return fmt.Errorf("create %s: %v: %w", TableSamples, err, ErrStorage)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quoteIdent(TableSamples)+" ("+identList(names)+") VALUES ("+placeholders(len(names))+")")
	if err != nil {
		return fmt.Errorf("prepare %s: %v: %w", TableSamples, err, ErrStorage)
	}
	defer stmt.Close()

	ids := t.IDs()
	args := make([]any, len(names))
	for i, id := range ids {
		args[0] = id
		for j, c := range cols {
			switch {
			case c.Missing(i):
				args[j+1] = nil
			case c.Kind == samples.Numeric:
				args[j+1] = c.Float(i)
			default:
				args[j+1] = c.Label(i)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s %q: %v: %w", TableSamples, id, err, ErrStorage)
		}
	}

	return nil
}

func writeCells(ctx context.Context, tx *sql.Tx, ds *Dataset) error {
	sid := ds.Table.IDColumn()
	if _, err := tx.ExecContext(ctx, "CREATE TABLE "+quoteIdent(TableCells)+" (cell TEXT NOT NULL, "+quoteIdent(sid)+" TEXT NOT NULL)"); err != nil {
		return fmt.Errorf("create %s: %v: %w", TableCells, err, ErrStorage)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quoteIdent(TableCells)+" (cell, "+quoteIdent(sid)+") VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare %s: %v: %w", TableCells, err, ErrStorage)
	}
	defer stmt.Close()

	ids := ds.Table.IDs()
	a := ds.Assignment
	for i := 0; i < a.Len(); i++ {
		if _, err := stmt.ExecContext(ctx, a.Cell(i), ids[a.Sample(i)]); err != nil {
			return fmt.Errorf("insert %s %q: %v: %w", TableCells, a.Cell(i), err, ErrStorage)
		}
	}

	return nil
}

func writeGraphs(ctx context.Context, tx *sql.Tx, ds *Dataset) error {
	schema := "CREATE TABLE " + quoteIdent(TableGraphs) + ` (
		key   TEXT NOT NULL,
		i     INTEGER NOT NULL,
		j     INTEGER NOT NULL,
		value REAL NOT NULL
	);
	CREATE INDEX idx_obsp_key ON ` + quoteIdent(TableGraphs) + ` (key);`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create %s: %v: %w", TableGraphs, err, ErrStorage)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quoteIdent(TableGraphs)+" (key, i, j, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare %s: %v: %w", TableGraphs, err, ErrStorage)
	}
	defer stmt.Close()

	connKey, distKey := Keys(ds.Prefix)
	for _, entry := range []struct {
		key string
		g   *cellgraph.Graph
	}{{connKey, ds.Graph}, {distKey, ds.Distances}} {
		if entry.g == nil {
			continue
		}
		rows, cols, vals := entry.g.Triplets()
		for k := range rows {
			if _, err := stmt.ExecContext(ctx, entry.key, rows[k], cols[k], vals[k]); err != nil {
				return fmt.Errorf("insert %s %q: %v: %w", TableGraphs, entry.key, err, ErrStorage)
			}
		}
	}

	return nil
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	b := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}

	return string(b)
}
