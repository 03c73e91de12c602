// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nampc/export"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	root := newRootCmd(&logs)
	root.SetArgs(args)
	root.SetOut(&logs)
	err := root.ExecuteContext(context.Background())

	return logs.String(), err
}

func readTSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	rows, err := r.ReadAll()
	require.NoError(t, err)

	return rows
}

func TestSimulateThenExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cells.db")
	out := filepath.Join(dir, "res")

	logs, err := run(t, "simulate", "--out", db, "--seed", "5", "--samples", "16", "--cells", "25", "--neighbors", "8")
	require.NoError(t, err, logs)
	require.FileExists(t, db)

	logs, err = run(t, "export", "--sc_object_path", db, "--res_folder", out,
		"--corr_batch", "--covs", "age", "--summary")
	require.NoError(t, err, logs)

	ks := readTSV(t, filepath.Join(out, export.KsFile))
	require.Len(t, ks, 2)

	rows := readTSV(t, filepath.Join(out, export.ScoresFile))
	require.Len(t, rows, 17)
	require.Equal(t, export.IDHeader, rows[0][0])
	require.FileExists(t, filepath.Join(out, export.SummaryFile))
}

func TestExportOverrideFromConfig(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cells.db")
	out := filepath.Join(dir, "res")
	_, err := run(t, "simulate", "--out", db, "--samples", "12", "--cells", "20", "--neighbors", "6")
	require.NoError(t, err)

	ksPath := filepath.Join(dir, "ks.txt")
	require.NoError(t, os.WriteFile(ksPath, []byte("1\n3\n"), 0o644))
	cfgPath := filepath.Join(dir, "run.yaml")
	cfg := "sc_object_path: " + db + "\nres_folder: /nonexistent/ignored\nks: " + ksPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	// --res_folder on the command line wins over the file.
	logs, err := run(t, "export", "--config", cfgPath, "--res_folder", out)
	require.NoError(t, err, logs)

	rows := readTSV(t, filepath.Join(out, export.ScoresFile))
	require.Len(t, rows[0], 4)
	require.Equal(t, []string{"#IID", "PC1", "PC2", "PC3"}, rows[0])
}

func TestJoinLegacyBools(t *testing.T) {
	cases := []struct {
		in, want []string
	}{
		{[]string{"export", "--corr_batch", "True", "--covs", "age"}, []string{"export", "--corr_batch=True", "--covs", "age"}},
		{[]string{"export", "--corr_batch", "false"}, []string{"export", "--corr_batch=false"}},
		{[]string{"export", "--corr_batch", "--summary"}, []string{"export", "--corr_batch", "--summary"}},
		{[]string{"export", "--corr_batch"}, []string{"export", "--corr_batch"}},
		{[]string{"export", "--summary", "true"}, []string{"export", "--summary", "true"}},
		{[]string{"export", "--corr_batch=1"}, []string{"export", "--corr_batch=1"}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, joinLegacyBools(tc.in, "corr_batch"), "%v", tc.in)
	}
}

func TestExportLegacyCorrBatchValue(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cells.db")
	out := filepath.Join(dir, "res")
	_, err := run(t, "simulate", "--out", db, "--samples", "12", "--cells", "20", "--neighbors", "6")
	require.NoError(t, err)

	args := []string{"export", "--sc_object_path", db, "--res_folder", out, "--corr_batch", "True", "--summary"}
	_, err = run(t, args...)
	require.Error(t, err, "a bare value is a positional argument without rewriting")

	logs, err := run(t, joinLegacyBools(args, "corr_batch")...)
	require.NoError(t, err, logs)
	raw, err := os.ReadFile(filepath.Join(out, export.SummaryFile))
	require.NoError(t, err)
	require.Contains(t, string(raw), "batches: 2")
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name  string
		args  []string
		class string
	}{
		{"no input", []string{"export", "--res_folder", dir}, "class=configuration"},
		{"missing container", []string{"export", "--sc_object_path", filepath.Join(dir, "nope.db"), "--res_folder", dir}, "class=configuration"},
		{"bad method", []string{"export", "--sc_object_path", "x.db", "--res_folder", dir, "--method", "qr"}, "class=configuration"},
		{"simulate without out", []string{"simulate"}, "class=configuration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs, err := run(t, tc.args...)
			require.Error(t, err)
			require.True(t, strings.Contains(logs, tc.class), logs)
		})
	}
}

func TestBadLogLevel(t *testing.T) {
	_, err := run(t, "--log_level", "loud", "simulate", "--out", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
}
