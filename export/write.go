// SPDX-License-Identifier: MIT
// Package: export
//
// Purpose:
//   - Render ks.csv, nampcs.csv and the optional summary.yaml completely in
//     memory, then publish them together.
//
// Publishing:
//  1. Every file is written to a hidden temp file in the target directory
//     and fsynced.
//  2. Only after all temp files exist are they renamed into place.
//  3. Any failure before stage 2 removes every temp file, so a failed run
//     leaves the directory as it found it.

package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Output file names inside the result folder.
const (
	KsFile      = "ks.csv"
	ScoresFile  = "nampcs.csv"
	SummaryFile = "summary.yaml"
)

const (
	opWrite  = "Write"
	opReadKs = "ReadKs"
)

// Output is everything one run publishes.
type Output struct {
	SampleIDs []string
	Scores    mat.Matrix // samples × available components
	Ks        []int
	Summary   *Summary // nil = no summary file
}

// Write renders out and publishes it into dir, creating dir if needed.
// It returns the final paths in publication order.
func Write(dir string, out Output) ([]string, error) {
	ksData, err := RenderKs(out.Ks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opWrite, err)
	}
	scoreData, err := RenderScores(out.SampleIDs, out.Scores, MaxK(out.Ks))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opWrite, err)
	}
	files := []pending{
		{name: KsFile, data: ksData},
		{name: ScoresFile, data: scoreData},
	}
	if out.Summary != nil {
		data, err := RenderSummary(out.Summary)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opWrite, err)
		}
		files = append(files, pending{name: SummaryFile, data: data})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %s: %v: %w", opWrite, dir, err, ErrWrite)
	}

	return publish(dir, files)
}

type pending struct {
	name string
	data []byte
	tmp  string
}

func publish(dir string, files []pending) ([]string, error) {
	success := false
	defer func() {
		if success {
			return
		}
		for _, f := range files {
			if f.tmp != "" {
				_ = os.Remove(f.tmp)
			}
		}
	}()

	for i := range files {
		tmp, err := writeTemp(dir, files[i].name, files[i].data)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %v: %w", opWrite, files[i].name, err, ErrWrite)
		}
		files[i].tmp = tmp
	}

	paths := make([]string, 0, len(files))
	for i := range files {
		final := filepath.Join(dir, files[i].name)
		if err := os.Rename(files[i].tmp, final); err != nil {
			return nil, fmt.Errorf("%s: rename %s: %v: %w", opWrite, files[i].name, err, ErrWrite)
		}
		files[i].tmp = ""
		paths = append(paths, final)
	}
	success = true

	return paths, nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// ReadKs reads newline-delimited component counts. Only the first
// tab-separated field of each line is used; blank lines are skipped and
// fractional values are truncated toward zero.
func ReadKs(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", opReadKs, err, ErrReadKs)
	}
	defer f.Close()

	ks, err := parseKs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", opReadKs, path, err)
	}

	return ks, nil
}

func parseKs(r io.Reader) ([]int, error) {
	var ks []int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		field, _, _ := strings.Cut(sc.Text(), "\t")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if k, err := strconv.Atoi(field); err == nil {
			ks = append(ks, k)
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return nil, fmt.Errorf("line %d %q: %w", line, field, ErrParseKs)
		}
		ks = append(ks, int(math.Trunc(v)))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Join(ErrReadKs, err)
	}

	return ks, nil
}
