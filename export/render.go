// SPDX-License-Identifier: MIT

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// IDHeader heads the sample id column of the scores file.
const IDHeader = "#IID"

const (
	opRenderKs      = "RenderKs"
	opRenderScores  = "RenderScores"
	opRenderSummary = "RenderSummary"
)

// RenderKs renders one count per line, no header.
func RenderKs(ks []int) ([]byte, error) {
	if len(ks) == 0 {
		return nil, fmt.Errorf("%s: %w", opRenderKs, ErrNoKs)
	}
	var buf bytes.Buffer
	for i, k := range ks {
		if k < 1 {
			return nil, fmt.Errorf("%s: entry %d is %d: %w", opRenderKs, i+1, k, ErrKsRange)
		}
		buf.WriteString(strconv.Itoa(k))
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// RenderScores renders a tab-separated table: header "#IID PC1 … PCk",
// then one row per sample in ids order with the first k score columns.
func RenderScores(ids []string, scores mat.Matrix, k int) ([]byte, error) {
	if scores == nil {
		return nil, fmt.Errorf("%s: %w", opRenderScores, ErrNilScores)
	}
	n, avail := scores.Dims()
	if len(ids) != n {
		return nil, fmt.Errorf("%s: %d ids, %d rows: %w", opRenderScores, len(ids), n, ErrIDCount)
	}
	if k < 1 || k > avail {
		return nil, fmt.Errorf("%s: k=%d, %d columns: %w", opRenderScores, k, avail, ErrKsRange)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'

	record := make([]string, k+1)
	record[0] = IDHeader
	for c := 1; c <= k; c++ {
		record[c] = "PC" + strconv.Itoa(c)
	}
	if err := w.Write(record); err != nil {
		return nil, fmt.Errorf("%s: %w", opRenderScores, err)
	}
	for i, id := range ids {
		record[0] = id
		for c := 0; c < k; c++ {
			record[c+1] = strconv.FormatFloat(scores.At(i, c), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", opRenderScores, i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", opRenderScores, err)
	}

	return buf.Bytes(), nil
}

// Summary describes one run; written as YAML next to the tables when requested.
type Summary struct {
	Input             string    `yaml:"input"`
	SampleID          string    `yaml:"sample_id"`
	Samples           int       `yaml:"samples"`
	Cells             int       `yaml:"cells"`
	EmptySamples      []string  `yaml:"empty_samples,omitempty"`
	GraphKey          string    `yaml:"graph_key"`
	Edges             int       `yaml:"edges"`
	GraphComponents   int       `yaml:"graph_components"`
	IsolatedCells     int       `yaml:"isolated_cells"`
	Schedule          string    `yaml:"schedule"`
	Hops              int       `yaml:"hops"`
	SelfWeight        float64   `yaml:"self_weight"`
	Batches           int       `yaml:"batches"`
	Covariates        []string  `yaml:"covariates,omitempty"`
	DOF               int       `yaml:"dof"`
	Standardized      bool      `yaml:"standardized"`
	Method            string    `yaml:"method"`
	Seed              uint64    `yaml:"seed"`
	Components        int       `yaml:"components"`
	VarianceExplained []float64 `yaml:"variance_explained,flow"`
	Cumulative        []float64 `yaml:"cumulative,flow"`
	Thresholds        []float64 `yaml:"thresholds,flow,omitempty"`
	KsSource          string    `yaml:"ks_source"`
	Ks                []int     `yaml:"ks,flow"`
}

// RenderSummary marshals s with yaml.v3.
func RenderSummary(s *Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("%s: %w", opRenderSummary, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", opRenderSummary, err)
	}

	return buf.Bytes(), nil
}

// MaxK returns the largest count in ks (0 for an empty list).
func MaxK(ks []int) int {
	if len(ks) == 0 {
		return 0
	}

	return slices.Max(ks)
}
