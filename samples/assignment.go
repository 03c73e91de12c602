// SPDX-License-Identifier: MIT

package samples

import "fmt"

const opNewAssignment = "NewAssignment"

// Assignment maps every cell to exactly one sample row of a Table.
type Assignment struct {
	cells  []string
	sample []int
	counts []int
}

// NewAssignment resolves per-cell sample ids against t.
// cells[i] is the id of cell i; sampleIDs[i] is the sample it came from.
//
// Errors:
//   - ErrLengthMismatch, ErrDuplicateCell, ErrUnknownSample.
func NewAssignment(cells, sampleIDs []string, t *Table) (*Assignment, error) {
	if len(cells) != len(sampleIDs) {
		return nil, fmt.Errorf("%s: %d cells, %d sample ids: %w",
			opNewAssignment, len(cells), len(sampleIDs), ErrLengthMismatch)
	}
	a := &Assignment{
		cells:  append([]string(nil), cells...),
		sample: make([]int, len(cells)),
		counts: make([]int, t.Len()),
	}
	seen := make(map[string]struct{}, len(cells))
	for i, c := range cells {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%s: cell %q: %w", opNewAssignment, c, ErrDuplicateCell)
		}
		seen[c] = struct{}{}
		s, ok := t.Index(sampleIDs[i])
		if !ok {
			return nil, fmt.Errorf("%s: cell %q sample %q not in %s column: %w",
				opNewAssignment, c, sampleIDs[i], t.IDColumn(), ErrUnknownSample)
		}
		a.sample[i] = s
		a.counts[s]++
	}

	return a, nil
}

// Len returns the number of cells.
func (a *Assignment) Len() int { return len(a.sample) }

// NSamples returns the number of samples in the table the assignment was resolved against.
func (a *Assignment) NSamples() int { return len(a.counts) }

// Sample returns the sample row of cell i.
func (a *Assignment) Sample(i int) int { return a.sample[i] }

// Cell returns the id of cell i.
func (a *Assignment) Cell(i int) string { return a.cells[i] }

// Counts returns the number of cells per sample (copy).
func (a *Assignment) Counts() []int { return append([]int(nil), a.counts...) }

// EmptySamples returns the rows of samples that own no cells.
func (a *Assignment) EmptySamples() []int {
	var out []int
	for s, c := range a.counts {
		if c == 0 {
			out = append(out, s)
		}
	}

	return out
}
