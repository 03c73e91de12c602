// SPDX-License-Identifier: MIT

package cellgraph

import (
	"context"
	"fmt"
)

const opComponents = "Components"

// Components labels the weakly connected components of g by breadth-first
// search. Labels are dense, assigned in order of each component's lowest
// cell index; count is the number of components.
//
// Edges are followed in both directions, so directed kNN graphs are treated
// as their undirected closure. Cancellation is checked once per dequeued cell.
func Components(ctx context.Context, g *Graph) (labels []int, count int, err error) {
	if g == nil {
		return nil, 0, fmt.Errorf("%s: %w", opComponents, ErrNilGraph)
	}

	// Stage 1: reverse adjacency, so a source-only cell still reaches its targets' components.
	rev := g.transposed()

	// Stage 2: BFS from every unlabeled cell.
	labels = make([]int, g.n)
	for i := range labels {
		labels[i] = -1
	}
	queue := make([]int, 0, g.n)
	for start := 0; start < g.n; start++ {
		if labels[start] >= 0 {
			continue
		}
		labels[start] = count
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			default:
			}
			u := queue[0]
			queue = queue[1:]
			for _, adj := range [2]*Graph{g, rev} {
				for _, v := range adj.indices[adj.indptr[u]:adj.indptr[u+1]] {
					if labels[v] < 0 {
						labels[v] = count
						queue = append(queue, v)
					}
				}
			}
		}
		count++
	}

	return labels, count, nil
}

// transposed returns the pattern of Aᵀ; weights are carried over unchanged.
func (g *Graph) transposed() *Graph {
	indptr := make([]int, g.n+1)
	for _, j := range g.indices {
		indptr[j+1]++
	}
	for i := 0; i < g.n; i++ {
		indptr[i+1] += indptr[i]
	}
	next := append([]int(nil), indptr[:g.n]...)
	indices := make([]int, len(g.indices))
	weights := make([]float64, len(g.weights))
	for i := 0; i < g.n; i++ {
		for p := g.indptr[i]; p < g.indptr[i+1]; p++ {
			j := g.indices[p]
			indices[next[j]] = i
			weights[next[j]] = g.weights[p]
			next[j]++
		}
	}

	return &Graph{n: g.n, indptr: indptr, indices: indices, weights: weights}
}
