// Package cellgraph stores the cell × cell neighbor graph of a single-cell
// dataset and derives the random-walk operator used to diffuse sample
// membership.
//
// The graph is kept in CSR form (FromTriplets) because a realistic dataset
// has hundreds of thousands of cells and only ~k neighbors per cell; the
// package never builds a dense cells × cells matrix.
//
// Transition wraps a Graph as P = D⁻¹(A + wI):
//
//	P, _ := cellgraph.NewTransition(g, cellgraph.WithSelfWeight(1))
//	_ = P.Apply(next, cur) // next = P · cur, both cells × samples
//
// Cells with no outgoing weight are isolated: P leaves their rows unchanged.
//
// Errors are sentinels classified under errkind (see errors.go).
package cellgraph
