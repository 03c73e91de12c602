// Package nam builds the Neighborhood Abundance Matrix (NAM).
//
// For every cell, the NAM column is the sample composition of the cell's
// graph neighborhood: one-hot sample indicators diffused over the neighbor
// graph with the random-walk operator from cellgraph. Columns are probability
// distributions over samples.
//
// The hop schedule is explicit:
//
//	nam.Fixed(3)              // P³·S
//	nam.Average(1, 2, 3)      // (P + P² + P³)·S / 3
//	nam.Adaptive(15, 3, 3.0)  // step until median kurtosis stabilizes
//
// Example:
//
//	m, err := nam.Build(graph, assignment, nam.WithSchedule(nam.Fixed(3)))
package nam
