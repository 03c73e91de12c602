// Package samples models per-sample metadata and the cell → sample mapping.
//
// Table is keyed by a configurable sample-id column and holds declared
// numeric or categorical columns; Covariates and Batches validate requested
// names against those declarations at call time. Assignment resolves each
// cell's sample id to a table row.
package samples
