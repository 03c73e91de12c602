// SPDX-License-Identifier: MIT

// Package container reads and writes the single-cell input container: one
// SQLite file (pure-Go driver modernc.org/sqlite) holding per-sample
// metadata, the cell → sample map and sparse cell × cell matrices.
//
// A custom graph prefix selects <prefix>_connectivities and
// <prefix>_distances in place of the default keys.
package container
