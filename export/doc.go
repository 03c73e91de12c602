// SPDX-License-Identifier: MIT

// Package export writes the NAM-PC result folder.
//
//	ks.csv        one component count per line, no header
//	nampcs.csv    tab-separated; "#IID", PC1 … PCk with k = max(ks)
//	summary.yaml  optional run summary
//
// Nothing is written until every file has been rendered, and the files
// appear together or not at all.
package export
