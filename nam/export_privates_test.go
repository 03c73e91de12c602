// SPDX-License-Identifier: MIT

package nam

// White-box bridge for nam_test: the adaptive stopping statistic.
var (
	MedianKurtosis = medianKurtosis
	ExKurtosis     = exKurtosis
)
