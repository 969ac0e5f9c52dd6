package qa

import "strconv"

// FormatScore renders a relevance score with exactly two decimals.
func FormatScore(relevance float64) string {
	return strconv.FormatFloat(relevance, 'f', 2, 64)
}

// InRange reports whether a relevance lies in [0,1]. Values outside come
// from distances the backend should never send.
func InRange(relevance float64) bool {
	return relevance >= 0 && relevance <= 1
}
