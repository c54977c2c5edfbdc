package utils

// PairKey returns the canonical key for an unordered user pair. Both
// orderings of the same two ids produce the same key, which makes session
// lookup direction-agnostic.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}
