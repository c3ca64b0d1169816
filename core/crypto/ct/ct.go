// Package ct provides constant-time byte helpers used by token verification.
package ct

// Equal reports whether a and b hold the same bytes. The loop always runs over
// the longer input and never exits early, so timing depends only on lengths.
func Equal(a, b []byte) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	var diff byte
	for i := 0; i < n; i++ {
		var x, y byte
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		diff |= x ^ y
	}

	// length difference folded in without a branch on content
	l := uint64(len(a)) ^ uint64(len(b))
	for l != 0 {
		diff |= byte(l)
		l >>= 8
	}

	return diff == 0
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
