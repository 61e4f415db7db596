package common

// BytesEqual compares two byte slices. It is compiled to a simple VM loop
// and is usable from contract code unlike reflect-based comparisons.
func BytesEqual(a []byte, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
