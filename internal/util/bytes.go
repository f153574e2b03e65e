package util

func CopyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// WipeBytes best-effort zeroes the provided byte slice in place.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// WipeArray32 best-effort zeroes the provided 32-byte array in place.
func WipeArray32(a *[32]byte) {
	for i := range a {
		a[i] = 0
	}
}

// ToArray32 copies b into a fixed array. It reports false if b is not 32 bytes long.
func ToArray32(b []byte) ([32]byte, bool) {
	var a [32]byte
	if len(b) != len(a) {
		return a, false
	}
	copy(a[:], b)
	return a, true
}
