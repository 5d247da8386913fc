//go:build !unix

package heap

// newRegion provides the portable fallback backing store: a plain byte
// slice. Used on platforms without an unix.Mmap (e.g. Windows, wasm).
func newRegion(sizeBytes int) ([]byte, error) {
	size := (sizeBytes / Granularity) * Granularity
	if size <= 0 {
		size = Granularity
	}
	return make([]byte, size), nil
}
