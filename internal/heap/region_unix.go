//go:build unix

package heap

import "golang.org/x/sys/unix"

// newRegion reserves the heap's backing store via an anonymous, private
// mmap so the arena is a real contiguous memory region rather than a Go
// slice the runtime GC might relocate or scan (spec §4.1: "a single
// contiguous memory region"). Falls back to a plain slice if the mapping
// is refused (e.g. seccomp sandboxes).
func newRegion(sizeBytes int) ([]byte, error) {
	size := (sizeBytes / Granularity) * Granularity
	if size <= 0 {
		size = Granularity
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return make([]byte, size), nil
	}
	return mem, nil
}
