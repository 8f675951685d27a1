//go:build !unix

package region

// Map allocates an ordinary byte slice when anonymous mappings are not
// available.
func Map(size int) ([]byte, Unmap, error) {
	if size <= 0 {
		return nil, nil, ErrBadSize
	}
	return make([]byte, size), func() error { return nil }, nil
}
