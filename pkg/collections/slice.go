// Package collections holds small generic helpers and flag values.
package collections

// SliceIndex returns the index of the first element for which match returns
// true, or -1.
func SliceIndex[T any](slice []T, match func(T) bool) int {
	for i, v := range slice {
		if match(v) {
			return i
		}
	}
	return -1
}

// SliceRemoveIndex returns a copy of slice without the element at i.  The
// input is not modified.
func SliceRemoveIndex[T any](slice []T, i int) []T {
	result := make([]T, 0, len(slice)-1)
	result = append(result, slice[:i]...)
	result = append(result, slice[i+1:]...)
	return result
}
