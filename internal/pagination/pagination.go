// Package pagination slices ordered lists into fixed-size pages.
package pagination

// Page returns the items on the zero-based page index and the total number
// of pages, computed as ceil(len(items) / size). An index outside the range
// yields an empty page rather than an error.
func Page[T any](items []T, size, index int) ([]T, int) {
	if size <= 0 {
		return nil, 0
	}
	total := (len(items) + size - 1) / size
	if index < 0 || index >= total {
		return []T{}, total
	}
	start := index * size
	end := min(start+size, len(items))
	return items[start:end], total
}
