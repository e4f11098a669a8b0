// Package builder holds the authoring-side engine: the ordered-list reorder
// operation and the autosave reconciler that persists draft surveys.
package builder

// Move returns a new slice with the element at from relocated to to. The
// target index is clamped to the list bounds, so moving before the start or
// past the end lands on the boundary instead of failing. All other elements
// keep their relative order. The input slice is never mutated; an
// out-of-range from yields an unchanged copy.
func Move[T any](list []T, from, to int) []T {
	out := make([]T, len(list))
	copy(out, list)
	if from < 0 || from >= len(list) {
		return out
	}
	if to < 0 {
		to = 0
	}
	if to > len(list)-1 {
		to = len(list) - 1
	}
	if from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}
