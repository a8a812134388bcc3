package domain

// Difference returns the items of first whose identity does not occur in second.
//
// The boolean is false when the difference is empty, so callers can skip
// work without inspecting the slice. Duplicates in first are collapsed.
// The result follows the order of first but callers should not rely on it.
func Difference[T Item](first, second []T) ([]T, bool) {
	exclude := make(map[string]struct{}, len(second))
	for _, item := range second {
		exclude[item.Key()] = struct{}{}
	}

	var out []T
	for _, item := range first {
		key := item.Key()
		if _, ok := exclude[key]; ok {
			continue
		}
		exclude[key] = struct{}{}
		out = append(out, item)
	}

	return out, len(out) > 0
}
