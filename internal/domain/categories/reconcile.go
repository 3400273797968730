package categories

import "sort"

// Ensure reconciles a user-ordered category list against the set of
// names currently in use. The existing order is preserved exactly,
// including names no longer in use; observed names missing from it are
// appended at the end in lexicographic order so that a batch of new
// names lands deterministically. The result never contains duplicates.
//
// Append-only on purpose: the user reorders categories by hand, and a
// re-sort on every edit would discard that order.
func Ensure(observed, existing []string) []string {
	out := make([]string, len(existing))
	copy(out, existing)

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	var missing []string
	for _, name := range observed {
		if !present[name] {
			present[name] = true
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	return append(out, missing...)
}
