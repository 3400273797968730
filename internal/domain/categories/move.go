package categories

// MoveUp swaps name with its predecessor in order and returns the new
// list. If name is absent or already first, the input is returned
// unchanged. Adjacent swaps are the only reorder mechanism; there is
// no direct set-position operation.
func MoveUp(order []string, name string) ([]string, bool) {
	i := indexOf(order, name)
	if i <= 0 {
		return order, false
	}
	return swapped(order, i-1, i), true
}

// MoveDown swaps name with its successor in order and returns the new
// list. If name is absent or already last, the input is returned
// unchanged.
func MoveDown(order []string, name string) ([]string, bool) {
	i := indexOf(order, name)
	if i < 0 || i >= len(order)-1 {
		return order, false
	}
	return swapped(order, i, i+1), true
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func swapped(order []string, i, j int) []string {
	out := make([]string, len(order))
	copy(out, order)
	out[i], out[j] = out[j], out[i]
	return out
}
