package blocks

// MoveElement removes the element at from and reinserts it at to, shifting
// the elements in between. It returns list unchanged when either index is
// out of range. The backing array of list is reused.
func MoveElement[T any](list []T, from, to int) []T {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return list
	}
	v := list[from]
	if from < to {
		copy(list[from:to], list[from+1:to+1])
	} else {
		copy(list[to+1:from+1], list[to:from])
	}
	list[to] = v
	return list
}
