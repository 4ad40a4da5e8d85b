package ui

// Scroll returns the first visible row of a list. The offset only moves when
// the selected row would leave the window of visible rows. visible <= 0
// means every row fits.
func Scroll(offset, selected, length, visible int) int {
	if visible <= 0 || length <= visible {
		return 0
	}
	if selected < offset {
		offset = selected
	}
	if selected >= offset+visible {
		offset = selected - visible + 1
	}
	return max(0, min(offset, length-visible))
}

// Rows returns how many entries of perEntry lines fit in height after
// overhead lines, at least one. A height <= 0 yields 0, meaning unlimited.
func Rows(height, overhead, perEntry int) int {
	if height <= 0 {
		return 0
	}
	return max(1, (height-overhead)/perEntry)
}
