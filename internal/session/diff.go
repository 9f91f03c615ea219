package session

// Diff returns the single change that turns prev into next: everything
// between their common prefix and common suffix. It reports false when the
// texts are equal.
//
// The result is minimal for a single contiguous edit, which is what a text
// widget produces for each keystroke, paste or cut.
func Diff(prev, next string) (RawChange, bool) {
	if prev == next {
		return RawChange{}, false
	}
	a, b := []rune(prev), []rune(next)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}

	// The suffix may not reach into the prefix of either text.
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	return RawChange{
		Offset:     prefix,
		AddedLen:   len(b) - prefix - suffix,
		RemovedLen: len(a) - prefix - suffix,
	}, true
}
