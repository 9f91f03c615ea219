package topic

import "strings"

// Topic names an event, for example "history.undone". As a subscription
// pattern it may use the wildcards "*" and "**".
type Topic string

const (
	// WildcardSingle stands for exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti stands for any number of segments, including none.
	WildcardMulti = "**"

	// Separator divides segments.
	Separator = "."
)

// String implements fmt.Stringer.
func (t Topic) String() string {
	return string(t)
}

// Segments splits t at each separator. The empty topic has no segments.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsWildcard reports whether t is a pattern rather than a concrete topic.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid reports whether t is non-empty with no empty segment, so
// "history..undone" and ".history" are rejected.
func (t Topic) IsValid() bool {
	return t != "" && !strings.Contains(string(t), Separator+Separator) &&
		!strings.HasPrefix(string(t), Separator) && !strings.HasSuffix(string(t), Separator)
}

// Matches reports whether t is selected by pattern.
func (t Topic) Matches(pattern Topic) bool {
	return match(t.Segments(), pattern.Segments())
}

// match consumes the pattern left to right. A "**" tries every possible
// split of the remaining segments.
func match(segs, pat []string) bool {
	for len(pat) > 0 {
		head := pat[0]
		pat = pat[1:]

		if head == WildcardMulti {
			for skip := 0; skip <= len(segs); skip++ {
				if match(segs[skip:], pat) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 || (head != WildcardSingle && head != segs[0]) {
			return false
		}
		segs = segs[1:]
	}
	return len(segs) == 0
}
