package domain

import "unicode/utf8"

// CompareRows is the canonical dictionary order:
//   - shorter words (in codepoints) first
//   - then field by field with CompareCodepoints
//   - then rows with fewer fields first
func CompareRows(a, b Row) int {
	if d := utf8.RuneCountInString(a.Word()) - utf8.RuneCountInString(b.Word()); d != 0 {
		if d < 0 {
			return -1
		}
		return 1
	}

	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := CompareCodepoints(a[i], b[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// CompareCodepoints orders two strings by their Unicode codepoint sequences.
// A strict prefix sorts first. No normalization is applied.
//
// Invalid UTF-8 decodes as utf8.RuneError; two such positions are ordered by
// their raw byte so the result stays a total order.
func CompareCodepoints(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		if ra == utf8.RuneError && (na == 1 || nb == 1) && a[:na] != b[:nb] {
			if a[:na] < b[:nb] {
				return -1
			}
			return 1
		}
		a, b = a[na:], b[nb:]
	}

	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return -1
	}
	return 1
}
