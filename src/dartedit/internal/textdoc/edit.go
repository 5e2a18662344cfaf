package textdoc

import "unicode/utf8"

// OffsetEdit replaces a span of text with new text.
type OffsetEdit struct {
	Span        Span
	Replacement string
}

// ApplyEdits applies the edits to text in the order given. Each edit is
// interpreted against the text produced by the edits before it, and its span
// is clamped to that text. Bytes outside the edited spans are kept as they are,
// including invalid UTF-8.
func ApplyEdits(text string, edits []OffsetEdit) string {
	for _, e := range edits {
		start := byteOffset(text, max(e.Span.Offset, 0))
		end := max(byteOffset(text, e.Span.End()), start)
		text = text[:start] + e.Replacement + text[end:]
	}
	return text
}

// byteOffset returns the byte index of the given UTF-16 offset in s, clamped to len(s).
// An offset inside a surrogate pair resolves to the start of its rune.
func byteOffset(s string, offset int) int {
	units := 0
	for i, r := range s {
		n := 1
		if r >= 0x10000 {
			n = 2
		}
		if units+n > offset {
			return i
		}
		units += n
	}
	return len(s)
}

// UTF16Len returns the number of codes in the UTF-16 transcoding of s.
func UTF16Len(s string) int {
	var n int
	for len(s) > 0 {
		n++

		// Fast path for ASCII.
		if s[0] < utf8.RuneSelf {
			s = s[1:]
			continue
		}

		r, size := utf8.DecodeRuneInString(s)
		if r >= 0x10000 {
			n++ // surrogate pair
		}
		s = s[size:]
	}
	return n
}
