// Package textdoc converts between flat offsets and line/column positions for a fixed text.
//
// Offsets and columns are counted in UTF-16 code units, the unit used by both the Dart
// analysis server and LSP clients. For ASCII text a code unit is a byte.
package textdoc

import (
	"sort"
	"sync"
	"unicode/utf16"
)

// TextDocument is an immutable snapshot of a file's text.
// A new TextDocument must be created whenever the text changes.
type TextDocument struct {
	FileName string
	Text     string

	// Line information is only needed once a conversion is requested,
	// so it is computed lazily.
	// Call initLines() before accessing fields below.
	linesOnce sync.Once
	units     []uint16 // UTF-16 transcoding of Text
	lineStart []int    // offset of start of ith line (0-based); last=Len() iff terminator-ended
}

// New creates a snapshot for the given file name and content.
func New(fileName, text string) *TextDocument {
	return &TextDocument{FileName: fileName, Text: text}
}

// initLines populates the lineStart table.
// \r\n counts as a single terminator, as do lone \r and \n.
func (d *TextDocument) initLines() {
	d.linesOnce.Do(func() {
		d.units = utf16.Encode([]rune(d.Text))
		d.lineStart = []int{0}
		for i := 0; i < len(d.units); i++ {
			switch d.units[i] {
			case '\r':
				if i+1 < len(d.units) && d.units[i+1] == '\n' {
					i++
				}
			case '\n':
			default:
				continue
			}
			d.lineStart = append(d.lineStart, i+1)
		}
	})
}

// Len returns the length of the text in UTF-16 code units.
func (d *TextDocument) Len() int {
	d.initLines()
	return len(d.units)
}

// LineCount returns the number of lines. A text ending with a line terminator
// has an empty final line, and an empty text has exactly one line.
func (d *TextDocument) LineCount() int {
	d.initLines()
	return len(d.lineStart)
}

// LineStart returns the offset at which the given line begins, clamped to the text.
func (d *TextDocument) LineStart(line int) int {
	d.initLines()
	switch {
	case line < 0:
		return 0
	case line >= len(d.lineStart):
		return len(d.units)
	}
	return d.lineStart[line]
}

// PositionAt converts an offset into a position. Out of range offsets are clamped.
func (d *TextDocument) PositionAt(offset int) Position {
	d.initLines()
	offset = max(min(offset, len(d.units)), 0)

	// In effect, binary search returns a 1-based result.
	line := sort.Search(len(d.lineStart), func(i int) bool {
		return offset < d.lineStart[i]
	})
	line-- // 0-based

	return Position{Line: line, Character: offset - d.lineStart[line]}
}

// OffsetAt converts a position into an offset. Lines before the start map to 0,
// lines past the end map to Len(), and columns past the end of a line snap to
// the start of the next line.
func (d *TextDocument) OffsetAt(p Position) int {
	d.initLines()
	if p.Line >= len(d.lineStart) {
		return len(d.units)
	} else if p.Line < 0 {
		return 0
	}

	lineOffset := d.lineStart[p.Line]
	nextLineOffset := len(d.units)
	if p.Line+1 < len(d.lineStart) {
		nextLineOffset = d.lineStart[p.Line+1]
	}
	return lineOffset + max(min(p.Character, nextLineOffset-lineOffset), 0)
}

// RangeOf converts a span into a range. The span is clamped to the text.
func (d *TextDocument) RangeOf(s Span) Range {
	return Range{
		Start: d.PositionAt(s.Offset),
		End:   d.PositionAt(s.Offset + s.Length),
	}
}

// Content returns the full text of the snapshot.
func (d *TextDocument) Content() string {
	return d.Text
}
