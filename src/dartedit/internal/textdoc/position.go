package textdoc

import (
	"fmt"
	"math"

	"go.lsp.dev/protocol"
)

// Position is a zero-based line and column. Unlike protocol.Position it may hold
// negative or overflowing values, which OffsetAt clamps.
type Position struct {
	Line      int
	Character int
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// ToProtocol converts the position into its LSP representation.
// Negative values become 0.
func (p Position) ToProtocol() protocol.Position {
	return protocol.Position{
		Line:      toUint32(p.Line),
		Character: toUint32(p.Character),
	}
}

// PositionFromProtocol converts an LSP position.
func PositionFromProtocol(p protocol.Position) Position {
	return Position{Line: int(p.Line), Character: int(p.Character)}
}

// Range is a pair of positions.
type Range struct {
	Start Position
	End   Position
}

// ToProtocol converts the range into its LSP representation.
func (r Range) ToProtocol() protocol.Range {
	return protocol.Range{
		Start: r.Start.ToProtocol(),
		End:   r.End.ToProtocol(),
	}
}

// Span is a contiguous range of the flat text.
type Span struct {
	Offset int
	Length int
}

// End returns the offset just past the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

func toUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
