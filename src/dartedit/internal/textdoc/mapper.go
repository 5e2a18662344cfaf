package textdoc

// Mapper converts between offsets and positions for one version of a text.
// *TextDocument is the snapshot-backed implementation; open editor documents provide another.
type Mapper interface {
	PositionAt(offset int) Position
	OffsetAt(position Position) int
}

var _ Mapper = (*TextDocument)(nil)
