package docsync

import (
	"sync"

	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
)

// LiveDocument maps offsets for a document open in the editor session.
// Every query uses the document's current text, including unsaved changes.
// Once the document is closed, queries are answered from the last text seen.
type LiveDocument struct {
	c   *controller
	key string

	mu   sync.Mutex
	last *textdoc.TextDocument
}

var _ textdoc.Mapper = (*LiveDocument)(nil)

// FileName returns the path of the document.
func (d *LiveDocument) FileName() string {
	return d.key
}

// PositionAt converts an offset in the current text into a position.
func (d *LiveDocument) PositionAt(offset int) textdoc.Position {
	return d.current().PositionAt(offset)
}

// OffsetAt converts a position in the current text into an offset.
func (d *LiveDocument) OffsetAt(position textdoc.Position) int {
	return d.current().OffsetAt(position)
}

// Content returns the current text of the document.
func (d *LiveDocument) Content() string {
	return d.current().Text
}

func (d *LiveDocument) current() *textdoc.TextDocument {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s := d.c.snapshot(d.key); s != nil {
		d.last = s
	}
	return d.last
}
