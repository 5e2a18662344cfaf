package errors

import (
	"fmt"

	"go.lsp.dev/protocol"
)

// DocumentNotFoundError indicates that a document is not open in the editor session.
type DocumentNotFoundError struct {
	Document protocol.TextDocumentIdentifier
}

// Error is an implementation of the error interface.
func (n *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("Document %q not found", n.Document.URI)
}

// DocumentSizeLimitError indicates that has exceeded the specified size limit
type DocumentSizeLimitError struct {
	Size int64
}

// Error is an implementation of the error interface.
func (n *DocumentSizeLimitError) Error() string {
	return fmt.Sprintf("size of %d bytes exceeds permitted limit", n.Size)
}

// FileReadError indicates that a file referenced by an analysis result could not be read from disk.
type FileReadError struct {
	Path string
	Err  error
}

// Error is an implementation of the error interface.
func (n *FileReadError) Error() string {
	return fmt.Sprintf("unable to read file %q: %v", n.Path, n.Err)
}

// Unwrap returns the underlying filesystem error.
func (n *FileReadError) Unwrap() error {
	return n.Err
}
