package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoEditsError reports that an analysis result contained no edit groups.
	NoEditsError = New("change contains no edits")
	// EmptyFilePathError reports that an edit group is missing its file path.
	EmptyFilePathError = New("edit group has no file path")
)

// IsBadChange reports whether the error is caused by a malformed analysis result.
func IsBadChange(e error) bool {
	return stderr.Is(e, NoEditsError) || stderr.Is(e, EmptyFilePathError)
}
