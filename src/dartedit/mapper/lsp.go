package mapper

import (
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/uber/dartedit/src/dartedit/entity"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// SourceEditToTextEdit converts an offset based edit into a range based edit using the given mapper.
func SourceEditToTextEdit(m textdoc.Mapper, edit entity.SourceEdit) protocol.TextEdit {
	span := edit.Span()
	return rangeToTextEdit(PositionsToRange(m.PositionAt(span.Offset), m.PositionAt(span.End())), edit.Replacement)
}

// SourceEditsToTextEdits converts every edit of a group. All ranges are computed against the same text.
func SourceEditsToTextEdits(m textdoc.Mapper, edits []entity.SourceEdit) []protocol.TextEdit {
	result := make([]protocol.TextEdit, 0, len(edits))
	for _, edit := range edits {
		result = append(result, SourceEditToTextEdit(m, edit))
	}
	return result
}

// PathToTextDocumentIdentifier builds the identifier of a file on disk.
func PathToTextDocumentIdentifier(path string) protocol.TextDocumentIdentifier {
	return protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri.File(path))}
}

// TextEditsToTextDocumentEdit groups edits for a single file.
func TextEditsToTextDocumentEdit(path string, edits []protocol.TextEdit) protocol.TextDocumentEdit {
	return protocol.TextDocumentEdit{
		TextDocument: protocol.OptionalVersionedTextDocumentIdentifier{TextDocumentIdentifier: PathToTextDocumentIdentifier(path)},
		Edits:        edits,
	}
}

// ApplyContentChanges applies LSP content changes in order, each against the result of the previous one.
// A change without a range replaces the whole text. Ranges that fall outside the text are clamped.
func ApplyContentChanges(initialText string, changes []protocol.TextDocumentContentChangeEvent) string {
	text := initialText
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}

		d := textdoc.New("", text)
		start := d.OffsetAt(textdoc.PositionFromProtocol(change.Range.Start))
		end := max(d.OffsetAt(textdoc.PositionFromProtocol(change.Range.End)), start)
		text = textdoc.ApplyEdits(text, []textdoc.OffsetEdit{
			{Span: textdoc.Span{Offset: start, Length: end - start}, Replacement: change.Text},
		})
	}
	return text
}

// FullContentChange returns a change that replaces the whole of text with newText.
func FullContentChange(text, newText string) protocol.TextDocumentContentChangeEvent {
	d := textdoc.New("", text)
	r := PositionsToRange(d.PositionAt(0), d.PositionAt(d.Len()))
	return protocol.TextDocumentContentChangeEvent{
		Range: &r,
		Text:  newText,
	}
}

// DiffsToEditOffsets converts diffs into a list of edits based on UTF-16 offsets within the initial text.
func DiffsToEditOffsets(diffs []diffmatchpatch.Diff) (initialText string, offsets []textdoc.OffsetEdit) {
	var text []byte
	edits := make([]textdoc.OffsetEdit, 0, len(diffs))
	offset := 0
	for _, d := range diffs {
		start := offset
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			text = append(text, d.Text...)
			offset += textdoc.UTF16Len(d.Text)
			edits = append(edits, textdoc.OffsetEdit{Span: textdoc.Span{Offset: start, Length: offset - start}})
		case diffmatchpatch.DiffEqual:
			text = append(text, d.Text...)
			offset += textdoc.UTF16Len(d.Text)
		case diffmatchpatch.DiffInsert:
			edits = append(edits, textdoc.OffsetEdit{Span: textdoc.Span{Offset: start}, Replacement: d.Text})
		}
	}
	return string(text), edits
}

// EditOffsetsToTextEdits converts offset based edits on initialText into range based edits.
func EditOffsetsToTextEdits(initialText string, edits []textdoc.OffsetEdit) []protocol.TextEdit {
	protocolTextEdits := make([]protocol.TextEdit, 0, len(edits))
	m := textdoc.New("", initialText)
	for _, edit := range edits {
		startPosition := m.PositionAt(edit.Span.Offset)
		endPosition := m.PositionAt(edit.Span.End())
		protocolTextEdits = append(protocolTextEdits, rangeToTextEdit(PositionsToRange(startPosition, endPosition), edit.Replacement))
	}
	return protocolTextEdits
}

// DiffsToTextEdits converts diffs into to a list of text edits that can be applied to a document.
func DiffsToTextEdits(diffs []diffmatchpatch.Diff) []protocol.TextEdit {
	foundText, edits := DiffsToEditOffsets(diffs)
	return EditOffsetsToTextEdits(foundText, edits)
}

// MinimizeEdits returns the smallest set of edits found by diffing oldText against newText.
func MinimizeEdits(oldText, newText string) []protocol.TextEdit {
	if oldText == newText {
		return nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	return DiffsToTextEdits(dmp.DiffCleanupMerge(diffs))
}

// PositionsToRange converts two positions into a range.
func PositionsToRange(start, end textdoc.Position) protocol.Range {
	return textdoc.Range{Start: start, End: end}.ToProtocol()
}

func rangeToTextEdit(r protocol.Range, text string) protocol.TextEdit {
	return protocol.TextEdit{
		Range:   r,
		NewText: text,
	}
}
