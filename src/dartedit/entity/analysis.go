// Package entity holds the analysis engine's wire types.
package entity

import (
	"fmt"
	"io"

	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
	"gopkg.in/yaml.v3"
)

// RefactoringKind identifies a refactoring supported by the analysis engine.
type RefactoringKind string

const (
	// RefactoringKindRename renames the element at the given offset.
	RefactoringKindRename RefactoringKind = "RENAME"
)

// ProblemSeverity is the severity of a refactoring problem.
type ProblemSeverity string

const (
	ProblemSeverityInfo    ProblemSeverity = "INFO"
	ProblemSeverityWarning ProblemSeverity = "WARNING"
	ProblemSeverityError   ProblemSeverity = "ERROR"
	ProblemSeverityFatal   ProblemSeverity = "FATAL"
)

// IsBlocking reports whether a problem of this severity prevents the refactoring from being applied.
func (s ProblemSeverity) IsBlocking() bool {
	return s == ProblemSeverityError || s == ProblemSeverityFatal
}

// SourceEdit replaces Length characters at Offset with Replacement.
// Offsets are counted in UTF-16 code units of the file's current text.
type SourceEdit struct {
	Offset      int    `json:"offset" yaml:"offset"`
	Length      int    `json:"length" yaml:"length"`
	Replacement string `json:"replacement" yaml:"replacement"`
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Span returns the replaced range, with negative values raised to 0.
func (e SourceEdit) Span() textdoc.Span {
	return textdoc.Span{Offset: max(e.Offset, 0), Length: max(e.Length, 0)}
}

// SourceFileEdit is an edit group: all edits for one file, in the order they should be applied.
type SourceFileEdit struct {
	File      string       `json:"file" yaml:"file"`
	FileStamp int64        `json:"fileStamp" yaml:"fileStamp"`
	Edits     []SourceEdit `json:"edits" yaml:"edits"`
}

// OffsetEdits converts the group into edits that textdoc.ApplyEdits understands.
func (e SourceFileEdit) OffsetEdits() []textdoc.OffsetEdit {
	result := make([]textdoc.OffsetEdit, len(e.Edits))
	for i, edit := range e.Edits {
		result[i] = textdoc.OffsetEdit{Span: edit.Span(), Replacement: edit.Replacement}
	}
	return result
}

// Location is a selection position reported with a change.
type Location struct {
	File   string `json:"file" yaml:"file"`
	Offset int    `json:"offset" yaml:"offset"`
}

// SourceChange is a set of edit groups that together implement one change, such as a rename.
type SourceChange struct {
	Message   string           `json:"message" yaml:"message"`
	Edits     []SourceFileEdit `json:"edits" yaml:"edits"`
	Selection *Location        `json:"selection,omitempty" yaml:"selection,omitempty"`
	ID        string           `json:"id,omitempty" yaml:"id,omitempty"`
}

// Files returns the distinct file paths touched by the change, in first-seen order.
func (c SourceChange) Files() []string {
	seen := make(map[string]struct{}, len(c.Edits))
	files := make([]string, 0, len(c.Edits))
	for _, group := range c.Edits {
		if _, ok := seen[group.File]; ok {
			continue
		}
		seen[group.File] = struct{}{}
		files = append(files, group.File)
	}
	return files
}

// RefactoringProblem describes why a refactoring can not, or should not, be applied.
type RefactoringProblem struct {
	Severity ProblemSeverity `json:"severity" yaml:"severity"`
	Message  string          `json:"message" yaml:"message"`
}

// RenameOptions are the options of a RENAME refactoring.
type RenameOptions struct {
	NewName string `json:"newName" yaml:"newName"`
}

// RefactoringRequest asks the analysis engine to compute a refactoring.
type RefactoringRequest struct {
	Kind         RefactoringKind `json:"kind" yaml:"kind"`
	File         string          `json:"file" yaml:"file"`
	Offset       int             `json:"offset" yaml:"offset"`
	Length       int             `json:"length" yaml:"length"`
	ValidateOnly bool            `json:"validateOnly" yaml:"validateOnly"`
	Options      *RenameOptions  `json:"options,omitempty" yaml:"options,omitempty"`
}

// RefactoringResponse is the analysis engine's answer to a RefactoringRequest.
type RefactoringResponse struct {
	InitialProblems []RefactoringProblem `json:"initialProblems" yaml:"initialProblems"`
	OptionsProblems []RefactoringProblem `json:"optionsProblems" yaml:"optionsProblems"`
	FinalProblems   []RefactoringProblem `json:"finalProblems" yaml:"finalProblems"`
	Change          *SourceChange        `json:"change,omitempty" yaml:"change,omitempty"`
}

// FormatRequest asks the analysis engine to format a whole file.
type FormatRequest struct {
	File            string `json:"file" yaml:"file"`
	SelectionOffset int    `json:"selectionOffset" yaml:"selectionOffset"`
	SelectionLength int    `json:"selectionLength" yaml:"selectionLength"`
	LineLength      int    `json:"lineLength,omitempty" yaml:"lineLength,omitempty"`
}

// FormatResponse holds the edits that format a file.
type FormatResponse struct {
	Edits           []SourceEdit `json:"edits" yaml:"edits"`
	SelectionOffset int          `json:"selectionOffset" yaml:"selectionOffset"`
	SelectionLength int          `json:"selectionLength" yaml:"selectionLength"`
}

// OrganizeDirectivesRequest asks the analysis engine to sort and clean up the directives of a file.
type OrganizeDirectivesRequest struct {
	File string `json:"file" yaml:"file"`
}

// OrganizeDirectivesResponse holds the edit group that organizes the directives.
type OrganizeDirectivesResponse struct {
	Edit SourceFileEdit `json:"edit" yaml:"edit"`
}

// DecodeSourceChange reads a change recorded from the analysis engine. JSON and YAML are both accepted.
// A refactoring response is also accepted, in which case its change is returned.
func DecodeSourceChange(r io.Reader) (SourceChange, error) {
	var doc struct {
		SourceChange `yaml:",inline"`
		Change       *SourceChange `yaml:"change"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return SourceChange{}, fmt.Errorf("decoding change: empty input")
		}
		return SourceChange{}, fmt.Errorf("decoding change: %w", err)
	}
	if doc.Change != nil {
		return *doc.Change, nil
	}
	return doc.SourceChange, nil
}
