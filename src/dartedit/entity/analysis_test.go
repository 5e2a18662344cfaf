package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
)

func TestDecodeSourceChange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SourceChange
		wantErr bool
	}{
		{
			name: "json change",
			input: `{"message": "Rename class", "edits": [
				{"file": "/ws/lib/a.dart", "fileStamp": 12, "edits": [{"offset": 6, "length": 3, "replacement": "Bar\n"}]}
			]}`,
			want: SourceChange{
				Message: "Rename class",
				Edits: []SourceFileEdit{
					{File: "/ws/lib/a.dart", FileStamp: 12, Edits: []SourceEdit{{Offset: 6, Length: 3, Replacement: "Bar\n"}}},
				},
			},
		},
		{
			name: "yaml change",
			input: `
message: Rename
edits:
  - file: /ws/lib/b.dart
    edits:
      - offset: 0
        length: 1
        replacement: x
`,
			want: SourceChange{
				Message: "Rename",
				Edits: []SourceFileEdit{
					{File: "/ws/lib/b.dart", Edits: []SourceEdit{{Offset: 0, Length: 1, Replacement: "x"}}},
				},
			},
		},
		{
			name: "refactoring response",
			input: `{"initialProblems": [], "optionsProblems": [], "finalProblems": [],
				"change": {"message": "Rename", "edits": [{"file": "/ws/c.dart", "edits": []}]}}`,
			want: SourceChange{
				Message: "Rename",
				Edits:   []SourceFileEdit{{File: "/ws/c.dart", Edits: []SourceEdit{}}},
			},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "malformed input",
			input:   `{"edits": [`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSourceChange(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceEditSpan(t *testing.T) {
	assert.Equal(t, textdoc.Span{Offset: 4, Length: 2}, SourceEdit{Offset: 4, Length: 2}.Span())
	assert.Equal(t, textdoc.Span{Offset: 0, Length: 0}, SourceEdit{Offset: -3, Length: -1}.Span())
}

func TestSourceFileEditOffsetEdits(t *testing.T) {
	group := SourceFileEdit{
		File: "/ws/a.dart",
		Edits: []SourceEdit{
			{Offset: 10, Length: 1, Replacement: "b"},
			{Offset: 2, Length: 0, Replacement: "a"},
		},
	}
	assert.Equal(t, []textdoc.OffsetEdit{
		{Span: textdoc.Span{Offset: 10, Length: 1}, Replacement: "b"},
		{Span: textdoc.Span{Offset: 2}, Replacement: "a"},
	}, group.OffsetEdits())
}

func TestSourceChangeFiles(t *testing.T) {
	change := SourceChange{
		Edits: []SourceFileEdit{
			{File: "/ws/b.dart"},
			{File: "/ws/a.dart"},
			{File: "/ws/b.dart"},
		},
	}
	assert.Equal(t, []string{"/ws/b.dart", "/ws/a.dart"}, change.Files())
}

func TestProblemSeverityIsBlocking(t *testing.T) {
	assert.False(t, ProblemSeverityInfo.IsBlocking())
	assert.False(t, ProblemSeverityWarning.IsBlocking())
	assert.True(t, ProblemSeverityError.IsBlocking())
	assert.True(t, ProblemSeverityFatal.IsBlocking())
}
