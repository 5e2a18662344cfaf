package docsync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	editerrors "github.com/uber/dartedit/src/dartedit/internal/errors"
	"github.com/uber/dartedit/src/dartedit/internal/fs/fsmock"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const _samplePath = "/ws/lib/main.dart"

func newTestController(t *testing.T, fs *fsmock.MockFS) *controller {
	mockConfig, err := config.NewStaticProvider(map[string]interface{}{
		"docsync": map[string]interface{}{"maxFileSizeBytes": 2000},
	})
	require.NoError(t, err)

	c, err := New(Params{
		Logger: zap.NewNop().Sugar(),
		Stats:  tally.NewTestScope("testing", make(map[string]string, 0)),
		Config: mockConfig,
		FS:     fs,
	})
	require.NoError(t, err)
	return c.(*controller)
}

func sampleURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(uri.File(path))
}

func openSample(t *testing.T, c *controller, path, text string) {
	err := c.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        sampleURI(path),
			LanguageID: "dart",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		c := newTestController(t, nil)
		assert.Equal(t, int64(2000), c.maxFileSizeBytes)
	})

	t.Run("missing max size", func(t *testing.T) {
		mockConfig, _ := config.NewStaticProvider(map[string]interface{}{})
		_, err := New(Params{
			Logger: zap.NewNop().Sugar(),
			Stats:  tally.NoopScope,
			Config: mockConfig,
		})
		assert.Error(t, err)
	})
}

func TestDidOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("tracks document", func(t *testing.T) {
		c := newTestController(t, nil)
		openSample(t, c, _samplePath, "void main() {}")

		doc, err := c.GetTextDocument(ctx, protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)})
		require.NoError(t, err)
		assert.Equal(t, "void main() {}", doc.Text)
		assert.Equal(t, []string{_samplePath}, c.OpenDocuments())
	})

	t.Run("oversized document is not tracked", func(t *testing.T) {
		c := newTestController(t, nil)
		big := make([]byte, 2001)
		openSample(t, c, _samplePath, string(big))

		_, ok := c.Document(_samplePath)
		assert.False(t, ok)
	})

	t.Run("unsupported uri", func(t *testing.T) {
		c := newTestController(t, nil)
		err := c.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{URI: "untitled:Untitled-1"},
		})
		assert.Error(t, err)
	})
}

func TestDidChange(t *testing.T) {
	ctx := context.Background()

	t.Run("applies changes", func(t *testing.T) {
		c := newTestController(t, nil)
		openSample(t, c, _samplePath, "one\ntwo")

		err := c.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
				Version:                2,
			},
			ContentChanges: []protocol.TextDocumentContentChangeEvent{
				{
					Range: &protocol.Range{Start: protocol.Position{Line: 1, Character: 0}, End: protocol.Position{Line: 1, Character: 3}},
					Text:  "2",
				},
			},
		})
		require.NoError(t, err)

		doc, err := c.GetTextDocument(ctx, protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)})
		require.NoError(t, err)
		assert.Equal(t, "one\n2", doc.Text)
		assert.Equal(t, int32(2), doc.Version)
	})

	t.Run("document not open", func(t *testing.T) {
		c := newTestController(t, nil)
		err := c.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
			},
		})
		var notFound *editerrors.DocumentNotFoundError
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("whole document change", func(t *testing.T) {
		c := newTestController(t, nil)
		openSample(t, c, _samplePath, "one\ntwo")
		require.NoError(t, c.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
				Version:                2,
			},
			ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "replaced"}},
		}))

		live, ok := c.Document(_samplePath)
		require.True(t, ok)
		assert.Equal(t, "replaced", live.Content())
	})

	t.Run("change exceeds size limit stops tracking", func(t *testing.T) {
		c := newTestController(t, nil)
		openSample(t, c, _samplePath, "small")
		live, ok := c.Document(_samplePath)
		require.True(t, ok)

		err := c.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
			},
			ContentChanges: []protocol.TextDocumentContentChangeEvent{
				{Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 5}, End: protocol.Position{Line: 0, Character: 5}}, Text: string(make([]byte, 3000))},
			},
		})
		assert.NoError(t, err)

		_, ok = c.Document(_samplePath)
		assert.False(t, ok)
		assert.Empty(t, c.OpenDocuments())
		// A mapper handed out earlier keeps its last text instead of the rejected one.
		assert.Equal(t, "small", live.Content())
	})
}

func TestDidSaveAndClose(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, nil)
	openSample(t, c, _samplePath, "a")

	require.NoError(t, c.DidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
		Text:         "saved",
	}))
	doc, err := c.GetTextDocument(ctx, protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)})
	require.NoError(t, err)
	assert.Equal(t, "saved", doc.Text)

	require.NoError(t, c.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
	}))
	assert.Empty(t, c.OpenDocuments())

	err = c.DidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
	})
	assert.Error(t, err)
}

func TestGetDocumentState(t *testing.T) {
	ctx := context.Background()
	id := protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)}
	change := &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: id, Version: 2},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 0, Character: 1}}, Text: "b"},
		},
	}

	t.Run("closed", func(t *testing.T) {
		c := newTestController(t, nil)
		state, err := c.GetDocumentState(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, DocumentStateClosed, state)
	})

	t.Run("clean", func(t *testing.T) {
		c := newTestController(t, nil)
		openSample(t, c, _samplePath, "a")
		state, err := c.GetDocumentState(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, DocumentStateOpenClean, state)
	})

	t.Run("dirty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockFS(ctrl)
		fsMock.EXPECT().ReadFile(_samplePath).Return([]byte("a"), nil)

		c := newTestController(t, fsMock)
		openSample(t, c, _samplePath, "a")
		require.NoError(t, c.DidChange(ctx, change))

		state, err := c.GetDocumentState(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, DocumentStateOpenDirty, state)
	})

	t.Run("edited back to disk contents", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockFS(ctrl)
		fsMock.EXPECT().ReadFile(_samplePath).Return([]byte("ab"), nil)

		c := newTestController(t, fsMock)
		openSample(t, c, _samplePath, "a")
		require.NoError(t, c.DidChange(ctx, change))

		state, err := c.GetDocumentState(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, DocumentStateOpenClean, state)
	})

	t.Run("read error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockFS(ctrl)
		fsMock.EXPECT().ReadFile(_samplePath).Return(nil, errors.New("boom"))

		c := newTestController(t, fsMock)
		openSample(t, c, _samplePath, "a")
		require.NoError(t, c.DidChange(ctx, change))

		_, err := c.GetDocumentState(ctx, id)
		assert.Error(t, err)
	})
}

func TestLiveDocument(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, nil)
	openSample(t, c, _samplePath, "one\ntwo")

	live, ok := c.Document(_samplePath)
	require.True(t, ok)
	assert.Equal(t, _samplePath, live.FileName())
	assert.Equal(t, textdoc.Position{Line: 1, Character: 0}, live.PositionAt(4))

	// Unsaved edits are visible through a mapper obtained before the change.
	require.NoError(t, c.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{Range: &protocol.Range{}, Text: "zero\n"},
		},
	}))
	assert.Equal(t, "zero\none\ntwo", live.Content())
	assert.Equal(t, textdoc.Position{Line: 1, Character: 0}, live.PositionAt(5))
	assert.Equal(t, 9, live.OffsetAt(textdoc.Position{Line: 2, Character: 0}))

	// After close the last known text keeps answering.
	require.NoError(t, c.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: sampleURI(_samplePath)},
	}))
	assert.Equal(t, "zero\none\ntwo", live.Content())
	_, ok = c.Document(_samplePath)
	assert.False(t, ok)
}

func TestMetrics(t *testing.T) {
	scope := tally.NewTestScope("testing", make(map[string]string, 0))
	mockConfig, _ := config.NewStaticProvider(map[string]interface{}{
		"docsync": map[string]interface{}{"maxFileSizeBytes": 2000},
	})
	c, err := New(Params{Logger: zap.NewNop().Sugar(), Stats: scope, Config: mockConfig})
	require.NoError(t, err)
	openSample(t, c.(*controller), _samplePath, "abc")

	gauges := scope.Snapshot().Gauges()
	require.Contains(t, gauges, "testing.doc_sync.open_docs+")
	assert.Equal(t, float64(1), gauges["testing.doc_sync.open_docs+"].Value())
	assert.Equal(t, float64(3), gauges["testing.doc_sync.open_bytes+"].Value())
}
