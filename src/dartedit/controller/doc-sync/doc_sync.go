package docsync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/uber-go/tally"
	editerrors "github.com/uber/dartedit/src/dartedit/internal/errors"
	"github.com/uber/dartedit/src/dartedit/internal/fs"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
	"github.com/uber/dartedit/src/dartedit/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey        = "doc-sync"
	_maxFileSizeKey = "docsync.maxFileSizeBytes"
)

// DocumentState keeps track of the current state of a document.
type DocumentState int

const (
	// DocumentStateOpenClean indicates that the document is open and has no modifications in the editor.
	DocumentStateOpenClean DocumentState = iota
	// DocumentStateOpenDirty indicates that the document is open and has unsaved modifications in the editor.
	DocumentStateOpenDirty
	// DocumentStateClosed indicates that the document is closed.
	DocumentStateClosed
)

// Controller tracks the documents open in the editor session.
type Controller interface {
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error

	// Returns the current version of the text document as of the last received DidChange event.
	GetTextDocument(ctx context.Context, doc protocol.TextDocumentIdentifier) (protocol.TextDocumentItem, error)

	// Returns the current status of a given document.
	GetDocumentState(ctx context.Context, doc protocol.TextDocumentIdentifier) (DocumentState, error)

	// Document returns a live mapper for the open document with the given path.
	Document(path string) (*LiveDocument, bool)

	// OpenDocuments lists the paths of all open documents.
	OpenDocuments() []string
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Logger *zap.SugaredLogger
	Stats  tally.Scope
	Config config.Provider
	FS     fs.FS
}

type documentStoreEntry struct {
	Document            protocol.TextDocumentItem
	EditedSinceLastSave bool
	snapshot            *textdoc.TextDocument
}

// documentStore is keyed by cleaned file path.
type documentStore map[string]*documentStoreEntry

type controller struct {
	logger           *zap.SugaredLogger
	documents        documentStore
	documentsMu      sync.RWMutex
	stats            tally.Scope
	maxFileSizeBytes int64
	fs               fs.FS
}

// New creates a new controller for document sync.
func New(p Params) (Controller, error) {
	var maxFileSizeBytes int64
	if err := p.Config.Get(_maxFileSizeKey).Populate(&maxFileSizeBytes); err != nil || maxFileSizeBytes == 0 {
		return nil, fmt.Errorf("unable to get maximum file size from config: %v", err)
	}

	c := &controller{
		logger:           p.Logger.With("component", _nameKey),
		documents:        make(documentStore),
		stats:            p.Stats.SubScope("doc_sync"),
		maxFileSizeBytes: maxFileSizeBytes,
		fs:               p.FS,
	}
	defer c.updateMetrics()
	return c, nil
}

// DidOpen adds an entry for a newly opened document and stores its initial contents.
func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	defer c.updateMetrics()
	key, err := documentKey(params.TextDocument.URI)
	if err != nil {
		return err
	}

	if err := c.validateSize(params.TextDocument.Text); err != nil {
		// Oversized documents are left untracked and will be read from disk instead.
		c.logger.Warnf("unable to track open document %q: %v", params.TextDocument.URI, err)
		return nil
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	c.documents[key] = newDocumentStoreEntry(key, params.TextDocument)
	return nil
}

// DidClose deletes the entry for a closed document.
func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	defer c.updateMetrics()
	key, err := documentKey(params.TextDocument.URI)
	if err != nil {
		return err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	delete(c.documents, key)
	return nil
}

// DidChange updates the document with the latest incoming changes.
// The entry is replaced rather than modified so that snapshots already handed out stay consistent.
func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	defer c.updateMetrics()
	key, err := documentKey(params.TextDocument.URI)
	if err != nil {
		return err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	initialEntry, ok := c.documents[key]
	if !ok {
		return &editerrors.DocumentNotFoundError{Document: params.TextDocument.TextDocumentIdentifier}
	}

	doc := initialEntry.Document
	doc.Text = mapper.ApplyContentChanges(doc.Text, params.ContentChanges)
	if err := c.validateSize(doc.Text); err != nil {
		// The editor text is no longer known, so the document is dropped and read from disk instead.
		c.logger.Warnf("no longer tracking document %q: %v", doc.URI, err)
		delete(c.documents, key)
		return nil
	}
	doc.Version = params.TextDocument.Version

	result := newDocumentStoreEntry(key, doc)
	result.EditedSinceLastSave = true
	c.documents[key] = result
	return nil
}

// DidSave marks the document as matching the contents on disk.
func (c *controller) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	defer c.updateMetrics()
	key, err := documentKey(params.TextDocument.URI)
	if err != nil {
		return err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()

	docEntry, ok := c.documents[key]
	if !ok {
		return &editerrors.DocumentNotFoundError{Document: params.TextDocument}
	}

	doc := docEntry.Document
	// Document text should already be updated by DidChange, but this reconciles it in case something got out of sync.
	if params.Text != "" {
		doc.Text = params.Text
	}
	c.documents[key] = newDocumentStoreEntry(key, doc)
	return nil
}

func (c *controller) GetTextDocument(ctx context.Context, doc protocol.TextDocumentIdentifier) (protocol.TextDocumentItem, error) {
	entry, err := c.getDocumentStoreEntry(doc)
	if err != nil {
		return protocol.TextDocumentItem{}, err
	}
	return entry.Document, nil
}

func (c *controller) GetDocumentState(ctx context.Context, doc protocol.TextDocumentIdentifier) (DocumentState, error) {
	entry, err := c.getDocumentStoreEntry(doc)
	if err != nil {
		var docNotFound *editerrors.DocumentNotFoundError
		if errors.As(err, &docNotFound) {
			return DocumentStateClosed, nil
		}
		return 0, err
	}

	if entry.EditedSinceLastSave {
		contentOnDisk, err := c.fs.ReadFile(entry.snapshot.FileName)
		if err != nil {
			return 0, fmt.Errorf("unable to open file %q: %w", entry.snapshot.FileName, err)
		}

		if string(contentOnDisk) != entry.Document.Text {
			return DocumentStateOpenDirty, nil
		}
	}
	return DocumentStateOpenClean, nil
}

func (c *controller) Document(path string) (*LiveDocument, bool) {
	key := filepath.Clean(path)
	snapshot := c.snapshot(key)
	if snapshot == nil {
		return nil, false
	}
	return &LiveDocument{c: c, key: key, last: snapshot}, true
}

func (c *controller) OpenDocuments() []string {
	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	result := make([]string, 0, len(c.documents))
	for key := range c.documents {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}

// snapshot returns the current text snapshot for an open document, or nil.
func (c *controller) snapshot(key string) *textdoc.TextDocument {
	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	if entry, ok := c.documents[key]; ok {
		return entry.snapshot
	}
	return nil
}

func (c *controller) getDocumentStoreEntry(doc protocol.TextDocumentIdentifier) (*documentStoreEntry, error) {
	key, err := documentKey(doc.URI)
	if err != nil {
		return nil, err
	}

	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	entry, ok := c.documents[key]
	if !ok {
		return nil, &editerrors.DocumentNotFoundError{Document: doc}
	}
	return entry, nil
}

func (c *controller) updateMetrics() {
	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	openBytes := 0
	for _, entry := range c.documents {
		openBytes += len(entry.Document.Text)
	}
	c.stats.Gauge("open_docs").Update(float64(len(c.documents)))
	c.stats.Gauge("open_bytes").Update(float64(openBytes))
}

func (c *controller) validateSize(text string) error {
	if c.maxFileSizeBytes == 0 {
		return fmt.Errorf("max file size is not set")
	}

	size := int64(len(text))
	if size > c.maxFileSizeBytes {
		return &editerrors.DocumentSizeLimitError{Size: size}
	}
	return nil
}

// documentKey returns the cleaned file path of a document URI.
func documentKey(u protocol.DocumentURI) (string, error) {
	// Filename panics for anything other than file URIs.
	if !strings.HasPrefix(string(u), "file://") {
		return "", fmt.Errorf("unsupported document URI %q", u)
	}
	return filepath.Clean(u.Filename()), nil
}

func newDocumentStoreEntry(key string, doc protocol.TextDocumentItem) *documentStoreEntry {
	return &documentStoreEntry{
		Document: doc,
		snapshot: textdoc.New(key, doc.Text),
	}
}
