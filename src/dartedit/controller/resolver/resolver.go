// Package resolver supplies offset mappers for files referenced by analysis results.
//
// A Registry prefers documents open in the editor session, whose mapping always
// reflects unsaved edits, and otherwise reads the file from disk once and keeps the
// snapshot for the rest of the operation. Create one Registry per operation and
// drop it afterwards: editor state may change between operations.
package resolver

import (
	"context"
	"path/filepath"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	docsync "github.com/uber/dartedit/src/dartedit/controller/doc-sync"
	editerrors "github.com/uber/dartedit/src/dartedit/internal/errors"
	"github.com/uber/dartedit/src/dartedit/internal/fs"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "resolver"

// Document is a mapper together with the text it maps.
// It is satisfied by *textdoc.TextDocument and *docsync.LiveDocument.
type Document interface {
	textdoc.Mapper
	Content() string
}

var (
	_ Document = (*textdoc.TextDocument)(nil)
	_ Document = (*docsync.LiveDocument)(nil)
)

// Factory creates registries.
type Factory interface {
	NewRegistry(ctx context.Context) *Registry
}

// Params are inbound parameters to initialize a new factory.
type Params struct {
	fx.In

	Documents docsync.Controller
	FS        fs.FS
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type factory struct {
	documents docsync.Controller
	fs        fs.FS
	logger    *zap.SugaredLogger
	stats     tally.Scope
}

// NewFactory creates a Factory.
func NewFactory(p Params) Factory {
	return &factory{
		documents: p.Documents,
		fs:        p.FS,
		logger:    p.Logger.With("component", _nameKey),
		stats:     p.Stats.SubScope(_nameKey),
	}
}

// NewRegistry returns an empty registry for a single operation.
func (f *factory) NewRegistry(ctx context.Context) *Registry {
	id := uuid.Must(uuid.NewV4())
	return &Registry{
		ID:        id,
		documents: f.documents,
		fs:        f.fs,
		logger:    f.logger.With("operation", id.String()),
		stats:     f.stats,
		parsed:    make(map[string]*textdoc.TextDocument),
	}
}

// Registry resolves file paths to mappers for the lifetime of one operation.
// It is not safe for concurrent use.
type Registry struct {
	ID uuid.UUID

	documents docsync.Controller
	fs        fs.FS
	logger    *zap.SugaredLogger
	stats     tally.Scope
	parsed    map[string]*textdoc.TextDocument
}

// Resolve returns a mapper for the file at filePath.
// Open documents take precedence, then snapshots already read by this registry,
// and finally the file is read from disk. Read failures return a *errors.FileReadError.
func (r *Registry) Resolve(ctx context.Context, filePath string) (Document, error) {
	key := filepath.Clean(filePath)

	if r.documents != nil {
		if doc, ok := r.documents.Document(key); ok {
			r.stats.Counter("resolve.live").Inc(1)
			r.logger.Debugf("resolved %q from open document", key)
			return doc, nil
		}
	}

	if doc, ok := r.parsed[key]; ok {
		r.stats.Counter("resolve.memo").Inc(1)
		return doc, nil
	}

	content, err := r.fs.ReadFile(key)
	if err != nil {
		r.stats.Counter("resolve.error").Inc(1)
		return nil, &editerrors.FileReadError{Path: key, Err: err}
	}

	doc := textdoc.New(key, string(content))
	r.parsed[key] = doc
	r.stats.Counter("resolve.disk").Inc(1)
	r.logger.Debugf("resolved %q from disk (%d bytes)", key, len(content))
	return doc, nil
}

// Snapshots returns the number of files this registry has read from disk.
func (r *Registry) Snapshots() int {
	return len(r.parsed)
}
