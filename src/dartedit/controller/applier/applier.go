// Package applier turns analysis engine changes into editor edits and file writes.
package applier

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/uber-go/tally"
	docsync "github.com/uber/dartedit/src/dartedit/controller/doc-sync"
	"github.com/uber/dartedit/src/dartedit/controller/resolver"
	"github.com/uber/dartedit/src/dartedit/entity"
	editerrors "github.com/uber/dartedit/src/dartedit/internal/errors"
	"github.com/uber/dartedit/src/dartedit/internal/fs"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
	"github.com/uber/dartedit/src/dartedit/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_nameKey         = "applier"
	_contextLinesKey = "preview.contextLines"
)

// Controller converts and applies the changes computed by the analysis engine.
type Controller interface {
	// Convert maps every edit of the change onto line/column ranges.
	Convert(ctx context.Context, change entity.SourceChange) (*protocol.WorkspaceEdit, error)
	// Apply updates open documents and rewrites closed files. Nothing is written unless every file resolves.
	Apply(ctx context.Context, change entity.SourceChange) (*Result, error)
	// Preview renders the change as unified diffs without applying it.
	Preview(ctx context.Context, change entity.SourceChange) (string, error)
}

// Result lists the files touched by Apply.
type Result struct {
	// Documents holds open documents that received the edits.
	Documents []string
	// Files holds files that were rewritten on disk.
	Files []string
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Resolvers resolver.Factory
	Documents docsync.Controller
	FS        fs.FS
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Config    config.Provider
}

type controller struct {
	resolvers    resolver.Factory
	documents    docsync.Controller
	fs           fs.FS
	logger       *zap.SugaredLogger
	stats        tally.Scope
	contextLines int
}

// fileChange is the combined effect of a change on one file.
type fileChange struct {
	path    string
	doc     resolver.Document
	oldText string
	newText string
}

// groupChange is one edit group together with the text its offsets refer to.
type groupChange struct {
	path   string
	mapper textdoc.Mapper
	edits  []entity.SourceEdit
}

// New creates a new applier controller.
func New(p Params) (Controller, error) {
	var contextLines int
	if err := p.Config.Get(_contextLinesKey).Populate(&contextLines); err != nil {
		return nil, fmt.Errorf("unable to get preview context lines from config: %w", err)
	}

	return &controller{
		resolvers:    p.Resolvers,
		documents:    p.Documents,
		fs:           p.FS,
		logger:       p.Logger.With("component", _nameKey),
		stats:        p.Stats.SubScope(_nameKey),
		contextLines: contextLines,
	}, nil
}

func (c *controller) Convert(ctx context.Context, change entity.SourceChange) (*protocol.WorkspaceEdit, error) {
	_, groups, err := c.plan(ctx, change)
	if err != nil {
		return nil, err
	}

	// Groups keep the engine's order. A group for a file already edited by an earlier
	// group is mapped against the text that earlier group produced.
	result := &protocol.WorkspaceEdit{
		DocumentChanges: make([]protocol.TextDocumentEdit, 0, len(groups)),
	}
	for _, g := range groups {
		edits := mapper.SourceEditsToTextEdits(g.mapper, g.edits)
		result.DocumentChanges = append(result.DocumentChanges, mapper.TextEditsToTextDocumentEdit(g.path, edits))
	}
	return result, nil
}

func (c *controller) Apply(ctx context.Context, change entity.SourceChange) (*Result, error) {
	files, _, err := c.plan(ctx, change)
	if err != nil {
		c.stats.Counter("apply_failed").Inc(1)
		return nil, err
	}

	result := &Result{}
	var errs error
	for _, f := range files {
		if f.oldText == f.newText {
			continue
		}

		if _, ok := f.doc.(*docsync.LiveDocument); ok {
			if err := c.updateDocument(ctx, f); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			result.Documents = append(result.Documents, f.path)
			continue
		}

		if err := c.fs.WriteFile(f.path, f.newText); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("writing %q: %w", f.path, err))
			continue
		}
		c.stats.Counter("files_written").Inc(1)
		result.Files = append(result.Files, f.path)
	}

	if errs != nil {
		c.stats.Counter("apply_failed").Inc(1)
		return result, fmt.Errorf("applying change %q: %w", change.Message, errs)
	}
	c.logger.Infof("applied change %q to %d open documents and %d files", change.Message, len(result.Documents), len(result.Files))
	return result, nil
}

func (c *controller) Preview(ctx context.Context, change entity.SourceChange) (string, error) {
	files, _, err := c.plan(ctx, change)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, f := range files {
		out.WriteString(UnifiedDiff(f.path, f.oldText, f.newText, c.contextLines))
	}
	return out.String(), nil
}

// plan resolves every file of the change and computes its new text.
// Groups for the same file apply one after another. Any file that fails to
// resolve aborts the whole operation.
func (c *controller) plan(ctx context.Context, change entity.SourceChange) ([]*fileChange, []groupChange, error) {
	if len(change.Edits) == 0 {
		return nil, nil, editerrors.NoEditsError
	}

	registry := c.resolvers.NewRegistry(ctx)
	byPath := make(map[string]*fileChange, len(change.Edits))
	files := make([]*fileChange, 0, len(change.Edits))
	groups := make([]groupChange, 0, len(change.Edits))
	for _, group := range change.Edits {
		if group.File == "" {
			return nil, nil, editerrors.EmptyFilePathError
		}

		path := filepath.Clean(group.File)
		f, ok := byPath[path]
		var m textdoc.Mapper
		if ok {
			m = textdoc.New(path, f.newText)
		} else {
			doc, err := registry.Resolve(ctx, path)
			if err != nil {
				c.logger.Warnf("operation %s: %v", registry.ID, err)
				return nil, nil, fmt.Errorf("change %q: %w", change.Message, err)
			}
			text := doc.Content()
			f = &fileChange{path: path, doc: doc, oldText: text, newText: text}
			byPath[path] = f
			files = append(files, f)
			m = doc
		}

		groups = append(groups, groupChange{path: path, mapper: m, edits: group.Edits})
		f.newText = textdoc.ApplyEdits(f.newText, group.OffsetEdits())
	}
	c.logger.Debugf("operation %s: %d edit groups across %d files, %d read from disk", registry.ID, len(groups), len(files), registry.Snapshots())
	return files, groups, nil
}

// updateDocument hands the new text to the editor session as a single content change.
func (c *controller) updateDocument(ctx context.Context, f *fileChange) error {
	id := mapper.PathToTextDocumentIdentifier(f.path)
	item, err := c.documents.GetTextDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("updating open document %q: %w", f.path, err)
	}

	if state, err := c.documents.GetDocumentState(ctx, id); err == nil && state == docsync.DocumentStateOpenDirty {
		c.logger.Debugf("applying edits on top of unsaved changes in %q", f.path)
	}

	return c.documents.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: id,
			Version:                item.Version + 1,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			mapper.FullContentChange(item.Text, f.newText),
		},
	})
}
