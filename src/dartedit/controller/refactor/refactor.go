// Package refactor asks the analysis engine for refactorings and formatting of open documents.
package refactor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/uber-go/tally"
	"github.com/uber/dartedit/src/dartedit/controller/applier"
	docsync "github.com/uber/dartedit/src/dartedit/controller/doc-sync"
	"github.com/uber/dartedit/src/dartedit/entity"
	"github.com/uber/dartedit/src/dartedit/gateway/analyzer"
	editerrors "github.com/uber/dartedit/src/dartedit/internal/errors"
	"github.com/uber/dartedit/src/dartedit/internal/textdoc"
	"github.com/uber/dartedit/src/dartedit/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey       = "refactor"
	_lineLengthKey = "formatting.lineLength"
)

// Controller computes editor edits for refactorings and formatting.
type Controller interface {
	// Rename renames the element at the given position across the workspace.
	Rename(ctx context.Context, params RenameParams) (*protocol.WorkspaceEdit, error)
	// Format returns the edits that format an open document, or nil if it is already formatted.
	Format(ctx context.Context, doc protocol.TextDocumentIdentifier) ([]protocol.TextEdit, error)
	// OrganizeDirectives returns the edits that sort the directives of an open document, or nil if there are none.
	OrganizeDirectives(ctx context.Context, doc protocol.TextDocumentIdentifier) ([]protocol.TextEdit, error)
}

// RenameParams identify the element to rename and its new name.
type RenameParams struct {
	TextDocument protocol.TextDocumentIdentifier
	Position     protocol.Position
	NewName      string
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Analyzer  analyzer.Gateway
	Applier   applier.Controller
	Documents docsync.Controller
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Config    config.Provider
}

type controller struct {
	analyzer   analyzer.Gateway
	applier    applier.Controller
	documents  docsync.Controller
	logger     *zap.SugaredLogger
	stats      tally.Scope
	lineLength int
}

// New creates a new refactor controller.
func New(p Params) (Controller, error) {
	var lineLength int
	if err := p.Config.Get(_lineLengthKey).Populate(&lineLength); err != nil {
		return nil, fmt.Errorf("unable to get formatting line length from config: %w", err)
	}

	return &controller{
		analyzer:   p.Analyzer,
		applier:    p.Applier,
		documents:  p.Documents,
		logger:     p.Logger.With("component", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
		lineLength: lineLength,
	}, nil
}

func (c *controller) Rename(ctx context.Context, params RenameParams) (*protocol.WorkspaceEdit, error) {
	if strings.TrimSpace(params.NewName) == "" {
		return nil, fmt.Errorf("new name must not be empty")
	}

	doc, err := c.openDocument(ctx, params.TextDocument)
	if err != nil {
		return nil, err
	}

	req := &entity.RefactoringRequest{
		Kind:    entity.RefactoringKindRename,
		File:    doc.FileName(),
		Offset:  doc.OffsetAt(textdoc.PositionFromProtocol(params.Position)),
		Options: &entity.RenameOptions{NewName: params.NewName},
	}
	resp, err := c.analyzer.EditGetRefactoring(ctx, req)
	if err != nil {
		c.stats.Counter("rename.error").Inc(1)
		return nil, fmt.Errorf("requesting rename: %w", err)
	}

	if err := c.checkProblems(entity.RefactoringKindRename, resp); err != nil {
		c.stats.Counter("rename.rejected").Inc(1)
		return nil, err
	}
	if resp.Change == nil {
		c.stats.Counter("rename.error").Inc(1)
		return nil, fmt.Errorf("rename of %s at %s produced no change", doc.FileName(), textdoc.PositionFromProtocol(params.Position))
	}

	result, err := c.applier.Convert(ctx, *resp.Change)
	if err != nil {
		c.stats.Counter("rename.error").Inc(1)
		return nil, err
	}
	c.stats.Counter("rename.success").Inc(1)
	return result, nil
}

func (c *controller) Format(ctx context.Context, id protocol.TextDocumentIdentifier) ([]protocol.TextEdit, error) {
	doc, err := c.openDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.analyzer.EditFormat(ctx, &entity.FormatRequest{
		File:       doc.FileName(),
		LineLength: c.lineLength,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting format: %w", err)
	}
	if len(resp.Edits) == 0 {
		return nil, nil
	}

	// A whole-file replacement is narrowed down to the regions that changed.
	text := doc.Content()
	if len(resp.Edits) == 1 && resp.Edits[0].Offset == 0 && resp.Edits[0].Length == textdoc.UTF16Len(text) {
		edits := mapper.MinimizeEdits(text, resp.Edits[0].Replacement)
		c.stats.Counter("format.edits").Inc(int64(len(edits)))
		return edits, nil
	}

	c.stats.Counter("format.edits").Inc(int64(len(resp.Edits)))
	return mapper.SourceEditsToTextEdits(doc, resp.Edits), nil
}

func (c *controller) OrganizeDirectives(ctx context.Context, id protocol.TextDocumentIdentifier) ([]protocol.TextEdit, error) {
	doc, err := c.openDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.analyzer.EditOrganizeDirectives(ctx, &entity.OrganizeDirectivesRequest{File: doc.FileName()})
	if err != nil {
		return nil, fmt.Errorf("requesting organize directives: %w", err)
	}
	if len(resp.Edit.Edits) == 0 {
		return nil, nil
	}

	c.stats.Counter("organize_directives.edits").Inc(int64(len(resp.Edit.Edits)))
	return mapper.SourceEditsToTextEdits(doc, resp.Edit.Edits), nil
}

// openDocument returns the live mapper for a document open in the editor session.
func (c *controller) openDocument(ctx context.Context, id protocol.TextDocumentIdentifier) (*docsync.LiveDocument, error) {
	// Also rejects documents that are not open or not files.
	if _, err := c.documents.GetTextDocument(ctx, id); err != nil {
		return nil, err
	}

	doc, ok := c.documents.Document(filepath.Clean(id.URI.Filename()))
	if !ok {
		return nil, &editerrors.DocumentNotFoundError{Document: id}
	}
	return doc, nil
}

// checkProblems fails with every blocking problem reported by the engine, and logs the rest.
func (c *controller) checkProblems(kind entity.RefactoringKind, resp *entity.RefactoringResponse) error {
	var blocking []string
	for _, problems := range [][]entity.RefactoringProblem{resp.InitialProblems, resp.OptionsProblems, resp.FinalProblems} {
		for _, p := range problems {
			if p.Severity.IsBlocking() {
				blocking = append(blocking, p.Message)
				continue
			}
			c.logger.Infof("%s refactoring: %s: %s", strings.ToLower(string(kind)), p.Severity, p.Message)
		}
	}

	if len(blocking) > 0 {
		return &editerrors.RefactoringProblemError{Kind: string(kind), Problems: blocking}
	}
	return nil
}
