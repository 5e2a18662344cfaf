// Package analyzer describes the analysis engine that computes refactorings and formatting.
// The transport to the engine lives outside this module; hosts provide an implementation.
package analyzer

import (
	"context"

	"github.com/uber/dartedit/src/dartedit/entity"
)

// Gateway is used to send requests to the analysis engine.
type Gateway interface {
	// EditGetRefactoring computes the changes for a refactoring.
	EditGetRefactoring(ctx context.Context, req *entity.RefactoringRequest) (*entity.RefactoringResponse, error)
	// EditFormat computes the edits that format a file.
	EditFormat(ctx context.Context, req *entity.FormatRequest) (*entity.FormatResponse, error)
	// EditOrganizeDirectives computes the edits that sort and clean up import, export and part directives.
	EditOrganizeDirectives(ctx context.Context, req *entity.OrganizeDirectivesRequest) (*entity.OrganizeDirectivesResponse, error)
}
