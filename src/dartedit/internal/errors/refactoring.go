package errors

import (
	"fmt"
	"strings"
)

// RefactoringProblemError indicates that the analysis engine rejected a refactoring.
// Problems holds every blocking message so it can be shown as a single failure.
type RefactoringProblemError struct {
	Kind     string
	Problems []string
}

// Error is an implementation of the error interface.
func (n *RefactoringProblemError) Error() string {
	return fmt.Sprintf("%s refactoring failed: %s", strings.ToLower(n.Kind), strings.Join(n.Problems, "; "))
}
