// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/adoptopenjdk/splitpkgscan/internal/issue"

	"github.com/spf13/cobra"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before the catalog entry.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, stylePath string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	renderIssue(stderr, svcErr.IssueID, stylePath)
}

// renderIssue prints the catalog entry for id, falling back to the raw
// markdown when glamour fails. Unknown ids print nothing.
func renderIssue(w io.Writer, id issue.Id, stylePath string) {
	catalogEntry := issue.Get(id)
	if catalogEntry == nil {
		return
	}
	rendered, err := catalogEntry.Render(stylePath)
	if err != nil {
		fmt.Fprint(w, string(catalogEntry.MarkdownMsg()))
		return
	}
	fmt.Fprint(w, rendered)
}

// styledError formats err as the red "Error:" line shown above catalog entries.
func styledError(err error, verbose bool) string {
	return fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// failCommand renders err and converts it into an ExitError. Errors that are
// not ServiceErrors are rendered with the catalog entry linked through
// issue.IssueOf, if any.
func failCommand(cmd *cobra.Command, app *App, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return err
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = newServiceError(err, issue.IssueOf(err), styledError(err, app.verbose))
	}
	renderServiceError(app.stderr, svcErr, app.stylePath())

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if exitErr != nil {
		return exitErr
	}
	return &ExitError{Code: 1, Err: err}
}
