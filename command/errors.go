package command

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-resource/core"
)

func commandDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ResourceErrorInternal)
}

func commandWrapValidation(err error, message string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ResourceErrorValidation)
}

// commandResolutionError carries a terminal error notice out of the state
// stream as a command error, keeping the notice wording intact.
func commandResolutionError(message string) error {
	if message == "" {
		message = core.ErrorUnknown
	}
	return core.MapError(errors.New(message))
}
