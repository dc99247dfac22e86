package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// User-facing notice messages. The wording is part of the contract with the
// UI layer and with the connectivity message-rewrite rule below.
const (
	ErrorNoInternet             = "Can't do that operation without an internet connection"
	ErrorUnableToResolveHost    = "Unable to resolve host"
	ErrorCheckNetworkConnection = "Check network connection."
	ErrorUnknown                = "Unknown error"
	ErrorSaveAuthToken          = "Error saving auth token."
	ErrorEmptyResponse          = "HTTP 204. Returned nothing."
)

// GenericAuthError is the business-error marker a 200 response can carry in
// its "response" field: incorrect credentials arrive as an HTTP success with
// this payload, not as a transport failure.
const GenericAuthError = "Error"

// ResponseCheckPreviousAuthUserDone accompanies the normal "no previous
// session" outcome of a resume attempt.
const ResponseCheckPreviousAuthUserDone = "check previous auth user done"

const (
	ResourceErrorValidation    = "RESOURCE_VALIDATION"
	ResourceErrorConnectivity  = "RESOURCE_CONNECTIVITY"
	ResourceErrorRemote        = "RESOURCE_REMOTE_FAILURE"
	ResourceErrorEmptyResponse = "RESOURCE_EMPTY_RESPONSE"
	ResourceErrorPersistence   = "RESOURCE_PERSISTENCE"
	ResourceErrorInternal      = "RESOURCE_INTERNAL_ERROR"
)

var (
	ErrAttemptSuperseded = errors.New("core: attempt superseded by a newer attempt")
	ErrAttemptTimeout    = errors.New(ErrorUnableToResolveHost)
)

// networkErrorSignatures are the transport-level messages that get rewritten
// to the fixed connectivity notice with a toast instead of a dialog, so a
// transient connectivity blip never raises a blocking dialog.
var networkErrorSignatures = []string{
	"unable to resolve host",
	"no such host",
	"network is unreachable",
	"connection refused",
	"connection reset",
	"i/o timeout",
}

func IsNetworkError(message string) bool {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return false
	}
	for _, signature := range networkErrorSignatures {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}

// MapError normalizes an arbitrary error into the resource error envelope:
// category, text code, and HTTP status filled from the taxonomy above.
func MapError(err error) *goerrors.Error {
	return resolutionErrorMapper(err)
}

func resolutionErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureResourceErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case errors.Is(err, ErrAttemptTimeout), IsNetworkError(msg):
		return newResourceError(err.Error(), goerrors.CategoryExternal, ResourceErrorConnectivity)
	case strings.Contains(msg, "required"), strings.Contains(msg, "must match"), strings.Contains(msg, "can't login"):
		return newResourceError(err.Error(), goerrors.CategoryValidation, ResourceErrorValidation)
	case strings.Contains(msg, "saving auth token"), strings.Contains(msg, "persist"):
		return newResourceError(err.Error(), goerrors.CategoryInternal, ResourceErrorPersistence)
	case strings.Contains(msg, "returned nothing"):
		return newResourceError(err.Error(), goerrors.CategoryExternal, ResourceErrorEmptyResponse)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureResourceErrorEnvelope(mapped)
}

func newResourceError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureResourceErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureResourceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = resourceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultResourceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = ErrorUnknown
	}
	return err
}

func defaultResourceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ResourceErrorValidation
	case goerrors.CategoryExternal, goerrors.CategoryOperation:
		return ResourceErrorRemote
	default:
		return ResourceErrorInternal
	}
}

func resourceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryExternal, goerrors.CategoryOperation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
