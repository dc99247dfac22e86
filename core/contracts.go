package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type ResponseKind string

const (
	ResponseSuccess ResponseKind = "success"
	ResponseError   ResponseKind = "error"
	ResponseEmpty   ResponseKind = "empty"
)

// ApiResponse is the tagged outcome of one remote call: a body on success, a
// message on error, or nothing at all (no-content success). It is a closed
// union; transports classify into it, the engine switches exhaustively on
// Kind and never inspects transport internals.
type ApiResponse[T any] struct {
	Kind    ResponseKind
	Body    T
	Message string
}

func SuccessResponse[T any](body T) ApiResponse[T] {
	return ApiResponse[T]{Kind: ResponseSuccess, Body: body}
}

func ErrorResponse[T any](message string) ApiResponse[T] {
	return ApiResponse[T]{Kind: ResponseError, Message: message}
}

func EmptyResponse[T any]() ApiResponse[T] {
	return ApiResponse[T]{Kind: ResponseEmpty}
}

// AccountStore is the cache-store contract for account profiles. Lookups
// return (nil, nil) when the row is absent.
type AccountStore interface {
	UpsertIgnore(ctx context.Context, profile AccountProfile) error
	UpsertReplace(ctx context.Context, profile AccountProfile) error
	GetByPK(ctx context.Context, pk int) (*AccountProfile, error)
	GetByEmail(ctx context.Context, email string) (*AccountProfile, error)
}

// CredentialStore is the cache-store contract for session credentials.
// NullifyToken clears the token without deleting the row, preserving the
// account-profile foreign key; it returns the number of rows touched.
type CredentialStore interface {
	UpsertReplace(ctx context.Context, credential Credential) error
	GetByAccount(ctx context.Context, pk int) (*Credential, error)
	NullifyToken(ctx context.Context, pk int) (int64, error)
}

// SettingsStore is the persisted key-value collaborator used to remember the
// previously authenticated user. Storage mechanics are out of scope here;
// only this contract is consumed. GetString returns "" when the key is unset.
type SettingsStore interface {
	GetString(ctx context.Context, key string) (string, error)
	PutString(ctx context.Context, key string, value string) error
}

// ConnectivityProbe answers the advisory network-availability question asked
// before a network-bound attempt starts. Implementations must fail safe:
// return false rather than panic or error when the platform query fails.
type ConnectivityProbe interface {
	Connected() bool
}

// ConnectivityProbeFunc adapts a plain function to ConnectivityProbe.
type ConnectivityProbeFunc func() bool

func (f ConnectivityProbeFunc) Connected() bool {
	if f == nil {
		return false
	}
	return f()
}
