// Package auth reconciles account credentials against the remote auth
// service: login, registration, and previous-session resume. Each operation
// returns a state stream produced by a core.Resolver; only one attempt is
// in flight per repository at a time.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-resource/core"
	"github.com/goliatone/go-resource/remote"
)

// SettingAuthUserKey is the settings key that remembers the email of the
// last successfully authenticated user.
const SettingAuthUserKey = "auth.previous_user"

// RemoteAuthClient covers the remote calls the repository performs.
// remote.Client satisfies it.
type RemoteAuthClient interface {
	Login(ctx context.Context, email, password string) core.ApiResponse[remote.AuthResponse]
	Register(ctx context.Context, email, username, password, confirmPassword string) core.ApiResponse[remote.AuthResponse]
}

// Repository owns the auth resolution flows. At most one Attempt is active;
// starting a new operation cancels the previous one before it runs.
type Repository struct {
	mu     sync.Mutex
	active *core.Attempt

	cfg         core.Config
	logger      core.Logger
	accounts    core.AccountStore
	credentials core.CredentialStore
	settings    core.SettingsStore
	client      RemoteAuthClient
	probe       core.ConnectivityProbe
}

// Option configures a Repository.
type Option func(*Repository)

func WithLogger(logger core.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithAccountStore(store core.AccountStore) Option {
	return func(r *Repository) {
		r.accounts = store
	}
}

func WithCredentialStore(store core.CredentialStore) Option {
	return func(r *Repository) {
		r.credentials = store
	}
}

func WithSettingsStore(store core.SettingsStore) Option {
	return func(r *Repository) {
		r.settings = store
	}
}

func WithRemoteClient(client RemoteAuthClient) Option {
	return func(r *Repository) {
		r.client = client
	}
}

func WithConnectivityProbe(probe core.ConnectivityProbe) Option {
	return func(r *Repository) {
		r.probe = probe
	}
}

// NewRepository builds an auth repository. The remote client, credential
// store, and settings store are required; the account store and probe are
// optional but limit functionality when absent.
func NewRepository(cfg core.Config, opts ...Option) (*Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Repository{cfg: cfg}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if r.client == nil {
		return nil, fmt.Errorf("auth: remote client is required")
	}
	if r.credentials == nil {
		return nil, fmt.Errorf("auth: credential store is required")
	}
	if r.settings == nil {
		return nil, fmt.Errorf("auth: settings store is required")
	}

	if r.logger == nil {
		_, logger := glog.Resolve("auth", nil, nil)
		r.logger = glog.Ensure(logger)
	}

	return r, nil
}

// AttemptLogin validates the submitted fields and, when they pass, resolves
// the credential against the remote login endpoint. Validation failures
// short-circuit to a terminal Error state without starting an attempt.
func (r *Repository) AttemptLogin(ctx context.Context, email, password string) <-chan core.State[core.AuthResult] {
	if r == nil {
		return terminalErrorStream(core.NewNotice(core.ErrorUnknown, core.PresentationDialog))
	}

	fields := LoginFields{Email: email, Password: password}
	if err := fields.Validate(); err != nil {
		return terminalErrorStream(core.NewNotice(err.Error(), core.PresentationDialog))
	}

	resolver, err := core.NewResolver[remote.AuthResponse, core.AuthResult](r.cfg,
		core.WithResolverLogger[remote.AuthResponse, core.AuthResult](r.logger),
		core.WithNetworkAvailable[remote.AuthResponse, core.AuthResult](r.isConnected()),
		core.WithCall[remote.AuthResponse, core.AuthResult](func(ctx context.Context) core.ApiResponse[remote.AuthResponse] {
			return r.client.Login(ctx, email, password)
		}),
		core.WithOnSuccess(r.persistAuthResponse(email)),
	)
	if err != nil {
		r.logError("build login resolver", err)
		return terminalErrorStream(core.NewNotice(core.ErrorUnknown, core.PresentationDialog))
	}

	r.replaceAttempt(resolver.Run(ctx))
	return resolver.States()
}

// AttemptRegistration validates the submitted fields and, when they pass,
// resolves the credential against the remote registration endpoint.
func (r *Repository) AttemptRegistration(ctx context.Context, email, username, password, confirmPassword string) <-chan core.State[core.AuthResult] {
	if r == nil {
		return terminalErrorStream(core.NewNotice(core.ErrorUnknown, core.PresentationDialog))
	}

	fields := RegistrationFields{
		Email:           email,
		Username:        username,
		Password:        password,
		ConfirmPassword: confirmPassword,
	}
	if err := fields.Validate(); err != nil {
		return terminalErrorStream(core.NewNotice(err.Error(), core.PresentationDialog))
	}

	resolver, err := core.NewResolver[remote.AuthResponse, core.AuthResult](r.cfg,
		core.WithResolverLogger[remote.AuthResponse, core.AuthResult](r.logger),
		core.WithNetworkAvailable[remote.AuthResponse, core.AuthResult](r.isConnected()),
		core.WithCall[remote.AuthResponse, core.AuthResult](func(ctx context.Context) core.ApiResponse[remote.AuthResponse] {
			return r.client.Register(ctx, email, username, password, confirmPassword)
		}),
		core.WithOnSuccess(r.persistAuthResponse(email)),
	)
	if err != nil {
		r.logError("build registration resolver", err)
		return terminalErrorStream(core.NewNotice(core.ErrorUnknown, core.PresentationDialog))
	}

	r.replaceAttempt(resolver.Run(ctx))
	return resolver.States()
}

// CheckPreviousAuthUser resumes the last session from local storage. It never
// touches the network: either a cached credential with a token is found, or
// the stream completes with nil data and a non-displayable done notice.
func (r *Repository) CheckPreviousAuthUser(ctx context.Context) <-chan core.State[core.AuthResult] {
	if r == nil {
		return terminalErrorStream(core.NewNotice(core.ErrorUnknown, core.PresentationDialog))
	}

	email, err := r.settings.GetString(ctx, SettingAuthUserKey)
	if err != nil {
		r.logError("read previous auth user", err)
	}
	if strings.TrimSpace(email) == "" {
		return terminalDataStream(nil, core.NewNotice(core.ResponseCheckPreviousAuthUserDone, core.PresentationNone))
	}

	resolver, err := core.NewResolver[remote.AuthResponse, core.AuthResult](r.cfg,
		core.WithResolverLogger[remote.AuthResponse, core.AuthResult](r.logger),
		core.WithCacheFetch(r.resumeFromCache(email)),
	)
	if err != nil {
		r.logError("build resume resolver", err)
		return terminalErrorStream(core.NewNotice(core.ErrorUnknown, core.PresentationDialog))
	}

	r.replaceAttempt(resolver.Run(ctx))
	return resolver.States()
}

// CancelActiveAttempt cancels the in-flight attempt, if any. The attempt's
// stream settles with a cancellation error state.
func (r *Repository) CancelActiveAttempt() {
	if r == nil {
		return
	}
	r.mu.Lock()
	active := r.active
	r.active = nil
	r.mu.Unlock()

	if active != nil {
		active.Cancel(nil)
	}
}

// persistAuthResponse returns the success step shared by login and
// registration: reject business errors delivered over HTTP 200, persist the
// profile and credential, remember the email, then settle with the result.
func (r *Repository) persistAuthResponse(email string) core.SuccessFunc[remote.AuthResponse, core.AuthResult] {
	return func(ctx context.Context, body remote.AuthResponse, resolver *core.Resolver[remote.AuthResponse, core.AuthResult]) {
		if body.Response == core.GenericAuthError {
			resolver.FailRemote(body.ErrorMessage)
			return
		}

		if r.accounts != nil {
			profile := core.AccountProfile{PK: body.PK, Email: body.Email}
			if err := r.accounts.UpsertIgnore(ctx, profile); err != nil {
				// Insert-if-absent is best effort; an existing row is not an error.
				r.logError("cache account profile", err)
			}
		}

		credential := core.Credential{AccountID: body.PK, Token: body.Token}
		if err := r.credentials.UpsertReplace(ctx, credential); err != nil {
			r.logError("persist auth token", err)
			resolver.CompleteWithError(core.NewNotice(core.ErrorSaveAuthToken, core.PresentationDialog))
			return
		}

		if err := r.settings.PutString(ctx, SettingAuthUserKey, email); err != nil {
			r.logError("remember auth user", err)
		}

		resolver.CompleteWithData(&core.AuthResult{Credential: credential}, nil)
	}
}

// resumeFromCache returns the cache step for session resume: look up the
// profile by email, then its credential, and require a non-null token.
func (r *Repository) resumeFromCache(email string) core.CacheFetchFunc[remote.AuthResponse, core.AuthResult] {
	return func(ctx context.Context, resolver *core.Resolver[remote.AuthResponse, core.AuthResult]) {
		done := core.NewNotice(core.ResponseCheckPreviousAuthUserDone, core.PresentationNone)

		if r.accounts == nil {
			resolver.CompleteWithData(nil, done)
			return
		}

		profile, err := r.accounts.GetByEmail(ctx, email)
		if err != nil {
			r.logError("load cached account", err)
			resolver.CompleteWithData(nil, done)
			return
		}
		if profile == nil || profile.PK <= core.AccountIDUnset {
			resolver.CompleteWithData(nil, done)
			return
		}

		credential, err := r.credentials.GetByAccount(ctx, profile.PK)
		if err != nil {
			r.logError("load cached credential", err)
			resolver.CompleteWithData(nil, done)
			return
		}
		if credential == nil || !credential.HasToken() {
			resolver.CompleteWithData(nil, done)
			return
		}

		resolver.CompleteWithData(&core.AuthResult{Credential: *credential}, nil)
	}
}

// replaceAttempt installs the new attempt and cancels the one it displaces.
func (r *Repository) replaceAttempt(next *core.Attempt) {
	r.mu.Lock()
	prev := r.active
	r.active = next
	r.mu.Unlock()

	if prev != nil {
		prev.Cancel(core.ErrAttemptSuperseded)
	}
}

func (r *Repository) isConnected() bool {
	if r.probe == nil {
		return false
	}
	return r.probe.Connected()
}

func (r *Repository) logError(msg string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Error(msg, "error", err)
}

func terminalErrorStream(notice *core.Notice) <-chan core.State[core.AuthResult] {
	ch := make(chan core.State[core.AuthResult], 1)
	ch <- core.ErrorState[core.AuthResult](notice)
	close(ch)
	return ch
}

func terminalDataStream(result *core.AuthResult, notice *core.Notice) <-chan core.State[core.AuthResult] {
	ch := make(chan core.State[core.AuthResult], 1)
	ch <- core.DataState(result, notice)
	close(ch)
	return ch
}
