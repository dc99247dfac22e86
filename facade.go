package resource

import (
	"context"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-resource/auth"
	resourcecommand "github.com/goliatone/go-resource/command"
	"github.com/goliatone/go-resource/core"
	resourcequery "github.com/goliatone/go-resource/query"
	"github.com/goliatone/go-resource/remote"
	"github.com/goliatone/go-resource/session"
	sqlstore "github.com/goliatone/go-resource/store/sql"
)

// Commands groups the write-side entry points.
type Commands struct {
	Login         *resourcecommand.LoginCommand
	Register      *resourcecommand.RegisterCommand
	ResumeSession *resourcecommand.ResumeSessionCommand
	Logout        *resourcecommand.LogoutCommand
}

// Queries groups the read-side entry points.
type Queries struct {
	GetCurrentSession *resourcequery.GetCurrentSessionQuery
	GetAccount        *resourcequery.GetAccountQuery
}

// Facade composes the auth repository, the session manager, and the cached
// stores behind command/query entry points.
type Facade struct {
	auth     *auth.Repository
	session  *session.Manager
	accounts core.AccountStore
	commands Commands
	queries  Queries
}

type SetupOption func(*setupOptions)

type setupOptions struct {
	persistenceClient any
	remoteBaseURL     string
	remoteClient      auth.RemoteAuthClient
	probe             core.ConnectivityProbe
	logger            core.Logger
	loggerProvider    core.LoggerProvider
	cacheService      repositorycache.CacheService
	configProvider    core.ConfigProvider
	optionsResolver   core.OptionsResolver
}

// WithPersistenceClient accepts either a *bun.DB or anything exposing
// DB() *bun.DB, such as the go-persistence-bun client.
func WithPersistenceClient(client any) SetupOption {
	return func(o *setupOptions) {
		o.persistenceClient = client
	}
}

func WithRemoteBaseURL(baseURL string) SetupOption {
	return func(o *setupOptions) {
		o.remoteBaseURL = baseURL
	}
}

// WithRemoteClient overrides the HTTP client built from the base URL.
func WithRemoteClient(client auth.RemoteAuthClient) SetupOption {
	return func(o *setupOptions) {
		o.remoteClient = client
	}
}

func WithConnectivityProbe(probe core.ConnectivityProbe) SetupOption {
	return func(o *setupOptions) {
		o.probe = probe
	}
}

func WithLogger(logger core.Logger) SetupOption {
	return func(o *setupOptions) {
		o.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) SetupOption {
	return func(o *setupOptions) {
		o.loggerProvider = provider
	}
}

// WithCacheService wraps the account store with the read-through cache.
func WithCacheService(service repositorycache.CacheService) SetupOption {
	return func(o *setupOptions) {
		o.cacheService = service
	}
}

func WithConfigProvider(provider core.ConfigProvider) SetupOption {
	return func(o *setupOptions) {
		o.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) SetupOption {
	return func(o *setupOptions) {
		o.optionsResolver = resolver
	}
}

// Setup wires the full stack: stores from the persistence client, the remote
// auth client, the auth repository, and the session manager, exposed through
// a facade. The cfg argument acts as the runtime override layer on top of
// whatever the config provider loads.
func Setup(cfg Config, opts ...SetupOption) (*Facade, error) {
	options := setupOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	resolved, err := core.ResolveConfig(context.Background(), options.configProvider, options.optionsResolver, cfg)
	if err != nil {
		return nil, err
	}

	_, logger := glog.Resolve(resolved.ServiceName, options.loggerProvider, options.logger)
	logger = glog.Ensure(logger)

	factory := sqlstore.NewRepositoryFactory()
	if err := factory.BuildStores(options.persistenceClient); err != nil {
		return nil, err
	}

	accounts := factory.AccountStore()
	if options.cacheService != nil {
		cached, cacheErr := sqlstore.NewCachedAccountStore(accounts, options.cacheService)
		if cacheErr != nil {
			return nil, cacheErr
		}
		accounts = cached
	}

	remoteClient := options.remoteClient
	if remoteClient == nil {
		client, clientErr := remote.NewClient(options.remoteBaseURL)
		if clientErr != nil {
			return nil, clientErr
		}
		remoteClient = client
	}

	authRepo, err := auth.NewRepository(resolved,
		auth.WithLogger(logger),
		auth.WithRemoteClient(remoteClient),
		auth.WithAccountStore(accounts),
		auth.WithCredentialStore(factory.CredentialStore()),
		auth.WithSettingsStore(factory.SettingsStore()),
		auth.WithConnectivityProbe(options.probe),
	)
	if err != nil {
		return nil, err
	}

	sessionManager, err := session.NewManager(factory.CredentialStore(),
		session.WithLogger(logger),
		session.WithConnectivityProbe(options.probe),
	)
	if err != nil {
		return nil, err
	}

	return NewFacade(authRepo, sessionManager, accounts)
}

// NewFacade assembles the command/query surface over already-built
// collaborators.
func NewFacade(authRepo *auth.Repository, sessionManager *session.Manager, accounts core.AccountStore) (*Facade, error) {
	if authRepo == nil {
		return nil, fmt.Errorf("resource: auth repository is required")
	}
	if sessionManager == nil {
		return nil, fmt.Errorf("resource: session manager is required")
	}

	facade := &Facade{
		auth:     authRepo,
		session:  sessionManager,
		accounts: accounts,
	}
	facade.commands = Commands{
		Login:         resourcecommand.NewLoginCommand(authRepo, sessionManager),
		Register:      resourcecommand.NewRegisterCommand(authRepo, sessionManager),
		ResumeSession: resourcecommand.NewResumeSessionCommand(authRepo, sessionManager),
		Logout:        resourcecommand.NewLogoutCommand(sessionManager),
	}
	facade.queries = Queries{
		GetCurrentSession: resourcequery.NewGetCurrentSessionQuery(sessionManager),
		GetAccount:        resourcequery.NewGetAccountQuery(accounts),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

// Auth exposes the underlying repository for hosts that consume the state
// streams directly instead of going through commands.
func (f *Facade) Auth() *auth.Repository {
	if f == nil {
		return nil
	}
	return f.auth
}

func (f *Facade) Session() *session.Manager {
	if f == nil {
		return nil
	}
	return f.session
}
