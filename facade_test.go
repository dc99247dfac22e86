package resource_test

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	resource "github.com/goliatone/go-resource"
	"github.com/goliatone/go-resource/command"
	resourcemigrations "github.com/goliatone/go-resource/migrations"
	"github.com/goliatone/go-resource/query"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "go-resource-tests"
}

func online() resource.ConnectivityProbe {
	return resource.ConnectivityProbeFunc(func() bool { return true })
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/account/login":
			_, _ = w.Write([]byte(`{"response":"successfully authenticated.","pk":7,"email":"jane@example.com","username":"jane","token":"tok-login"}`))
		case "/account/register":
			_, _ = w.Write([]byte(`{"response":"successfully registered.","pk":8,"email":"john@example.com","username":"john","token":"tok-register"}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newFacade(t *testing.T, client *persistence.Client, baseURL string) *resource.Facade {
	t.Helper()
	cfg := resource.DefaultConfig()
	cfg.ServiceName = "resource-facade-test"
	cfg.AttemptTimeout = 2 * time.Second

	facade, err := resource.Setup(cfg,
		resource.WithPersistenceClient(client),
		resource.WithRemoteBaseURL(baseURL),
		resource.WithConnectivityProbe(online()),
	)
	if err != nil {
		t.Fatalf("setup facade: %v", err)
	}
	return facade
}

func TestFacade_LoginResumeLogoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()
	server := newAuthServer(t)
	defer server.Close()

	facade := newFacade(t, client, server.URL)

	if err := facade.Commands().Login.Execute(ctx, command.LoginMessage{
		Email:    "jane@example.com",
		Password: "secret",
	}); err != nil {
		t.Fatalf("login command: %v", err)
	}

	credential, err := facade.Queries().GetCurrentSession.Query(ctx, query.GetCurrentSessionMessage{})
	if err != nil {
		t.Fatalf("current session query: %v", err)
	}
	if credential == nil || credential.AccountID != 7 || !credential.HasToken() {
		t.Fatalf("unexpected session credential %+v", credential)
	}

	profile, err := facade.Queries().GetAccount.Query(ctx, query.GetAccountMessage{PK: 7})
	if err != nil {
		t.Fatalf("account query: %v", err)
	}
	if profile.Email != "jane@example.com" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	// A second facade over the same database simulates an app restart; the
	// previous session resumes without touching the network.
	server.Close()
	restarted := newFacade(t, client, "http://resource.invalid")
	if err := restarted.Commands().ResumeSession.Execute(ctx, command.ResumeSessionMessage{}); err != nil {
		t.Fatalf("resume session command: %v", err)
	}
	credential, err = restarted.Queries().GetCurrentSession.Query(ctx, query.GetCurrentSessionMessage{})
	if err != nil {
		t.Fatalf("current session query after resume: %v", err)
	}
	if credential == nil || credential.AccountID != 7 {
		t.Fatalf("session did not resume, got %+v", credential)
	}

	if err := restarted.Commands().Logout.Execute(ctx, command.LogoutMessage{}); err != nil {
		t.Fatalf("logout command: %v", err)
	}
	restarted.Session().Wait()

	credential, err = restarted.Queries().GetCurrentSession.Query(ctx, query.GetCurrentSessionMessage{})
	if err != nil {
		t.Fatalf("current session query after logout: %v", err)
	}
	if credential != nil {
		t.Fatalf("expected empty session after logout, got %+v", credential)
	}

	// Logout nullified the stored token, so a further resume stays anonymous.
	again := newFacade(t, client, "http://resource.invalid")
	if err := again.Commands().ResumeSession.Execute(ctx, command.ResumeSessionMessage{}); err != nil {
		t.Fatalf("resume after logout: %v", err)
	}
	credential, err = again.Queries().GetCurrentSession.Query(ctx, query.GetCurrentSessionMessage{})
	if err != nil {
		t.Fatalf("current session query: %v", err)
	}
	if credential != nil {
		t.Fatalf("nullified token must not resume a session, got %+v", credential)
	}
}

func TestFacade_LoginValidationFailureLeavesSessionEmpty(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()
	server := newAuthServer(t)
	defer server.Close()

	facade := newFacade(t, client, server.URL)

	err := facade.Commands().Login.Execute(ctx, command.LoginMessage{Email: "", Password: "secret"})
	if err == nil {
		t.Fatal("expected login with missing email to fail")
	}

	credential, queryErr := facade.Queries().GetCurrentSession.Query(ctx, query.GetCurrentSessionMessage{})
	if queryErr != nil {
		t.Fatalf("current session query: %v", queryErr)
	}
	if credential != nil {
		t.Fatalf("expected empty session, got %+v", credential)
	}
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:resource-facade-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testPersistenceConfig{
		driver: "sqlite3",
		server: dsn,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = resourcemigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != resourcemigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, resourcemigrations.WithValidationTargets(resourcemigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}
