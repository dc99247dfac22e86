// Package session holds the single live credential as an observable value
// and owns its revocation flow.
package session

import (
	"context"
	"fmt"
	"sync"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-resource/core"
)

// TokenNullifier is the slice of the credential store the manager needs for
/// logout: clear the token, keep the row.
type TokenNullifier interface {
	NullifyToken(ctx context.Context, pk int) (int64, error)
}

// Manager broadcasts the current credential to subscribers. It is built
// explicitly at startup and subscribers deregister with the function returned
// by Subscribe; there is no ambient singleton.
type Manager struct {
	mu      sync.Mutex
	current *core.Credential
	subs    map[int]chan *core.Credential
	nextSub int

	credentials TokenNullifier
	probe       core.ConnectivityProbe
	logger      core.Logger

	// logouts tracks in-flight background revocations so tests and shutdown
	// can wait for them.
	logouts sync.WaitGroup
}

type Option func(*Manager)

func WithLogger(logger core.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithConnectivityProbe(probe core.ConnectivityProbe) Option {
	return func(m *Manager) {
		m.probe = probe
	}
}

func NewManager(credentials TokenNullifier, opts ...Option) (*Manager, error) {
	if credentials == nil {
		return nil, fmt.Errorf("session: token nullifier is required")
	}
	m := &Manager{
		credentials: credentials,
		subs:        map[int]chan *core.Credential{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	if m.logger == nil {
		_, logger := glog.Resolve("session", nil, nil)
		m.logger = glog.Ensure(logger)
	}
	return m, nil
}

// Current returns the live credential, or nil when logged out.
func (m *Manager) Current() *core.Credential {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	copied := *m.current
	return &copied
}

// Subscribe registers an observer for credential changes and returns the
// channel plus its deregistration function. The current value is delivered
// first so late subscribers converge.
func (m *Manager) Subscribe() (<-chan *core.Credential, func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	ch := make(chan *core.Credential, 8)
	m.subs[id] = ch
	if m.current != nil {
		copied := *m.current
		ch <- &copied
	} else {
		ch <- nil
	}
	m.mu.Unlock()

	unsubscribe := func() {
		m.mu.Lock()
		if existing, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(existing)
		}
		m.mu.Unlock()
	}
	return ch, unsubscribe
}

// Login publishes the new credential. A value equal to the current one is
// suppressed so downstream observers do not redo work.
func (m *Manager) Login(credential core.Credential) {
	m.setValue(&credential)
}

// Logout revokes the stored token in the background and always clears the
// in-memory credential, even when the storage write fails; storage failures
// are logged, never surfaced.
func (m *Manager) Logout(ctx context.Context) {
	if m == nil {
		return
	}
	m.logouts.Add(1)
	go func() {
		defer m.logouts.Done()
		m.logout(ctx)
	}()
}

func (m *Manager) logout(ctx context.Context) {
	defer m.setValue(nil)

	current := m.Current()
	if current == nil {
		return
	}
	if _, err := m.credentials.NullifyToken(ctx, current.AccountID); err != nil {
		m.logError(ctx, "logout token revocation failed", map[string]any{
			"account_pk": current.AccountID,
			"error":      err.Error(),
		})
	}
}

// Wait blocks until pending background revocations finish.
func (m *Manager) Wait() {
	if m == nil {
		return
	}
	m.logouts.Wait()
}

// Connected answers the advisory network-availability probe, failing safe to
// false when no probe is configured or the platform query panics.
func (m *Manager) Connected() (connected bool) {
	if m == nil || m.probe == nil {
		return false
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			m.logError(context.Background(), "connectivity probe panicked", map[string]any{
				"panic": fmt.Sprint(recovered),
			})
			connected = false
		}
	}()
	return m.probe.Connected()
}

func (m *Manager) setValue(credential *core.Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if credential == nil && m.current == nil {
		return
	}
	if credential != nil && m.current != nil && credential.Equal(*m.current) {
		return
	}
	m.current = credential

	for _, ch := range m.subs {
		var copied *core.Credential
		if credential != nil {
			value := *credential
			copied = &value
		}
		select {
		case ch <- copied:
		default:
			// slow subscriber: drop rather than block the broadcaster
		}
	}
}

func (m *Manager) logError(ctx context.Context, message string, fields map[string]any) {
	logger := m.logger
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	logger.Error(message, args...)
}
