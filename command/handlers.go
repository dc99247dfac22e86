// Package command exposes the auth flows as go-command messages so hosts can
// dispatch them through a commander and collect the terminal state via the
// result context.
package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-resource/core"
)

// AuthService covers the state-stream operations the commands drive.
// auth.Repository satisfies it.
type AuthService interface {
	AttemptLogin(ctx context.Context, email, password string) <-chan core.State[core.AuthResult]
	AttemptRegistration(ctx context.Context, email, username, password, confirmPassword string) <-chan core.State[core.AuthResult]
	CheckPreviousAuthUser(ctx context.Context) <-chan core.State[core.AuthResult]
}

// SessionService receives the credential outcomes. session.Manager
// satisfies it.
type SessionService interface {
	Login(credential core.Credential)
	Logout(ctx context.Context)
}

type LoginCommand struct {
	auth    AuthService
	session SessionService
}

func NewLoginCommand(auth AuthService, session SessionService) *LoginCommand {
	return &LoginCommand{auth: auth, session: session}
}

func (c *LoginCommand) Execute(ctx context.Context, msg LoginMessage) error {
	if c == nil || c.auth == nil {
		return commandDependencyError("command: auth service is required")
	}
	state, err := awaitTerminal(c.auth.AttemptLogin(ctx, msg.Email, msg.Password))
	if err != nil {
		return err
	}
	return c.settle(ctx, state)
}

type RegisterCommand struct {
	auth    AuthService
	session SessionService
}

func NewRegisterCommand(auth AuthService, session SessionService) *RegisterCommand {
	return &RegisterCommand{auth: auth, session: session}
}

func (c *RegisterCommand) Execute(ctx context.Context, msg RegisterMessage) error {
	if c == nil || c.auth == nil {
		return commandDependencyError("command: auth service is required")
	}
	state, err := awaitTerminal(c.auth.AttemptRegistration(ctx, msg.Email, msg.Username, msg.Password, msg.ConfirmPassword))
	if err != nil {
		return err
	}
	login := &LoginCommand{auth: c.auth, session: c.session}
	return login.settle(ctx, state)
}

type ResumeSessionCommand struct {
	auth    AuthService
	session SessionService
}

func NewResumeSessionCommand(auth AuthService, session SessionService) *ResumeSessionCommand {
	return &ResumeSessionCommand{auth: auth, session: session}
}

func (c *ResumeSessionCommand) Execute(ctx context.Context, msg ResumeSessionMessage) error {
	if c == nil || c.auth == nil {
		return commandDependencyError("command: auth service is required")
	}
	state, err := awaitTerminal(c.auth.CheckPreviousAuthUser(ctx))
	if err != nil {
		return err
	}
	login := &LoginCommand{auth: c.auth, session: c.session}
	return login.settle(ctx, state)
}

type LogoutCommand struct {
	session SessionService
}

func NewLogoutCommand(session SessionService) *LogoutCommand {
	return &LogoutCommand{session: session}
}

func (c *LogoutCommand) Execute(ctx context.Context, msg LogoutMessage) error {
	if c == nil || c.session == nil {
		return commandDependencyError("command: session service is required")
	}
	c.session.Logout(ctx)
	return nil
}

// settle publishes a data terminal into the session and the result context,
// and converts an error terminal back into a command error.
func (c *LoginCommand) settle(ctx context.Context, state core.State[core.AuthResult]) error {
	switch state.Kind {
	case core.StateData:
		if state.Payload != nil && c.session != nil {
			credential := state.Payload.Credential
			c.session.Login(credential)
		}
		storeResult(ctx, state)
		return nil
	case core.StateError:
		message, _ := state.Notice.Consume()
		return commandResolutionError(message)
	default:
		return commandDependencyError("command: attempt ended without a terminal state")
	}
}

// awaitTerminal drains the stream until it closes and returns the last
// state, which is the terminal one. Cancellation is already surfaced through
// the stream itself, so only the stream closing ends the wait.
func awaitTerminal(stream <-chan core.State[core.AuthResult]) (core.State[core.AuthResult], error) {
	var last core.State[core.AuthResult]
	for state := range stream {
		last = state
	}
	return last, nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
