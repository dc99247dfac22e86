package command

import (
	"context"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-resource/core"
)

type stubAuthService struct {
	loginStream    <-chan core.State[core.AuthResult]
	registerStream <-chan core.State[core.AuthResult]
	resumeStream   <-chan core.State[core.AuthResult]
}

func (s *stubAuthService) AttemptLogin(context.Context, string, string) <-chan core.State[core.AuthResult] {
	return s.loginStream
}

func (s *stubAuthService) AttemptRegistration(context.Context, string, string, string, string) <-chan core.State[core.AuthResult] {
	return s.registerStream
}

func (s *stubAuthService) CheckPreviousAuthUser(context.Context) <-chan core.State[core.AuthResult] {
	return s.resumeStream
}

type stubSession struct {
	logins  []core.Credential
	logouts int
}

func (s *stubSession) Login(credential core.Credential) {
	s.logins = append(s.logins, credential)
}

func (s *stubSession) Logout(context.Context) {
	s.logouts++
}

func stateStream(states ...core.State[core.AuthResult]) <-chan core.State[core.AuthResult] {
	ch := make(chan core.State[core.AuthResult], len(states))
	for _, state := range states {
		ch <- state
	}
	close(ch)
	return ch
}

func authData(pk int, tok string) core.State[core.AuthResult] {
	result := core.AuthResult{Credential: core.NewCredential(pk, tok)}
	return core.DataState(&result, nil)
}

func TestLoginCommand_PublishesCredentialToSession(t *testing.T) {
	auth := &stubAuthService{
		loginStream: stateStream(
			core.LoadingState[core.AuthResult](true),
			authData(7, "tok-123"),
		),
	}
	session := &stubSession{}
	cmd := NewLoginCommand(auth, session)

	if err := cmd.Execute(context.Background(), LoginMessage{Email: "jane@example.com", Password: "secret"}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(session.logins) != 1 {
		t.Fatalf("expected one session login, got %d", len(session.logins))
	}
	if session.logins[0].AccountID != 7 {
		t.Fatalf("unexpected session credential %+v", session.logins[0])
	}
}

func TestLoginCommand_ErrorTerminalBecomesCommandError(t *testing.T) {
	auth := &stubAuthService{
		loginStream: stateStream(
			core.LoadingState[core.AuthResult](true),
			core.ErrorState[core.AuthResult](core.NewNotice("Invalid credentials", core.PresentationDialog)),
		),
	}
	session := &stubSession{}
	cmd := NewLoginCommand(auth, session)

	err := cmd.Execute(context.Background(), LoginMessage{Email: "jane@example.com", Password: "wrong"})
	if err == nil {
		t.Fatal("expected error terminal to surface as command error")
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Fatalf("notice wording lost: %v", err)
	}
	if len(session.logins) != 0 {
		t.Fatalf("session must not see a login on error")
	}
}

func TestResumeSessionCommand_NilDataSkipsSession(t *testing.T) {
	auth := &stubAuthService{
		resumeStream: stateStream(
			core.DataState[core.AuthResult](nil, core.NewNotice(core.ResponseCheckPreviousAuthUserDone, core.PresentationNone)),
		),
	}
	session := &stubSession{}
	cmd := NewResumeSessionCommand(auth, session)

	if err := cmd.Execute(context.Background(), ResumeSessionMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(session.logins) != 0 {
		t.Fatalf("nil data terminal must not publish a session login")
	}
}

func TestRegisterCommand_PublishesCredentialToSession(t *testing.T) {
	auth := &stubAuthService{
		registerStream: stateStream(
			core.LoadingState[core.AuthResult](true),
			authData(9, "tok-reg"),
		),
	}
	session := &stubSession{}
	cmd := NewRegisterCommand(auth, session)

	msg := RegisterMessage{Email: "jane@example.com", Username: "jane", Password: "pw", ConfirmPassword: "pw"}
	if err := cmd.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(session.logins) != 1 || session.logins[0].AccountID != 9 {
		t.Fatalf("unexpected session logins %+v", session.logins)
	}
}

func TestLogoutCommand_DelegatesToSession(t *testing.T) {
	session := &stubSession{}
	cmd := NewLogoutCommand(session)

	if err := cmd.Execute(context.Background(), LogoutMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if session.logouts != 1 {
		t.Fatalf("expected one logout, got %d", session.logouts)
	}
}

func TestCommandsRequireDependencies(t *testing.T) {
	var login *LoginCommand
	if err := login.Execute(context.Background(), LoginMessage{}); err == nil {
		t.Fatal("nil login command must error")
	}
	if err := NewLogoutCommand(nil).Execute(context.Background(), LogoutMessage{}); err == nil {
		t.Fatal("logout without session must error")
	}
}

func TestMessageValidationEnvelope(t *testing.T) {
	err := LoginMessage{}.Validate()
	if err == nil {
		t.Fatal("empty login message must fail validation")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected goerrors envelope, got %T", err)
	}
	if richErr.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %s", richErr.Category)
	}
	if richErr.TextCode != core.ResourceErrorValidation {
		t.Fatalf("unexpected text code %q", richErr.TextCode)
	}

	if err := (RegisterMessage{Email: "a@b.c", Username: "ab", Password: "one", ConfirmPassword: "two"}).Validate(); err == nil {
		t.Fatal("mismatched passwords must fail validation")
	}
	if err := (LoginMessage{Email: "a@b.c", Password: "pw"}).Validate(); err != nil {
		t.Fatalf("valid login message rejected: %v", err)
	}
}
