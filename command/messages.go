package command

import "github.com/goliatone/go-resource/auth"

const (
	TypeLogin         = "resource.command.login"
	TypeRegister      = "resource.command.register"
	TypeResumeSession = "resource.command.session.resume"
	TypeLogout        = "resource.command.session.logout"
)

type LoginMessage struct {
	Email    string
	Password string
}

func (LoginMessage) Type() string { return TypeLogin }

func (m LoginMessage) Validate() error {
	fields := auth.LoginFields{Email: m.Email, Password: m.Password}
	return commandWrapValidation(fields.Validate(), "command: login fields rejected")
}

type RegisterMessage struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

func (RegisterMessage) Type() string { return TypeRegister }

func (m RegisterMessage) Validate() error {
	fields := auth.RegistrationFields{
		Email:           m.Email,
		Username:        m.Username,
		Password:        m.Password,
		ConfirmPassword: m.ConfirmPassword,
	}
	return commandWrapValidation(fields.Validate(), "command: registration fields rejected")
}

type ResumeSessionMessage struct{}

func (ResumeSessionMessage) Type() string { return TypeResumeSession }

func (ResumeSessionMessage) Validate() error { return nil }

type LogoutMessage struct{}

func (LogoutMessage) Type() string { return TypeLogout }

func (LogoutMessage) Validate() error { return nil }
