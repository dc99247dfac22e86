package auth

import "errors"

var (
	ErrLoginFieldsRequired        = errors.New("You can't login without an email and password.")
	ErrRegistrationFieldsRequired = errors.New("All fields are required.")
	ErrPasswordsDoNotMatch        = errors.New("Password must match.")
)

// LoginFields is the pre-validation input for a login attempt. Validation is
// synchronous and runs before any network or cache activity.
type LoginFields struct {
	Email    string
	Password string
}

func (f LoginFields) Validate() error {
	if f.Email == "" || f.Password == "" {
		return ErrLoginFieldsRequired
	}
	return nil
}

// RegistrationFields is the pre-validation input for a registration attempt.
// The empty-field rule is checked before the mismatch rule when both hold.
type RegistrationFields struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

func (f RegistrationFields) Validate() error {
	if f.Email == "" || f.Username == "" || f.Password == "" || f.ConfirmPassword == "" {
		return ErrRegistrationFieldsRequired
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordsDoNotMatch
	}
	return nil
}
