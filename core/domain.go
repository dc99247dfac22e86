package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAccountID = errors.New("core: invalid account id")
	ErrInvalidEmail     = errors.New("core: email is required")
)

// AccountIDUnset marks a credential that has not been bound to an account row.
const AccountIDUnset = -1

// Credential is the persisted session credential. A nil Token means the
// session is logged out even when AccountID is still set; the row is kept so
// the account-profile foreign key survives revocation.
type Credential struct {
	AccountID int
	Token     *string
}

func NewCredential(accountID int, token string) Credential {
	return Credential{AccountID: accountID, Token: &token}
}

func (c Credential) HasToken() bool {
	return c.Token != nil && strings.TrimSpace(*c.Token) != ""
}

// LoggedIn reports whether the credential represents a live session.
func (c Credential) LoggedIn() bool {
	return c.AccountID != AccountIDUnset && c.HasToken()
}

func (c Credential) Equal(other Credential) bool {
	if c.AccountID != other.AccountID {
		return false
	}
	if (c.Token == nil) != (other.Token == nil) {
		return false
	}
	if c.Token == nil {
		return true
	}
	return *c.Token == *other.Token
}

func (c Credential) Validate() error {
	if c.AccountID == AccountIDUnset {
		return fmt.Errorf("%w: %d", ErrInvalidAccountID, c.AccountID)
	}
	return nil
}

// AccountProfile is the cached account row created on first successful
// login or registration. Writes are insert-if-absent; the core never
// overwrites an existing profile.
type AccountProfile struct {
	PK       int
	Email    string
	Username string
}

func (p AccountProfile) Validate() error {
	if p.PK == AccountIDUnset {
		return fmt.Errorf("%w: %d", ErrInvalidAccountID, p.PK)
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrInvalidEmail
	}
	return nil
}

// AuthResult is the view payload carried by auth resolution attempts.
type AuthResult struct {
	Credential Credential
}
