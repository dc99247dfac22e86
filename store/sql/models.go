package sqlstore

import (
	"github.com/goliatone/go-resource/core"
	"github.com/uptrace/bun"
)

type accountPropertiesRecord struct {
	bun.BaseModel `bun:"table:account_properties,alias:ap"`

	PK       int    `bun:"pk,pk"`
	Email    string `bun:"email,notnull,unique"`
	Username string `bun:"username,notnull"`
}

func newAccountPropertiesRecord(profile core.AccountProfile) *accountPropertiesRecord {
	return &accountPropertiesRecord{
		PK:       profile.PK,
		Email:    profile.Email,
		Username: profile.Username,
	}
}

func (r *accountPropertiesRecord) toDomain() core.AccountProfile {
	if r == nil {
		return core.AccountProfile{PK: core.AccountIDUnset}
	}
	return core.AccountProfile{
		PK:       r.PK,
		Email:    r.Email,
		Username: r.Username,
	}
}

// authTokenRecord keys the token by the owning account so a logout can clear
// the token without deleting the row.
type authTokenRecord struct {
	bun.BaseModel `bun:"table:auth_tokens,alias:at"`

	AccountPK int     `bun:"account_pk,pk"`
	Token     *string `bun:"token"`
}

func newAuthTokenRecord(credential core.Credential) *authTokenRecord {
	return &authTokenRecord{
		AccountPK: credential.AccountID,
		Token:     credential.Token,
	}
}

func (r *authTokenRecord) toDomain() core.Credential {
	if r == nil {
		return core.Credential{AccountID: core.AccountIDUnset}
	}
	return core.Credential{
		AccountID: r.AccountPK,
		Token:     r.Token,
	}
}

type appSettingRecord struct {
	bun.BaseModel `bun:"table:app_settings,alias:as"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}
