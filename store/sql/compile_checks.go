package sqlstore

import "github.com/goliatone/go-resource/core"

var (
	_ core.AccountStore    = (*AccountStore)(nil)
	_ core.CredentialStore = (*AuthTokenStore)(nil)
	_ core.SettingsStore   = (*SettingsStore)(nil)
)
