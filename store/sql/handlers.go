package sqlstore

import (
	"strconv"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// The account and token tables use integer primary keys assigned by the
// remote service, so the uuid-oriented handler hooks return uuid.Nil and
// identity flows through GetIdentifier/GetIdentifierValue instead.

func accountHandlers() repository.ModelHandlers[*accountPropertiesRecord] {
	return repository.ModelHandlers[*accountPropertiesRecord]{
		NewRecord: func() *accountPropertiesRecord {
			return &accountPropertiesRecord{}
		},
		GetID: func(record *accountPropertiesRecord) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(record *accountPropertiesRecord, _ uuid.UUID) {},
		GetIdentifier: func() string {
			return "pk"
		},
		GetIdentifierValue: func(record *accountPropertiesRecord) string {
			if record == nil {
				return ""
			}
			return strconv.Itoa(record.PK)
		},
	}
}

func authTokenHandlers() repository.ModelHandlers[*authTokenRecord] {
	return repository.ModelHandlers[*authTokenRecord]{
		NewRecord: func() *authTokenRecord {
			return &authTokenRecord{}
		},
		GetID: func(record *authTokenRecord) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(record *authTokenRecord, _ uuid.UUID) {},
		GetIdentifier: func() string {
			return "account_pk"
		},
		GetIdentifierValue: func(record *authTokenRecord) string {
			if record == nil {
				return ""
			}
			return strconv.Itoa(record.AccountPK)
		},
	}
}

func appSettingHandlers() repository.ModelHandlers[*appSettingRecord] {
	return repository.ModelHandlers[*appSettingRecord]{
		NewRecord: func() *appSettingRecord {
			return &appSettingRecord{}
		},
		GetID: func(record *appSettingRecord) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(record *appSettingRecord, _ uuid.UUID) {},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(record *appSettingRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.Key)
		},
	}
}
