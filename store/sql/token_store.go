package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-resource/core"
	"github.com/uptrace/bun"
)

// AuthTokenStore persists session credentials, one row per account.
type AuthTokenStore struct {
	db   *bun.DB
	repo repository.Repository[*authTokenRecord]
}

// UpsertReplace inserts the credential, replacing the account's existing
// token when a row is already present.
func (s *AuthTokenStore) UpsertReplace(ctx context.Context, credential core.Credential) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: auth token store is not configured")
	}
	if err := credential.Validate(); err != nil {
		return err
	}

	_, err := s.db.NewInsert().
		Model(newAuthTokenRecord(credential)).
		On("CONFLICT (account_pk) DO UPDATE").
		Set("token = EXCLUDED.token").
		Exec(ctx)
	return err
}

func (s *AuthTokenStore) GetByAccount(ctx context.Context, pk int) (*core.Credential, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: auth token store is not configured")
	}

	record := new(authTokenRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.account_pk = ?", pk).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	credential := record.toDomain()
	return &credential, nil
}

// NullifyToken clears the token while keeping the row, so the account keeps
// its credential slot across logouts. Returns the number of rows touched.
func (s *AuthTokenStore) NullifyToken(ctx context.Context, pk int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: auth token store is not configured")
	}

	result, err := s.db.NewUpdate().
		Model((*authTokenRecord)(nil)).
		Set("token = NULL").
		Where("account_pk = ?", pk).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}
