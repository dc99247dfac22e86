package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-resource/core"
	"github.com/uptrace/bun"
)

// AccountStore persists account profiles cached from the remote auth
// service. The remote assigns the primary key; inserts never generate one.
type AccountStore struct {
	db   *bun.DB
	repo repository.Repository[*accountPropertiesRecord]
}

// UpsertIgnore inserts the profile only when no row with its pk exists. An
// existing row is left untouched and is not an error.
func (s *AccountStore) UpsertIgnore(ctx context.Context, profile core.AccountProfile) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: account store is not configured")
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	_, err := s.db.NewInsert().
		Model(newAccountPropertiesRecord(profile)).
		Ignore().
		Exec(ctx)
	return err
}

// UpsertReplace inserts the profile, replacing any existing row with its pk.
func (s *AccountStore) UpsertReplace(ctx context.Context, profile core.AccountProfile) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: account store is not configured")
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	_, err := s.db.NewInsert().
		Model(newAccountPropertiesRecord(profile)).
		On("CONFLICT (pk) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("username = EXCLUDED.username").
		Exec(ctx)
	return err
}

func (s *AccountStore) GetByPK(ctx context.Context, pk int) (*core.AccountProfile, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: account store is not configured")
	}

	record := new(accountPropertiesRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.pk = ?", pk).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	profile := record.toDomain()
	return &profile, nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*core.AccountProfile, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: account store is not configured")
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, nil
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectBy("email", "=", trimmed),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	profile := records[0].toDomain()
	return &profile, nil
}
