package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// SettingsStore is a persisted key-value table used for small app state,
// such as the previously authenticated user. Missing keys read as "".
type SettingsStore struct {
	db   *bun.DB
	repo repository.Repository[*appSettingRecord]
}

func (s *SettingsStore) GetString(ctx context.Context, key string) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("sqlstore: settings store is not configured")
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("sqlstore: settings key is required")
	}

	record := new(appSettingRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.key = ?", trimmed).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return record.Value, nil
}

func (s *SettingsStore) PutString(ctx context.Context, key string, value string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: settings store is not configured")
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return fmt.Errorf("sqlstore: settings key is required")
	}

	_, err := s.db.NewInsert().
		Model(&appSettingRecord{Key: trimmed, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}
