package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-resource/core"
)

const accountCacheKeyPrefix = "go-resource::account_profile::v1"

// accountLookup wraps a read result so the cache can also remember that a
// row was absent.
type accountLookup struct {
	Found   bool
	Profile core.AccountProfile
}

// CachedAccountStore serves profile reads through the cache service and
// invalidates on every write. Session resume reads the same profile on every
// launch, which is what makes the read path worth caching.
type CachedAccountStore struct {
	base  core.AccountStore
	cache repositorycache.CacheService
}

func NewCachedAccountStore(base core.AccountStore, cacheService repositorycache.CacheService) (*CachedAccountStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base account store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: account cache service is required")
	}
	return &CachedAccountStore{base: base, cache: cacheService}, nil
}

// AccountPKCacheKey returns the deterministic cache key for pk reads:
// go-resource::account_profile::v1::pk::<pk>
func AccountPKCacheKey(pk int) string {
	return strings.Join([]string{accountCacheKeyPrefix, "pk", strconv.Itoa(pk)}, "::")
}

// AccountEmailCacheKey returns the deterministic cache key for email reads:
// go-resource::account_profile::v1::email::<escaped-email>
func AccountEmailCacheKey(email string) string {
	escaped := url.PathEscape(strings.TrimSpace(email))
	return strings.Join([]string{accountCacheKeyPrefix, "email", escaped}, "::")
}

func (s *CachedAccountStore) GetByPK(ctx context.Context, pk int) (*core.AccountProfile, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached account store is not configured")
	}

	lookup, err := repositorycache.GetOrFetch(ctx, s.cache, AccountPKCacheKey(pk), func(ctx context.Context) (accountLookup, error) {
		profile, fetchErr := s.base.GetByPK(ctx, pk)
		if fetchErr != nil {
			return accountLookup{}, fetchErr
		}
		if profile == nil {
			return accountLookup{}, nil
		}
		return accountLookup{Found: true, Profile: *profile}, nil
	})
	if err != nil {
		return nil, err
	}
	if !lookup.Found {
		return nil, nil
	}
	profile := lookup.Profile
	return &profile, nil
}

func (s *CachedAccountStore) GetByEmail(ctx context.Context, email string) (*core.AccountProfile, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached account store is not configured")
	}

	lookup, err := repositorycache.GetOrFetch(ctx, s.cache, AccountEmailCacheKey(email), func(ctx context.Context) (accountLookup, error) {
		profile, fetchErr := s.base.GetByEmail(ctx, email)
		if fetchErr != nil {
			return accountLookup{}, fetchErr
		}
		if profile == nil {
			return accountLookup{}, nil
		}
		return accountLookup{Found: true, Profile: *profile}, nil
	})
	if err != nil {
		return nil, err
	}
	if !lookup.Found {
		return nil, nil
	}
	profile := lookup.Profile
	return &profile, nil
}

func (s *CachedAccountStore) UpsertIgnore(ctx context.Context, profile core.AccountProfile) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached account store is not configured")
	}
	if err := s.base.UpsertIgnore(ctx, profile); err != nil {
		return err
	}
	return s.invalidate(ctx, profile)
}

func (s *CachedAccountStore) UpsertReplace(ctx context.Context, profile core.AccountProfile) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached account store is not configured")
	}
	if err := s.base.UpsertReplace(ctx, profile); err != nil {
		return err
	}
	return s.invalidate(ctx, profile)
}

func (s *CachedAccountStore) invalidate(ctx context.Context, profile core.AccountProfile) error {
	if err := s.cache.Delete(ctx, AccountPKCacheKey(profile.PK)); err != nil {
		return err
	}
	return s.cache.Delete(ctx, AccountEmailCacheKey(profile.Email))
}

var _ core.AccountStore = (*CachedAccountStore)(nil)
