// Package query exposes read-only lookups over the session and the cached
// account profiles as go-command queries.
package query

import (
	"context"
	"fmt"

	"github.com/goliatone/go-resource/core"
)

// SessionReader reports the current credential. session.Manager satisfies it.
type SessionReader interface {
	Current() *core.Credential
}

// AccountReader reads cached account profiles. The sql store and its cached
// wrapper both satisfy it.
type AccountReader interface {
	GetByPK(ctx context.Context, pk int) (*core.AccountProfile, error)
}

type GetCurrentSessionQuery struct {
	session SessionReader
}

func NewGetCurrentSessionQuery(session SessionReader) *GetCurrentSessionQuery {
	return &GetCurrentSessionQuery{session: session}
}

// Query returns the current credential, or nil when nobody is logged in.
func (q *GetCurrentSessionQuery) Query(ctx context.Context, msg GetCurrentSessionMessage) (*core.Credential, error) {
	if q == nil || q.session == nil {
		return nil, queryDependencyError("query: session reader is required")
	}
	return q.session.Current(), nil
}

type GetAccountQuery struct {
	accounts AccountReader
}

func NewGetAccountQuery(accounts AccountReader) *GetAccountQuery {
	return &GetAccountQuery{accounts: accounts}
}

func (q *GetAccountQuery) Query(ctx context.Context, msg GetAccountMessage) (core.AccountProfile, error) {
	if q == nil || q.accounts == nil {
		return core.AccountProfile{}, queryDependencyError("query: account reader is required")
	}
	profile, err := q.accounts.GetByPK(ctx, msg.PK)
	if err != nil {
		return core.AccountProfile{}, err
	}
	if profile == nil {
		return core.AccountProfile{}, queryNotFoundError(fmt.Sprintf("query: account %d not found", msg.PK))
	}
	return *profile, nil
}
