package query

import (
	"fmt"

	"github.com/goliatone/go-resource/core"
)

const (
	TypeGetCurrentSession = "resource.query.session.current"
	TypeGetAccount        = "resource.query.account.get"
)

type GetCurrentSessionMessage struct{}

func (GetCurrentSessionMessage) Type() string { return TypeGetCurrentSession }

func (GetCurrentSessionMessage) Validate() error { return nil }

type GetAccountMessage struct {
	PK int
}

func (GetAccountMessage) Type() string { return TypeGetAccount }

func (m GetAccountMessage) Validate() error {
	if m.PK <= core.AccountIDUnset {
		return queryInvalidInputError(fmt.Sprintf("query: account pk %d is not valid", m.PK))
	}
	return nil
}
