package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-resource/core"
)

var (
	_ gocmd.Querier[GetCurrentSessionMessage, *core.Credential] = (*GetCurrentSessionQuery)(nil)
	_ gocmd.Querier[GetAccountMessage, core.AccountProfile]     = (*GetAccountQuery)(nil)
)
