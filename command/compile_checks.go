package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[LoginMessage]         = (*LoginCommand)(nil)
	_ gocmd.Commander[RegisterMessage]      = (*RegisterCommand)(nil)
	_ gocmd.Commander[ResumeSessionMessage] = (*ResumeSessionCommand)(nil)
	_ gocmd.Commander[LogoutMessage]        = (*LogoutCommand)(nil)
)
