package resource

import "github.com/goliatone/go-resource/core"

type Config = core.Config

type State[T any] = core.State[T]

type Notice = core.Notice

type Presentation = core.Presentation

type Credential = core.Credential

type AccountProfile = core.AccountProfile

type AuthResult = core.AuthResult

type AccountStore = core.AccountStore
type CredentialStore = core.CredentialStore
type SettingsStore = core.SettingsStore
type ConnectivityProbe = core.ConnectivityProbe
type ConnectivityProbeFunc = core.ConnectivityProbeFunc

type ConfigProvider = core.ConfigProvider
type OptionsResolver = core.OptionsResolver

func DefaultConfig() Config {
	return core.DefaultConfig()
}
