package config

type Config interface {
	EnvConfig
	OAuthConfig
	PlatformConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Platform
	Storage
}

func New() Config {
	return mainConfig{}
}
