package config

type PlatformConfig interface {
	GetPlatformBaseURL() string
}

type Platform struct{}

var _ PlatformConfig = Platform{}

func (Platform) GetPlatformBaseURL() string {
	return GetEnv("PLATFORM_BASE_URL", "https://developer.api.autodesk.com")
}
