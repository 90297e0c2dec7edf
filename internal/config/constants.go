package config

const (
	AppName    = "uniflash"
	AppVersion = "1.0.0"
)

const (
	DefaultServerPort    = ":8080"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultTimezone      = "UTC"
	DefaultTokenTTLHours = 72
	DefaultChatModel     = "gpt-4o-mini"
)
