package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// DefaultRoom is joined by every client at logon and never destroyed.
	DefaultRoom string `mapstructure:"default_room" yaml:"default_room"`
	// LogonGrace closes connections that have not logged on in time.
	LogonGrace time.Duration `mapstructure:"logon_grace" yaml:"logon_grace"`
	// SendBuffer is the per-session outbound envelope buffer size.
	SendBuffer int `mapstructure:"send_buffer" yaml:"send_buffer"`
	// WSRateLimit caps inbound frames per minute per connection; 0 disables.
	WSRateLimit int `mapstructure:"ws_rate_limit" yaml:"ws_rate_limit"`

	// WelcomePersona names the sender of welcome/farewell chat lines.
	WelcomePersona string `mapstructure:"welcome_persona" yaml:"welcome_persona"`
	// WelcomeURL, when set, is fetched on each join for extra welcome content.
	WelcomeURL string `mapstructure:"welcome_url" yaml:"welcome_url"`
	// WelcomeTimeout bounds each welcome content fetch.
	WelcomeTimeout time.Duration `mapstructure:"welcome_timeout" yaml:"welcome_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8081",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DefaultRoom:       "General",
		LogonGrace:        2 * time.Second,
		SendBuffer:        8,
		WSRateLimit:       0,
		WelcomePersona:    "roomcast",
		WelcomeURL:        "",
		WelcomeTimeout:    2 * time.Second,
	}
}
