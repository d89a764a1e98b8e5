package marketing

import (
	"time"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

const (
	// DefaultHost is the API host suffix; the region is prepended as a subdomain.
	DefaultHost = "api.example.com"

	// DefaultVersion is the API version path segment.
	DefaultVersion = "3.0"

	// DefaultTimeout bounds a single request including redirects.
	DefaultTimeout = 30 * time.Second

	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects = 10

	// Username is the fixed basic-auth user; the API key is the password.
	Username = "storesync"
)

// Config configures a Client.
type Config struct {
	// Token is the "key-region" API key.
	Token string

	// Host overrides DefaultHost.
	Host string

	// Version overrides DefaultVersion.
	Version string

	// Endpoint replaces the whole "https://{region}.{host}" origin when set.
	// Used to point the client at a local server.
	Endpoint string

	// RequestsPerSecond throttles outbound requests. Zero disables throttling.
	RequestsPerSecond float64

	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

// ConfigFromSettings maps application settings to a client configuration.
func ConfigFromSettings(s domain.APISettings) Config {
	return Config{
		Token:             s.Token,
		Host:              s.Host,
		Version:           s.Version,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}
