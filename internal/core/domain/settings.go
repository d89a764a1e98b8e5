package domain

import "time"

const unknownDescription = "Unknown"

// QueueBackend selects the durable job queue implementation.
type QueueBackend string

// Available queue backends.
const (
	// QueueBackendSQLite stores jobs in the local metadata database.
	QueueBackendSQLite QueueBackend = "sqlite"

	// QueueBackendRedis stores jobs in Redis lists, shared between hosts.
	QueueBackendRedis QueueBackend = "redis"

	// QueueBackendMemory keeps jobs in process memory (testing, --once runs).
	QueueBackendMemory QueueBackend = "memory"
)

// IsValid returns true if the queue backend is recognised.
func (b QueueBackend) IsValid() bool {
	switch b {
	case QueueBackendSQLite, QueueBackendRedis, QueueBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b QueueBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b QueueBackend) Description() string {
	switch b {
	case QueueBackendSQLite:
		return "SQLite (local, durable)"
	case QueueBackendRedis:
		return "Redis (shared, durable)"
	case QueueBackendMemory:
		return "Memory (volatile)"
	default:
		return unknownDescription
	}
}

// AllQueueBackends returns all available queue backends.
func AllQueueBackends() []QueueBackend {
	return []QueueBackend{
		QueueBackendSQLite,
		QueueBackendRedis,
		QueueBackendMemory,
	}
}

// APISettings holds marketing API connection configuration.
type APISettings struct {
	// Token is the "key-region" API key.
	Token string

	// Version is the API version path segment.
	Version string

	// Host is the API host suffix appended to the region.
	Host string

	// RequestsPerSecond throttles outbound requests. Zero disables throttling.
	RequestsPerSecond float64
}

// Credential returns the parsed API credential.
func (a APISettings) Credential() Credential {
	return NewCredential(a.Token)
}

// StoreSettings describes the local shop as registered remotely.
type StoreSettings struct {
	// SiteURL is the shop URL; the store ID derives from it when ID is empty.
	SiteURL string

	// ID overrides the derived store identifier.
	ID string

	// Name is the display name of the store.
	Name string

	// ListID is the marketing list linked to the store.
	ListID string

	// CurrencyCode is the ISO 4217 currency of the catalog.
	CurrencyCode string

	// Timezone is the IANA timezone of local timestamps.
	Timezone string

	// EmailAddress is the store contact address.
	EmailAddress string
}

// StoreID returns the configured or derived store identifier.
func (s StoreSettings) StoreID() string {
	if s.ID != "" {
		return s.ID
	}
	if s.SiteURL == "" {
		return ""
	}
	return StoreIDFromSiteURL(s.SiteURL)
}

// SyncSettings holds pipeline behaviour configuration.
type SyncSettings struct {
	// PerPage is the number of local entities one job instance processes.
	PerPage int

	// MaxAttempts bounds deliveries of a page that keeps failing in transport.
	MaxAttempts int

	// Concurrency is the number of job instances a worker runs at once.
	Concurrency int

	// PollInterval is how long an idle worker waits before dequeuing again.
	PollInterval time.Duration

	// ResyncAfter suppresses restarting a resource completed more recently than this.
	ResyncAfter time.Duration
}

// QueueSettings holds job queue configuration.
type QueueSettings struct {
	// Backend selects the queue implementation.
	Backend QueueBackend

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string

	// RedisPassword authenticates to Redis.
	RedisPassword string

	// RedisDB selects the Redis database number.
	RedisDB int

	// RedisKeyPrefix namespaces queue keys.
	RedisKeyPrefix string
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// Level is debug, info, warn or error.
	Level string

	// Format is json or console.
	Format string
}

// AppSettings holds all application settings.
type AppSettings struct {
	API   APISettings
	Store StoreSettings
	Sync  SyncSettings
	Queue QueueSettings
	Log   LogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The API token and store identity are left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			Version:           "3.0",
			Host:              "api.example.com",
			RequestsPerSecond: 10,
		},
		Store: StoreSettings{
			CurrencyCode: "USD",
			Timezone:     DefaultTimezone,
		},
		Sync: SyncSettings{
			PerPage:      10,
			MaxAttempts:  3,
			Concurrency:  1,
			PollInterval: 5 * time.Second,
			ResyncAfter:  0,
		},
		Queue: QueueSettings{
			Backend:        QueueBackendSQLite,
			RedisAddr:      "localhost:6379",
			RedisKeyPrefix: "storesync:",
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
	}
}
