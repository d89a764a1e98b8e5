package services

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
	"github.com/custodia-labs/storesync/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvAPIKey overrides the stored API token when set.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvAPIKey = "STORESYNC_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIToken       = "api.token"
	keyAPIVersion     = "api.version"
	keyAPIHost        = "api.host"
	keyAPIRate        = "api.requests_per_second"
	keyStoreSiteURL   = "store.site_url"
	keyStoreID        = "store.id"
	keyStoreName      = "store.name"
	keyStoreListID    = "store.list_id"
	keyStoreCurrency  = "store.currency_code"
	keyStoreTimezone  = "store.timezone"
	keyStoreEmail     = "store.email_address"
	keySyncPerPage    = "sync.per_page"
	keySyncAttempts   = "sync.max_attempts"
	keySyncWorkers    = "sync.concurrency"
	keySyncPoll       = "sync.poll_interval"
	keySyncResync     = "sync.resync_after"
	keyQueueBackend   = "queue.backend"
	keyRedisAddr      = "queue.redis_addr"
	keyRedisPassword  = "queue.redis_password"
	keyRedisDB        = "queue.redis_db"
	keyRedisKeyPrefix = "queue.redis_key_prefix"
	keyLogLevel       = "log.level"
	keyLogFormat      = "log.format"
)

// settingKind describes how a setting's string form is parsed.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindDuration
)

// knownSettings lists every settable key and its value kind.
var knownSettings = map[string]settingKind{
	keyAPIToken:       kindString,
	keyAPIVersion:     kindString,
	keyAPIHost:        kindString,
	keyAPIRate:        kindFloat,
	keyStoreSiteURL:   kindString,
	keyStoreID:        kindString,
	keyStoreName:      kindString,
	keyStoreListID:    kindString,
	keyStoreCurrency:  kindString,
	keyStoreTimezone:  kindString,
	keyStoreEmail:     kindString,
	keySyncPerPage:    kindInt,
	keySyncAttempts:   kindInt,
	keySyncWorkers:    kindInt,
	keySyncPoll:       kindDuration,
	keySyncResync:     kindDuration,
	keyQueueBackend:   kindString,
	keyRedisAddr:      kindString,
	keyRedisPassword:  kindString,
	keyRedisDB:        kindInt,
	keyRedisKeyPrefix: kindString,
	keyLogLevel:       kindString,
	keyLogFormat:      kindString,
}

// configValue is one key/value pair written by Save.
type configValue struct {
	key   string
	value any
}

// SettingKeys returns every settable key in sorted order.
func SettingKeys() []string {
	return slices.Sorted(maps.Keys(knownSettings))
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			Token:             s.getString(keyAPIToken, defaults.API.Token),
			Version:           s.getString(keyAPIVersion, defaults.API.Version),
			Host:              s.getString(keyAPIHost, defaults.API.Host),
			RequestsPerSecond: s.getFloat(keyAPIRate, defaults.API.RequestsPerSecond),
		},
		Store: domain.StoreSettings{
			SiteURL:      s.configStore.GetString(keyStoreSiteURL),
			ID:           s.configStore.GetString(keyStoreID),
			Name:         s.configStore.GetString(keyStoreName),
			ListID:       s.configStore.GetString(keyStoreListID),
			CurrencyCode: s.getString(keyStoreCurrency, defaults.Store.CurrencyCode),
			Timezone:     s.getString(keyStoreTimezone, defaults.Store.Timezone),
			EmailAddress: s.configStore.GetString(keyStoreEmail),
		},
		Sync: domain.SyncSettings{
			PerPage:      s.getInt(keySyncPerPage, defaults.Sync.PerPage),
			MaxAttempts:  s.getInt(keySyncAttempts, defaults.Sync.MaxAttempts),
			Concurrency:  s.getInt(keySyncWorkers, defaults.Sync.Concurrency),
			PollInterval: s.getDuration(keySyncPoll, defaults.Sync.PollInterval),
			ResyncAfter:  s.getDuration(keySyncResync, defaults.Sync.ResyncAfter),
		},
		Queue: domain.QueueSettings{
			Backend:        s.getQueueBackend(defaults.Queue.Backend),
			RedisAddr:      s.getString(keyRedisAddr, defaults.Queue.RedisAddr),
			RedisPassword:  s.configStore.GetString(keyRedisPassword),
			RedisDB:        s.configStore.GetInt(keyRedisDB),
			RedisKeyPrefix: s.getString(keyRedisKeyPrefix, defaults.Queue.RedisKeyPrefix),
		},
		Log: domain.LogSettings{
			Level:  s.getString(keyLogLevel, defaults.Log.Level),
			Format: s.getString(keyLogFormat, defaults.Log.Format),
		},
	}

	if token := os.Getenv(EnvAPIKey); token != "" {
		settings.API.Token = token
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []configValue{
		{keyAPIVersion, settings.API.Version},
		{keyAPIHost, settings.API.Host},
		{keyAPIRate, settings.API.RequestsPerSecond},
		{keyStoreSiteURL, settings.Store.SiteURL},
		{keyStoreID, settings.Store.ID},
		{keyStoreName, settings.Store.Name},
		{keyStoreListID, settings.Store.ListID},
		{keyStoreCurrency, settings.Store.CurrencyCode},
		{keyStoreTimezone, settings.Store.Timezone},
		{keyStoreEmail, settings.Store.EmailAddress},
		{keySyncPerPage, settings.Sync.PerPage},
		{keySyncAttempts, settings.Sync.MaxAttempts},
		{keySyncWorkers, settings.Sync.Concurrency},
		{keySyncPoll, settings.Sync.PollInterval.String()},
		{keySyncResync, settings.Sync.ResyncAfter.String()},
		{keyQueueBackend, settings.Queue.Backend.String()},
		{keyRedisAddr, settings.Queue.RedisAddr},
		{keyRedisPassword, settings.Queue.RedisPassword},
		{keyRedisDB, settings.Queue.RedisDB},
		{keyRedisKeyPrefix, settings.Queue.RedisKeyPrefix},
		{keyLogLevel, settings.Log.Level},
		{keyLogFormat, settings.Log.Format},
	}

	// The token is only written when it did not come from the environment.
	if settings.API.Token != os.Getenv(EnvAPIKey) {
		values = append(values, configValue{keyAPIToken, settings.API.Token})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return s.configStore.Save()
}

// SetCredential stores the API token after checking it carries a key.
func (s *SettingsService) SetCredential(token string) error {
	if domain.NewCredential(token).IsZero() {
		return fmt.Errorf("%w: empty api key", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyAPIToken, token); err != nil {
		return err
	}
	logger.Debug("Stored credential %s", domain.NewCredential(token).Masked())
	return s.configStore.Save()
}

// SetValue parses and stores a single setting by its dotted key.
func (s *SettingsService) SetValue(key, value string) error {
	kind, ok := knownSettings[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var stored any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		stored = f
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s must be a duration", domain.ErrInvalidInput, key)
		}
		stored = value
	default:
		stored = value
	}

	if key == keyQueueBackend && !domain.QueueBackend(value).IsValid() {
		return fmt.Errorf("%w: unknown queue backend %q", domain.ErrInvalidInput, value)
	}
	if key == keyLogLevel {
		if _, err := logger.ParseLevel(value); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return err
	}
	return s.configStore.Save()
}

// Validate checks that the settings are sufficient to run a sync.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.API.Credential().IsZero() {
		return fmt.Errorf("%w: set one with 'storesync credential set' or %s",
			domain.ErrCredentialMissing, EnvAPIKey)
	}
	if settings.Store.StoreID() == "" {
		return fmt.Errorf("%w: %s or %s must be configured", domain.ErrInvalidInput, keyStoreSiteURL, keyStoreID)
	}
	if !settings.Queue.Backend.IsValid() {
		return fmt.Errorf("%w: unknown queue backend %q", domain.ErrInvalidInput, settings.Queue.Backend)
	}
	if settings.Sync.PerPage < 1 || settings.Sync.MaxAttempts < 1 || settings.Sync.Concurrency < 1 {
		return fmt.Errorf("%w: per_page, max_attempts and concurrency must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys lists every key accepted by SetValue.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getQueueBackend(defaultVal domain.QueueBackend) domain.QueueBackend {
	val := s.configStore.GetString(keyQueueBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.QueueBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
