package driving

import "github.com/custodia-labs/storesync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetCredential stores the API token.
	SetCredential(token string) error

	// SetValue stores a single setting by its dotted key.
	SetValue(key, value string) error

	// Validate checks that the settings are sufficient to run a sync.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys lists every key accepted by SetValue.
	Keys() []string
}
