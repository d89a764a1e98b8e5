package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

var (
	settingsKey   string
	settingsValue string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change storesync settings. Values are stored in config.toml
under the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a single value",
	Example: `  storesync settings set --key store.site_url --value https://shop.example.com
  storesync settings set --key sync.per_page --value 50`,
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settingsSvc, err := settingsService()
		if err != nil {
			return err
		}
		for _, key := range settingsSvc.Keys() {
			cmd.Println(key)
		}
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVarP(&settingsKey, "key", "k", "", "dotted setting key")
	settingsSetCmd.Flags().StringVar(&settingsValue, "value", "", "new value")
	_ = settingsSetCmd.MarkFlagRequired("key")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settingsSvc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cred := settings.API.Credential()
	if cred.IsZero() {
		cmd.Println("  Key: (not set)")
	} else {
		cmd.Printf("  Key: %s\n", cred.Masked())
	}
	cmd.Printf("  Version: %s\n", settings.API.Version)
	cmd.Printf("  Host: %s\n", settings.API.Host)
	cmd.Printf("  Requests/s: %g\n", settings.API.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  ID: %s\n", orUnset(settings.Store.StoreID()))
	cmd.Printf("  Site URL: %s\n", orUnset(settings.Store.SiteURL))
	cmd.Printf("  Name: %s\n", orUnset(settings.Store.Name))
	cmd.Printf("  List ID: %s\n", orUnset(settings.Store.ListID))
	cmd.Printf("  Currency: %s\n", settings.Store.CurrencyCode)
	cmd.Printf("  Timezone: %s\n", settings.Store.Timezone)
	cmd.Println()

	cmd.Println("[Sync]")
	cmd.Printf("  Per page: %d\n", settings.Sync.PerPage)
	cmd.Printf("  Max attempts: %d\n", settings.Sync.MaxAttempts)
	cmd.Printf("  Concurrency: %d\n", settings.Sync.Concurrency)
	cmd.Printf("  Poll interval: %s\n", settings.Sync.PollInterval)
	cmd.Printf("  Resync after: %s\n", settings.Sync.ResyncAfter)
	cmd.Println()

	cmd.Println("[Queue]")
	cmd.Printf("  Backend: %s\n", settings.Queue.Backend.Description())
	if settings.Queue.Backend == domain.QueueBackendRedis {
		cmd.Printf("  Redis: %s db %d\n", settings.Queue.RedisAddr, settings.Queue.RedisDB)
	}
	cmd.Println()

	if err := settingsSvc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	settingsSvc, err := settingsService()
	if err != nil {
		return err
	}
	if err := settingsSvc.SetValue(settingsKey, settingsValue); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", settingsKey)
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
