package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage the marketing API key",
}

var credentialSetCmd = &cobra.Command{
	Use:   "set [key-region]",
	Short: "Store the API key",
	Long: `Store the marketing API key. Keys have the form "key-region"; the region
selects the API host. Without an argument the key is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCredentialSet,
}

var credentialShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key, masked",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settingsSvc, err := settingsService()
		if err != nil {
			return err
		}
		settings, err := settingsSvc.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		cred := settings.API.Credential()
		if cred.IsZero() {
			cmd.Println("API key: (not set)")
			return nil
		}
		cmd.Printf("API key: %s\n", cred.Masked())
		cmd.Printf("Region:  %s\n", cred.Region)
		return nil
	},
}

func init() {
	credentialCmd.AddCommand(credentialSetCmd)
	credentialCmd.AddCommand(credentialShowCmd)
	rootCmd.AddCommand(credentialCmd)
}

func runCredentialSet(cmd *cobra.Command, args []string) error {
	settingsSvc, err := settingsService()
	if err != nil {
		return err
	}

	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		cmd.Print("API key: ")
		token = readSecret(cmd.InOrStdin())
		cmd.Println()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("no API key given")
	}

	if err := settingsSvc.SetCredential(token); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	cmd.Printf("Stored API key %s\n", domain.NewCredential(token).Masked())
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}
