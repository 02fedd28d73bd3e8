package cli

import (
	"errors"
	"fmt"

	"github.com/mobile-next/fingers/utils"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "fingers"
const keyringUser = "server-token"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Commands for managing the bearer token the server requires and clients send.`,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the server token",
}

var authTokenSetCmd = &cobra.Command{
	Use:   "set TOKEN",
	Short: "Store the server token in the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := saveToken(args[0]); err != nil {
			return err
		}
		fmt.Println("Token stored")
		return nil
	},
}

var authTokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the server token from the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearToken(); err != nil {
			return err
		}
		fmt.Println("Token cleared")
		return nil
	},
}

func saveToken(value string) error {
	if value == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringUser, value); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// loadToken returns the stored token, or "" when none is stored or the
// keyring cannot be reached.
func loadToken() string {
	value, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return ""
	}
	if err != nil {
		utils.Verbose("Keyring unavailable, continuing without a token: %v", err)
		return ""
	}
	return value
}

func clearToken() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authTokenCmd)
	authTokenCmd.AddCommand(authTokenSetCmd)
	authTokenCmd.AddCommand(authTokenClearCmd)
}
