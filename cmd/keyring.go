package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brk3/habiterm/internal/keyring"
	"github.com/spf13/cobra"
)

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage the resend API key in the OS keyring",
}

var keyringSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the resend API key, read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readSecret(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := keyring.SetResendAPIKey(key); err != nil {
			return err
		}
		cmd.Println("Stored resend API key in keyring.")
		return nil
	},
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the resend API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := keyring.DeleteResendAPIKey()
		if errors.Is(err, keyring.ErrNotFound) {
			cmd.Println("No resend API key stored.")
			return nil
		}
		if err != nil {
			return err
		}
		cmd.Println("Removed resend API key from keyring.")
		return nil
	},
}

func init() {
	keyringCmd.AddCommand(keyringSetCmd, keyringDeleteCmd)
	rootCmd.AddCommand(keyringCmd)
}

// readSecret returns the first line of r, trimmed.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read API key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return "", errors.New("no API key given on stdin")
	}
	return key, nil
}
