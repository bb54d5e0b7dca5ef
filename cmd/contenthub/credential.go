package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/contenthub/internal/credential"
)

var credentialFile string

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage secrets in the system keyring",
}

var credentialSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Store a secret read from --file or stdin",
	Long: `Store a secret in the system keyring.

The storage signing key is looked up under storage.private_key_ref
(default "gcs-signing-key"):
  contenthub credential set gcs-signing-key --file service-account-key.pem`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if credentialFile != "" {
			data, err = os.ReadFile(credentialFile)
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading secret: %w", err)
		}
		value := strings.TrimSpace(string(data))
		if value == "" {
			return fmt.Errorf("secret for %q is empty", args[0])
		}

		creds, err := credential.Open()
		if err != nil {
			return err
		}
		if err := creds.Set(args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %q\n", args[0])
		return nil
	},
}

var credentialDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a secret from the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := credential.Open()
		if err != nil {
			return err
		}
		if err := creds.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", args[0])
		return nil
	},
}

func init() {
	credentialSetCmd.Flags().StringVar(&credentialFile, "file", "", "read the secret from a file")
	credentialCmd.AddCommand(credentialSetCmd)
	credentialCmd.AddCommand(credentialDeleteCmd)
}
