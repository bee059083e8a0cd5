package main

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/pagepulse/internal/credential"
	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage classifier API keys in the OS keyring",
}

var keySetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeySet,
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove the stored API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeyDelete,
}

func init() {
	keySetCmd.Flags().Bool("stdin", false, "Read the key from stdin instead of prompting")
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd)
	rootCmd.AddCommand(keyCmd)
}

func checkProvider(name string) error {
	if providers := classifier.Providers(); !slices.Contains(providers, name) {
		return fmt.Errorf("unknown provider %q (available: %s)", name, strings.Join(providers, ", "))
	}
	return nil
}

func runKeySet(cmd *cobra.Command, args []string) error {
	provider := args[0]
	if err := checkProvider(provider); err != nil {
		return err
	}

	var key string
	if fromStdin, _ := cmd.Flags().GetBool("stdin"); fromStdin {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read key: %w", err)
		}
		key = line
	} else {
		var err error
		key, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show(provider + " API key")
		if err != nil {
			return err
		}
	}

	if err := credential.Set(provider, key); err != nil {
		return err
	}
	pterm.Success.Printf("Stored %s key %s\n", provider, credential.Mask(strings.TrimSpace(key)))
	return nil
}

func runKeyDelete(cmd *cobra.Command, args []string) error {
	if err := credential.Delete(args[0]); err != nil {
		return err
	}
	pterm.Success.Printf("Deleted %s key\n", args[0])
	return nil
}
