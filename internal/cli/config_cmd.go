package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Server: %s\nPrefix: %s\n", getServerURL(), getAPIPrefix())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-server <url> [prefix]",
		Short: "Save the server URL (and optionally the API prefix)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSetServer,
	})

	return cmd
}

func runSetServer(cmd *cobra.Command, args []string) error {
	serverURL, err := normalizeServerURL(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ServerURL = serverURL
	if len(args) == 2 {
		prefix, err := normalizeAPIPrefix(args[1])
		if err != nil {
			return err
		}
		cfg.APIPrefix = prefix
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server set to %s (prefix %s)\n", cfg.ServerURL, getAPIPrefix())
	return nil
}
