package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the server connection",
		Long:  "Calls the server health check, which also verifies the database is reachable.",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server:  %s\n", getServerURL())

	if err := newAPIClient().Health(); err != nil {
		fmt.Fprintf(out, "Status:  unreachable (%v)\n", err)
		return err
	}

	fmt.Fprintln(out, "Status:  ok")
	return nil
}
