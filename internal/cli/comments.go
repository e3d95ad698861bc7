package cli

import (
	"github.com/spf13/cobra"
)

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments",
		Short: "List comments",
		Long:  "List all comments, newest first.",
		Args:  cobra.NoArgs,
		RunE:  runComments,
	}
}

func runComments(cmd *cobra.Command, args []string) error {
	resp, err := newAPIClient().ListComments()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), resp)
	}

	return printCommentTable(cmd.OutOrStdout(), resp.Comments)
}
