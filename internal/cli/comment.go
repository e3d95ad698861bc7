package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `comment "text"`,
		Short: "Post a comment",
		Long:  "Post a text comment (1-500 characters). Multiple arguments are joined with spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runComment,
	}
}

func runComment(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}

	v, err := newAPIClient().CreateComment(text)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), v)
	}

	printCommentSingle(cmd.OutOrStdout(), v)
	return nil
}
