package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/comment-board/internal/comment"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCommentTable prints comments as a formatted table.
func printCommentTable(out io.Writer, comments []comment.View) error {
	if len(comments) == 0 {
		_, err := fmt.Fprintln(out, "No comments.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tCREATED\tCONTENT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-------\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, c := range comments {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.CreatedAt, truncate(oneLine(c.Content), 60)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	_, err := fmt.Fprintf(out, "\nTotal: %d comments\n", len(comments))
	return err
}

// printCommentSingle prints a single comment in text format.
func printCommentSingle(w io.Writer, c *comment.View) {
	fmt.Fprintf(w, "Comment #%d added at %s.\n  %s\n", c.ID, c.CreatedAt, c.Content)
}

// oneLine collapses runs of whitespace, including newlines, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
