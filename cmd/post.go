package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPostCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Inspect generated posts",
	}

	cmd.AddCommand(
		newPostListCmd(app),
	)

	return cmd
}

func newPostListCmd(app *app) *cobra.Command {
	var (
		accountID string
		full      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated posts saved for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			posts, err := app.posts.ListByAccount(cmd.Context(), accountID)
			if err != nil {
				return fmt.Errorf("list posts: %w", err)
			}

			if len(posts) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "no posts for %s\n", accountID)
				return err
			}

			for _, post := range posts {
				content := post.Content
				if !full {
					content = previewLine(content, 60)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					post.ID, post.CreatedAt.Format("2006-01-02 15:04"), content)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account the posts were generated for")
	cmd.Flags().BoolVar(&full, "full", false, "print full post bodies instead of a preview")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func previewLine(content string, max int) string {
	runes := []rune(content)
	for i, r := range runes {
		if r == '\n' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > max {
		runes = append(runes[:max], '…')
	}
	return string(runes)
}
