package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplateCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect captured posting templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates captured for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates, err := app.templates.ListByUser(cmd.Context(), accountID)
			if err != nil {
				return fmt.Errorf("list templates: %w", err)
			}

			if len(templates) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "no templates for %s\n", accountID)
				return err
			}

			for _, tpl := range templates {
				title := tpl.Title
				if title == "" {
					title = "(untitled)"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tcafe %s\tmenu %s\t%s\n",
					tpl.ID, title, tpl.CafeID, tpl.MenuID, tpl.Timestamp.Format("2006-01-02 15:04"))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account that owns the templates")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
