package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Configure content generation",
	}

	cmd.AddCommand(
		newSettingsPromptCmd(app),
		newSettingsKeyCmd(app),
	)

	return cmd
}

func newSettingsPromptCmd(app *app) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Show or set the generator system prompt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			if !cmd.Flags().Changed("set") {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), settings.Prompt())
				return err
			}

			settings.SystemPrompt = set
			if err := app.settings.Save(cmd.Context(), settings); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "system prompt updated")
			return err
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "replace the system prompt (empty restores the default)")

	return cmd
}

func newSettingsKeyCmd(app *app) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Store the generator API key in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			ref := settings.GeneratorSecretRef
			if ref == "" {
				ref = defaultSecretRef
			}

			if err := app.secrets.Put(cmd.Context(), ref, value); err != nil {
				return fmt.Errorf("store generator api key: %w", err)
			}

			if settings.GeneratorSecretRef != ref {
				settings.GeneratorSecretRef = ref
				if err := app.settings.Save(cmd.Context(), settings); err != nil {
					return fmt.Errorf("save settings: %w", err)
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "api key stored under %s\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "the API key to store")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}
