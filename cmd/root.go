package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cafemate",
		Short:         "cafemate: schedule and automate Naver Cafe posting",
		Long:          "cafemate keeps up to five captured login sessions, stores posting templates captured from the cafe editor, and runs scheduled tasks that generate content and submit it by replaying the captured editor request.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSlotCmd(app),
		newBoardCmd(app),
		newTemplateCmd(app),
		newPostCmd(app),
		newTaskCmd(app),
		newSettingsCmd(app),
	)

	return rootCmd
}
