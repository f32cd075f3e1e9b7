package cmd

import (
	"errors"
	"fmt"

	statusadapter "github.com/hansollab/cafemate/internal/adapters/render/status"
	"github.com/spf13/cobra"
)

func newSlotCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Inspect and reset login slots",
	}

	cmd.AddCommand(
		newSlotListCmd(app),
		newSlotResetCmd(app),
	)

	return cmd
}

func newSlotListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the five login slots and their session freshness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			slots, err := app.sessions.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load slots: %w", err)
			}

			rendered, err := app.statusRenderer(statusadapter.Report{
				Slots: slots,
				Now:   app.now(),
			})
			if err != nil {
				return fmt.Errorf("render slots: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newSlotResetCmd(app *app) *cobra.Command {
	var (
		slotID   int
		resetAll bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear one slot (--slot) or all slots (--all)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resetAll == (slotID != 0) {
				return errors.New("pass exactly one of --slot or --all")
			}

			if _, err := app.sessions.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load slots: %w", err)
			}

			if resetAll {
				app.sessions.ResetAll(cmd.Context())
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "all slots cleared")
				return err
			}

			if err := app.sessions.Reset(cmd.Context(), slotID); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "slot %d cleared\n", slotID)
			return err
		},
	}

	cmd.Flags().IntVar(&slotID, "slot", 0, "slot number to clear (1-5)")
	cmd.Flags().BoolVar(&resetAll, "all", false, "clear every slot")

	return cmd
}
