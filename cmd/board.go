package cmd

import (
	"fmt"
	"sort"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage per-account board mappings",
	}

	cmd.AddCommand(
		newBoardSetCmd(app),
		newBoardListCmd(app),
		newBoardDeleteCmd(app),
	)

	return cmd
}

func newBoardSetCmd(app *app) *cobra.Command {
	var (
		accountID string
		cafeName  string
		boardName string
	)

	cmd := &cobra.Command{
		Use:   "set <board-url>",
		Short: "Map an account to the board a URL points at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cafeID, boardID, ok := domain.ParseBoardURL(args[0])
			if !ok {
				return fmt.Errorf("unrecognized board URL %q (expected .../f-e/cafes/<cafe>/menus/<board>)", args[0])
			}

			mapping := domain.BoardMapping{
				Key:       accountID,
				CafeID:    cafeID,
				BoardID:   boardID,
				CafeName:  cafeName,
				BoardName: boardName,
			}
			if err := app.boards.Save(cmd.Context(), mapping); err != nil {
				return fmt.Errorf("save board mapping: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> cafe %s, board %s\n", accountID, cafeID, boardID)
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account the mapping belongs to")
	cmd.Flags().StringVar(&cafeName, "cafe-name", "", "display name for the cafe")
	cmd.Flags().StringVar(&boardName, "board-name", "", "display name for the board")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newBoardListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List board mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mappings, err := app.boards.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list board mappings: %w", err)
			}

			keys := make([]string, 0, len(mappings))
			for key := range mappings {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				m := mappings[key]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tcafe %s\tboard %s", key, m.CafeID, m.BoardID)
				if m.CafeName != "" || m.BoardName != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\t(%s / %s)", m.CafeName, m.BoardName)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}

			return nil
		},
	}
}

func newBoardDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Remove an account's board mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.boards.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "mapping for %s removed\n", args[0])
			return err
		},
	}
}
