package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.historyStore()
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			out := cmd.OutOrStdout()
			if store == nil {
				fmt.Fprintln(out, "History is disabled in the configuration.")
				return nil
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No analyses recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					entry.Query,
					entry.Title,
					entry.MediaType,
					entry.SuggestedAge,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Query", "Title", "Type", "Age"},
				rows,
				isTerminal(out),
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	return cmd
}
