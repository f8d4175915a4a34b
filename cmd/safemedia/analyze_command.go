package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"safemedia/internal/services"
)

func newAnalyzeCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOutput bool
	var skipRecord bool

	cmd := &cobra.Command{
		Use:   "analyze <title...>",
		Short: "Run a one-shot content-safety analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("a media title is required")
			}

			gate, err := cmdCtx.accessGate()
			if err != nil {
				return fmt.Errorf("open access state: %w", err)
			}
			if !gate.Paid() {
				return errors.New("access has not been unlocked; complete the one-time payment via the web surface first")
			}

			client, err := cmdCtx.geminiClient()
			if err != nil {
				return err
			}

			report, err := client.Analyze(cmd.Context(), query)
			if err != nil {
				if services.IsConfiguration(err) {
					return fmt.Errorf("gemini credentials missing: set api_key in [gemini] or export GEMINI_API_KEY")
				}
				return fmt.Errorf("analyze %q: %w", query, err)
			}

			if !skipRecord {
				if store, storeErr := cmdCtx.historyStore(); storeErr == nil && store != nil {
					defer store.Close()
					if _, recErr := store.Record(cmd.Context(), query, report); recErr != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not record history: %v\n", recErr)
					}
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}
			renderReport(out, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the raw report as JSON")
	cmd.Flags().BoolVar(&skipRecord, "no-record", false, "Skip recording the analysis in history")
	return cmd
}
