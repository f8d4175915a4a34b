package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccessCommand(cmdCtx *commandContext) *cobra.Command {
	accessCmd := &cobra.Command{
		Use:   "access",
		Short: "Inspect the one-time payment gate",
	}

	accessCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether analysis access is unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := cmdCtx.accessGate()
			if err != nil {
				return fmt.Errorf("open access state: %w", err)
			}
			out := cmd.OutOrStdout()
			if gate.Paid() {
				fmt.Fprintln(out, "Access is unlocked.")
				return nil
			}
			cfg, _ := cmdCtx.ensureConfig()
			fmt.Fprintln(out, "Access is locked. Complete the one-time payment to unlock analysis.")
			if cfg != nil && cfg.Payment.Link != "" {
				fmt.Fprintf(out, "Payment page: %s\n", cfg.Payment.Link)
			}
			return nil
		},
	})

	return accessCmd
}
