package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"safemedia/internal/config"
	"safemedia/internal/voice"
)

func newDoctorCommand(cmdCtx *commandContext) *cobra.Command {
	var skipNetwork bool

	cmd := &cobra.Command{
		Use:         "doctor",
		Short:       "Diagnose configuration, credentials, and capabilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			failed := false

			cfg, path, exists, err := config.Load(flagValue(cmdCtx))
			if err != nil {
				fmt.Fprintln(out, statusLine("Configuration", statusError, err.Error(), colorize))
				return fmt.Errorf("configuration is invalid")
			}
			detail := path
			if !exists {
				detail = fmt.Sprintf("%s (missing, defaults in use)", path)
			}
			fmt.Fprintln(out, statusLine("Configuration", statusOK, detail, colorize))

			if err := cfg.EnsureDirectories(); err != nil {
				fmt.Fprintln(out, statusLine("State directory", statusError, err.Error(), colorize))
				failed = true
			} else {
				fmt.Fprintln(out, statusLine("State directory", statusOK, cfg.Paths.StateDir, colorize))
			}

			hasKey := strings.TrimSpace(cfg.Gemini.APIKey) != "" || strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != ""
			if hasKey {
				fmt.Fprintln(out, statusLine("Gemini credential", statusOK, "", colorize))
			} else {
				fmt.Fprintln(out, statusLine("Gemini credential", statusError,
					"set api_key in [gemini] or export GEMINI_API_KEY", colorize))
				failed = true
			}

			if hasKey && !skipNetwork {
				client, clientErr := cmdCtx.geminiClient()
				if clientErr != nil {
					fmt.Fprintln(out, statusLine("Gemini backend", statusError, clientErr.Error(), colorize))
					failed = true
				} else {
					checkCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
					if healthErr := client.HealthCheck(checkCtx); healthErr != nil {
						fmt.Fprintln(out, statusLine("Gemini backend", statusWarn, healthErr.Error(), colorize))
					} else {
						fmt.Fprintln(out, statusLine("Gemini backend", statusOK, client.Model(), colorize))
					}
					cancel()
				}
			}

			voiceCfg := voice.Config{
				FFmpegBinary:   cfg.Voice.FFmpegBinary,
				WhisperXBinary: cfg.Voice.WhisperXBinary,
			}
			switch {
			case !cfg.Voice.Enabled:
				fmt.Fprintln(out, statusLine("Voice input", statusInfo, "disabled in configuration", colorize))
			default:
				if _, ok := voice.Detect(voiceCfg); ok {
					fmt.Fprintln(out, statusLine("Voice input", statusOK, "", colorize))
				} else {
					fmt.Fprintln(out, statusLine("Voice input", statusWarn,
						fmt.Sprintf("%s or %s not found on PATH", cfg.Voice.FFmpegBinary, cfg.Voice.WhisperXBinary), colorize))
				}
			}

			if cfg.History.Enabled {
				fmt.Fprintln(out, statusLine("History", statusOK, "enabled", colorize))
			} else {
				fmt.Fprintln(out, statusLine("History", statusInfo, "disabled", colorize))
			}

			if failed {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipNetwork, "offline", false, "Skip the backend health check")
	return cmd
}

func flagValue(cmdCtx *commandContext) string {
	if cmdCtx == nil || cmdCtx.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*cmdCtx.configFlag)
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func statusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("  %-20s %s", label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}
