package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"safemedia/internal/logging"
	"safemedia/internal/server"
	"safemedia/internal/session"
	"safemedia/internal/voice"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analyzer HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			lockPath := filepath.Join(cfg.Paths.StateDir, "safemedia.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return errors.New("another safemedia instance is already running")
			}
			defer lock.Unlock() //nolint:errcheck

			gate, err := cmdCtx.accessGate()
			if err != nil {
				return fmt.Errorf("open access state: %w", err)
			}
			client, err := cmdCtx.geminiClient()
			if err != nil {
				return err
			}

			opts := []session.Option{session.WithLogger(logger)}

			store, err := cmdCtx.historyStore()
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			var histories server.HistoryLister
			if store != nil {
				defer store.Close()
				opts = append(opts, session.WithHistory(store))
				histories = store
			}

			voiceCfg, voiceEnabled, err := cmdCtx.voiceConfig()
			if err != nil {
				return err
			}
			if voiceEnabled {
				if capture, ok := voice.Detect(voiceCfg); ok {
					opts = append(opts, session.WithVoice(capture))
				} else {
					logger.Warn("voice input unavailable",
						logging.String("ffmpeg", voiceCfg.FFmpegBinary),
						logging.String("whisperx", voiceCfg.WhisperXBinary))
				}
			}

			controller := session.New(client, gate, opts...)
			srv, err := server.New(cfg, controller, histories, logger)
			if err != nil {
				return err
			}
			if err := srv.Start(ctx); err != nil {
				return err
			}
			defer srv.Stop()

			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
}
