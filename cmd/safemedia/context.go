package main

import (
	"strings"
	"sync"

	"safemedia/internal/access"
	"safemedia/internal/config"
	"safemedia/internal/history"
	"safemedia/internal/services/gemini"
	"safemedia/internal/voice"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) geminiClient() (*gemini.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return gemini.NewClient(gemini.Config{
		APIKey:         cfg.Gemini.APIKey,
		BaseURL:        cfg.Gemini.BaseURL,
		Model:          cfg.Gemini.Model,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
	}), nil
}

func (c *commandContext) accessGate() (*access.Gate, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return access.NewGate(access.NewFileStore(cfg.Paths.StateDir))
}

func (c *commandContext) historyStore() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.Paths.StateDir)
}

func (c *commandContext) voiceConfig() (voice.Config, bool, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return voice.Config{}, false, err
	}
	return voice.Config{
		FFmpegBinary:        cfg.Voice.FFmpegBinary,
		WhisperXBinary:      cfg.Voice.WhisperXBinary,
		Model:               cfg.Voice.Model,
		Language:            cfg.Voice.Language,
		MaxUtteranceSeconds: cfg.Voice.MaxUtteranceSeconds,
		WorkDir:             cfg.Paths.StateDir,
	}, cfg.Voice.Enabled, nil
}
