package logging

import (
	"log/slog"
	"path/filepath"
	"strings"

	"safemedia/internal/config"
)

const logFileName = "safemedia.log"

// NewFromConfig builds the process logger from the [logging] section. Output
// goes to stdout and, when a log directory is configured, to the log file.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return NewNop(), nil
	}
	paths := []string{"stdout"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		paths = append(paths, filepath.Join(dir, logFileName))
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
}
