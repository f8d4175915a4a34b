// Package voice wraps local speech-to-text behind a start/stop/transcript
// contract. The capability is optional: Detect reports absence as a normal
// value so callers degrade to a notice instead of failing.
package voice

import (
	"context"
	"os/exec"
)

// Events carries the observable transitions of a capture session. Result
// fires at most once per utterance (single-shot, no interim transcripts).
type Events struct {
	Started func()
	Ended   func()
	Result  func(transcript string)
}

// Capture is a microphone capture plus transcription session factory. At
// most one session is active at a time.
type Capture interface {
	Start(ctx context.Context, events Events) error
	Stop() error
}

// Config describes how utterances are captured and transcribed.
type Config struct {
	FFmpegBinary        string
	WhisperXBinary      string
	Model               string
	Language            string
	MaxUtteranceSeconds int
	WorkDir             string
}

// Detect is the capability query: it reports whether voice input can work on
// this host. Both the capture and the transcription binaries must be present;
// a missing binary yields (nil, false), not an error.
func Detect(cfg Config) (Capture, bool) {
	for _, binary := range []string{cfg.FFmpegBinary, cfg.WhisperXBinary} {
		if binary == "" {
			return nil, false
		}
		if _, err := exec.LookPath(binary); err != nil {
			return nil, false
		}
	}
	return NewRecorder(cfg), true
}
