package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// ErrSessionActive is returned when Start is called while a session runs.
// The session controller translates a second toggle into Stop, so regular
// use never hits this.
var ErrSessionActive = errors.New("voice capture already active")

// Recorder captures one bounded utterance from the default microphone with
// ffmpeg and transcribes it with whisperx.
type Recorder struct {
	cfg Config

	// commandRunner overrides process execution in tests.
	commandRunner func(ctx context.Context, name string, args ...string) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecorder builds a recorder from the supplied configuration.
func NewRecorder(cfg Config) *Recorder {
	if cfg.MaxUtteranceSeconds <= 0 {
		cfg.MaxUtteranceSeconds = 10
	}
	return &Recorder{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Recorder) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.commandRunner = runner
}

// Start begins a capture session and returns immediately; progress is
// reported through events. Starting while a session is active is an error.
func (r *Recorder) Start(ctx context.Context, events Events) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return ErrSessionActive
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go r.capture(sessionCtx, events, done)
	return nil
}

// Stop ends the active session. Stopping an idle recorder is a no-op.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (r *Recorder) capture(ctx context.Context, events Events, done chan struct{}) {
	defer close(done)
	defer func() {
		r.mu.Lock()
		r.cancel = nil
		r.done = nil
		r.mu.Unlock()
		if events.Ended != nil {
			events.Ended()
		}
	}()

	if events.Started != nil {
		events.Started()
	}

	transcript, err := r.recordAndTranscribe(ctx)
	if err != nil || strings.TrimSpace(transcript) == "" {
		return
	}
	if ctx.Err() != nil {
		// Manual stop: the utterance is discarded.
		return
	}
	if events.Result != nil {
		events.Result(strings.TrimSpace(transcript))
	}
}

func (r *Recorder) recordAndTranscribe(ctx context.Context) (string, error) {
	workDir := r.cfg.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	sessionDir, err := os.MkdirTemp(workDir, "utterance-")
	if err != nil {
		return "", fmt.Errorf("voice capture: create session dir: %w", err)
	}
	defer os.RemoveAll(sessionDir)

	wavPath := filepath.Join(sessionDir, "utterance.wav")
	recordArgs := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "alsa", "-i", "default",
		"-t", strconv.Itoa(r.cfg.MaxUtteranceSeconds),
		"-ac", "1", "-ar", "16000",
		"-y", wavPath,
	}
	if err := r.run(ctx, r.cfg.FFmpegBinary, recordArgs...); err != nil {
		return "", fmt.Errorf("voice capture: record: %w", err)
	}

	transcribeArgs := []string{
		wavPath,
		"--model", r.cfg.Model,
		"--language", r.cfg.Language,
		"--output_format", "json",
		"--output_dir", sessionDir,
	}
	if err := r.run(ctx, r.cfg.WhisperXBinary, transcribeArgs...); err != nil {
		return "", fmt.Errorf("voice capture: transcribe: %w", err)
	}

	jsonPath := filepath.Join(sessionDir, "utterance.json")
	return readTranscript(jsonPath)
}

func (r *Recorder) run(ctx context.Context, name string, args ...string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func readTranscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("voice capture: read transcript: %w", err)
	}

	var decoded struct {
		Segments []struct {
			Text string `json:"text"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("voice capture: decode transcript: %w", err)
	}

	parts := make([]string, 0, len(decoded.Segments))
	for _, segment := range decoded.Segments {
		if trimmed := strings.TrimSpace(segment.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " "), nil
}
