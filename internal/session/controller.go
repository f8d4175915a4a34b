// Package session owns the interaction state machine: the paid/unpaid gate,
// input text, voice-capture toggle, the single in-flight submission, and the
// last result or error.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"safemedia/internal/access"
	"safemedia/internal/analysis"
	"safemedia/internal/history"
	"safemedia/internal/logging"
	"safemedia/internal/services"
	"safemedia/internal/voice"
)

// AnalysisFailureMessage is the one user-facing message every analysis
// failure collapses into. The underlying classification goes to logs only.
const AnalysisFailureMessage = "Could not analyze media. Please try again later or check your connection."

// VoiceUnavailableNotice is shown when the host lacks the speech capability.
const VoiceUnavailableNotice = "Voice input is not supported on this system."

// Event rejection sentinels. These mark events the controller refused to
// consume; they are transport-level signals, not user-facing failures.
var (
	ErrPaymentRequired = errors.New("payment required")
	ErrBusy            = errors.New("submission in flight")
	ErrEmptyQuery      = errors.New("query required")
)

// Analyzer produces a content-safety report for a media query.
type Analyzer interface {
	Analyze(ctx context.Context, query string) (*analysis.MediaAnalysis, error)
}

// HistoryRecorder appends completed analyses to the local history.
type HistoryRecorder interface {
	Record(ctx context.Context, query string, report *analysis.MediaAnalysis) (*history.Entry, error)
}

// State is a snapshot of the interaction state. After any completed
// submission exactly one of Result/ErrorMessage is populated.
type State struct {
	Paid         bool
	InputText    string
	IsListening  bool
	IsSubmitting bool
	Result       *analysis.MediaAnalysis
	ErrorMessage string
}

// Controller runs the interaction state machine for the life of the session.
type Controller struct {
	analyzer Analyzer
	gate     *access.Gate
	capture  voice.Capture
	recorder HistoryRecorder
	logger   *slog.Logger

	mu         sync.Mutex
	input      string
	listening  bool
	submitting bool
	result     *analysis.MediaAnalysis
	errMsg     string
}

// Option customizes the controller.
type Option func(*Controller)

// WithVoice attaches a voice capture adapter. A nil capture (capability
// absent) leaves voice input disabled with a user notice.
func WithVoice(capture voice.Capture) Option {
	return func(c *Controller) {
		c.capture = capture
	}
}

// WithHistory attaches the analysis history recorder.
func WithHistory(recorder HistoryRecorder) Option {
	return func(c *Controller) {
		c.recorder = recorder
	}
}

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a controller. The analyzer is injected so tests can
// substitute a stub backend.
func New(analyzer Analyzer, gate *access.Gate, opts ...Option) *Controller {
	c := &Controller{
		analyzer: analyzer,
		gate:     gate,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "session")
	return c
}

// SetInput replaces the pending input text.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// State returns a snapshot of the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Paid:         c.gate.Paid(),
		InputText:    c.input,
		IsListening:  c.listening,
		IsSubmitting: c.submitting,
		Result:       c.result,
		ErrorMessage: c.errMsg,
	}
}

// Submit runs one analysis for the pending input. The call is synchronous;
// a second Submit while one is in flight is rejected without side effects
// (single-flight, no queueing, no cancellation). Failures never corrupt
// state: the prior result is cleared up front, so a failed resubmission
// leaves an error and no stale result.
func (c *Controller) Submit(ctx context.Context) error {
	if !c.gate.Paid() {
		return ErrPaymentRequired
	}

	c.mu.Lock()
	query := strings.TrimSpace(c.input)
	if query == "" {
		c.mu.Unlock()
		return ErrEmptyQuery
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.submitting = true
	c.result = nil
	c.errMsg = ""
	c.mu.Unlock()

	report, err := c.analyzer.Analyze(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		if services.IsConfiguration(err) {
			c.logger.Error("analysis blocked by configuration", logging.Error(err))
		} else {
			c.logger.Warn("analysis failed", logging.String("query", query), logging.Error(err))
		}
		c.errMsg = AnalysisFailureMessage
		return nil
	}

	c.result = report
	c.input = ""
	c.logger.Info("analysis complete",
		logging.String("title", report.Title),
		logging.String("suggested_age", report.Ratings.SuggestedAge))

	if c.recorder != nil {
		if _, recErr := c.recorder.Record(ctx, query, report); recErr != nil {
			c.logger.Warn("history record failed", logging.Error(recErr))
		}
	}
	return nil
}

// ToggleVoice starts voice capture, or stops it when already listening.
// Absence of the capability surfaces as a voice-unavailable notice, never a
// crash. Transcripts replace the input text; nothing auto-submits.
func (c *Controller) ToggleVoice(ctx context.Context) error {
	if !c.gate.Paid() {
		return ErrPaymentRequired
	}

	c.mu.Lock()
	if c.listening {
		capture := c.capture
		c.mu.Unlock()
		return capture.Stop()
	}
	if c.capture == nil {
		c.mu.Unlock()
		return services.Wrap(services.ErrVoiceUnavailable, "session", "voice", VoiceUnavailableNotice, nil)
	}
	capture := c.capture
	c.mu.Unlock()

	return capture.Start(ctx, voice.Events{
		Started: func() {
			c.mu.Lock()
			c.listening = true
			c.mu.Unlock()
		},
		Ended: func() {
			c.mu.Lock()
			c.listening = false
			c.mu.Unlock()
		},
		Result: func(transcript string) {
			c.mu.Lock()
			c.input = transcript
			c.mu.Unlock()
		},
	})
}

// HandlePaymentReturn inspects entry parameters for the payment success
// indicator. When present, access is granted and persisted and the caller
// must strip the indicator from the visible entry point; the return value
// reports whether stripping is needed. A stripped entry is a no-op.
func (c *Controller) HandlePaymentReturn(values url.Values) (bool, error) {
	if values.Get("success") != "true" {
		return false, nil
	}
	if err := c.gate.Grant(); err != nil {
		return true, err
	}
	c.logger.Info("payment confirmed, access granted")
	return true, nil
}
