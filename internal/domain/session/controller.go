package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/krishivikas/assistant/internal/domain/analysis"
	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

// Mode is one of the assistant's feature tabs.
type Mode string

const (
	ModeDisease    Mode = "disease"
	ModeSchemes    Mode = "schemes"
	ModeConsultant Mode = "consultant"
	ModeAdvisory   Mode = "advisory"
	ModeMap        Mode = "map"
	ModeFieldScan  Mode = "fieldscan"
	ModeVoice      Mode = "voice"
)

// Phase is the lifecycle of the active mode's request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

const defaultLoadingText = "Processing your request..."

// diseaseThoughts stream in while a disease analysis is in flight, one
// every ThoughtStep.
var diseaseThoughts = []string{
	"🤔 Analyzing your crop image...",
	"🎯 Identifying potential issues...",
	"🔬 Calling disease detection specialist...",
	"✅ Analysis complete! Preparing response...",
}

// Controller owns the mode/phase state machine. One request may be in
// flight at a time; switching modes or resetting cancels it and bumps
// the epoch so its completion is dropped instead of rendered.
type Controller struct {
	log  *slog.Logger
	step time.Duration

	mu          sync.Mutex
	mode        Mode
	phase       Phase
	epoch       uint64
	cancel      context.CancelFunc
	loadingText string
	thoughts    []string
	result      analysis.Result
	errText     string
	title       string
	sessionID   string
}

func NewController(step time.Duration, log *slog.Logger) *Controller {
	if step <= 0 {
		step = 2 * time.Second
	}
	return &Controller{log: log, step: step, mode: ModeDisease}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Phase returns the current request phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot returns everything a view needs to render the active mode.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	thoughts := make([]string, len(c.thoughts))
	copy(thoughts, c.thoughts)
	return View{
		Mode:        c.mode,
		Phase:       c.phase,
		LoadingText: c.loadingText,
		Thoughts:    thoughts,
		Title:       c.title,
		Result:      c.result,
		Error:       c.errText,
		SessionID:   c.sessionID,
	}
}

// View is an immutable render snapshot.
type View struct {
	Mode        Mode
	Phase       Phase
	LoadingText string
	Thoughts    []string
	Title       string
	Result      analysis.Result
	Error       string
	SessionID   string
}

// SwitchMode activates a tab, cancelling any in-flight request and
// clearing results and errors.
func (c *Controller) SwitchMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	c.resetLocked()
}

// Reset returns the active mode to idle, cancelling any in-flight
// request.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.epoch++
	c.phase = PhaseIdle
	c.loadingText = ""
	c.thoughts = nil
	c.result = analysis.Result{}
	c.errText = ""
	c.title = ""
	c.sessionID = ""
}

// Begin moves to the loading phase and hands out the context and epoch
// for the request about to run. loadingText defaults when empty; title
// is shown over the eventual result.
func (c *Controller) Begin(parent context.Context, title, loadingText string) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.epoch++
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.phase = PhaseLoading
	c.title = title
	if loadingText == "" {
		loadingText = defaultLoadingText
	}
	c.loadingText = loadingText
	c.thoughts = nil
	if c.mode == ModeDisease {
		c.thoughts = []string{diseaseThoughts[0]}
	}
	c.result = analysis.Result{}
	c.errText = ""
	return ctx, c.epoch
}

// ThoughtStep is the delay between streamed thoughts.
func (c *Controller) ThoughtStep() time.Duration {
	return c.step
}

// AdvanceThought appends the next thought line. It reports whether a
// further tick should be scheduled; stale epochs and non-loading phases
// do nothing.
func (c *Controller) AdvanceThought(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || c.phase != PhaseLoading || len(c.thoughts) == 0 {
		return false
	}
	if len(c.thoughts) >= len(diseaseThoughts) {
		return false
	}
	c.thoughts = append(c.thoughts, diseaseThoughts[len(c.thoughts)])
	return len(c.thoughts) < len(diseaseThoughts)
}

// Complete records the outcome of a request. Stale completions (epoch
// mismatch after a mode switch or reset) are dropped and reported as
// such.
func (c *Controller) Complete(epoch uint64, res analysis.Result, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.log.Debug("dropping stale completion", "epoch", epoch, "current", c.epoch)
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.thoughts = nil
	c.loadingText = ""
	if err != nil {
		c.phase = PhaseError
		c.errText = apperrors.UserMessage(err)
		return true
	}
	c.phase = PhaseSuccess
	c.result = res
	c.sessionID = res.SessionID
	return true
}

// Retry clears an error back to idle so the form can be resubmitted.
func (c *Controller) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseError {
		return
	}
	c.phase = PhaseIdle
	c.errText = ""
}
