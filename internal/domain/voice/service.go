// Package voice captures audio notes and prepares them for analysis.
package voice

import (
	"context"
	"encoding/base64"
	"log/slog"
	"sync"

	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

// Recorder captures one audio clip per Start/Stop cycle.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (data []byte, mimeType string, err error)
}

// State is the capture lifecycle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateCaptured
)

// Service drives a Recorder and holds the captured clip until it is
// either submitted or discarded.
type Service struct {
	rec Recorder
	log *slog.Logger

	mu    sync.Mutex
	state State
	data  []byte
	mime  string
}

func NewService(rec Recorder, log *slog.Logger) *Service {
	return &Service{rec: rec, log: log}
}

// State returns the capture lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins a capture. Starting while recording or while a clip is
// held is an error; Reset first.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return apperrors.Wrap(apperrors.CodeAudio, "recording already in progress", nil)
	}
	if err := s.rec.Start(ctx); err != nil {
		return apperrors.Wrap(apperrors.CodeAudio, "start recording", err)
	}
	s.state = StateRecording
	return nil
}

// Stop ends the capture and keeps the clip for submission.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return apperrors.Wrap(apperrors.CodeAudio, "no recording in progress", nil)
	}
	data, mime, err := s.rec.Stop(ctx)
	if err != nil {
		s.state = StateIdle
		return apperrors.Wrap(apperrors.CodeAudio, "stop recording", err)
	}
	if len(data) == 0 {
		s.state = StateIdle
		return apperrors.Wrap(apperrors.CodeAudio, "recording was empty", nil)
	}
	s.state = StateCaptured
	s.data = data
	s.mime = mime
	s.log.Debug("audio captured", "bytes", len(data), "mime", mime)
	return nil
}

// Reset discards any held clip and returns to idle. Safe in any state;
// an in-flight recording is stopped and dropped.
func (s *Service) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRecording {
		if _, _, err := s.rec.Stop(ctx); err != nil {
			s.log.Warn("stop on reset failed", "error", err)
		}
	}
	s.state = StateIdle
	s.data = nil
	s.mime = ""
}

// Payload returns the held clip base64-encoded for the analyze request,
// with its mime type. ok is false when nothing is captured.
func (s *Service) Payload() (content, mimeType string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCaptured {
		return "", "", false
	}
	return base64.StdEncoding.EncodeToString(s.data), s.mime, true
}
