package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krishivikas/assistant/internal/infra/config"
	"github.com/krishivikas/assistant/internal/interface/tui"
)

type stubHealth struct {
	err    error
	called chan struct{}
}

func (s *stubHealth) Health(ctx context.Context) error {
	close(s.called)
	return s.err
}

func newTestApp(h HealthChecker) *App {
	return NewApp(&config.Config{}, slog.Default(), tui.Model{}, h)
}

func TestProbeBackendRunsOnce(t *testing.T) {
	h := &stubHealth{called: make(chan struct{})}
	newTestApp(h).probeBackend(context.Background())

	select {
	case <-h.called:
	case <-time.After(time.Second):
		t.Fatal("health probe never ran")
	}
}

func TestProbeBackendFailureIsNotFatal(t *testing.T) {
	h := &stubHealth{err: errors.New("backend down"), called: make(chan struct{})}

	// A failing probe is logged and swallowed.
	require.NotPanics(t, func() {
		newTestApp(h).probeBackend(context.Background())
		<-h.called
	})
}

func TestProbeBackendWithoutChecker(t *testing.T) {
	require.NotPanics(t, func() {
		newTestApp(nil).probeBackend(context.Background())
	})
}
