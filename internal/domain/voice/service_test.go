package voice

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRecorder struct {
	data     []byte
	startErr error
	stops    int
}

func (r *stubRecorder) Start(ctx context.Context) error { return r.startErr }

func (r *stubRecorder) Stop(ctx context.Context) ([]byte, string, error) {
	r.stops++
	return r.data, "audio/wav", nil
}

func TestCaptureLifecycle(t *testing.T) {
	svc := NewService(&stubRecorder{data: []byte("clip")}, slog.Default())
	ctx := context.Background()

	require.Equal(t, StateIdle, svc.State())
	require.NoError(t, svc.Start(ctx))
	require.Equal(t, StateRecording, svc.State())

	require.Error(t, svc.Start(ctx), "double start is rejected")

	require.NoError(t, svc.Stop(ctx))
	require.Equal(t, StateCaptured, svc.State())

	content, mime, ok := svc.Payload()
	require.True(t, ok)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("clip")), content)
	require.Equal(t, "audio/wav", mime)
}

func TestStopWithoutStart(t *testing.T) {
	svc := NewService(&stubRecorder{}, slog.Default())
	require.Error(t, svc.Stop(context.Background()))
}

func TestEmptyRecordingRejected(t *testing.T) {
	svc := NewService(&stubRecorder{}, slog.Default())
	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))
	require.Error(t, svc.Stop(ctx))
	require.Equal(t, StateIdle, svc.State())
}

func TestResetReleasesClip(t *testing.T) {
	rec := &stubRecorder{data: []byte("clip")}
	svc := NewService(rec, slog.Default())
	ctx := context.Background()

	require.NoError(t, svc.Start(ctx))
	require.NoError(t, svc.Stop(ctx))
	svc.Reset(ctx)

	require.Equal(t, StateIdle, svc.State())
	_, _, ok := svc.Payload()
	require.False(t, ok)
}

func TestResetWhileRecordingStopsRecorder(t *testing.T) {
	rec := &stubRecorder{data: []byte("clip")}
	svc := NewService(rec, slog.Default())

	require.NoError(t, svc.Start(context.Background()))
	svc.Reset(context.Background())

	require.Equal(t, 1, rec.stops)
	require.Equal(t, StateIdle, svc.State())
}

func TestFileRecorder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFFdata"), 0o644))

	rec := NewFileRecorder(path)
	svc := NewService(rec, slog.Default())
	ctx := context.Background()

	require.NoError(t, svc.Start(ctx))
	require.NoError(t, svc.Stop(ctx))

	content, mime, ok := svc.Payload()
	require.True(t, ok)
	require.Equal(t, "audio/wav", mime)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("RIFFdata")), content)
}

func TestFileRecorderMissingFile(t *testing.T) {
	rec := NewFileRecorder(filepath.Join(t.TempDir(), "absent.wav"))
	svc := NewService(rec, slog.Default())
	require.Error(t, svc.Start(context.Background()))
}
