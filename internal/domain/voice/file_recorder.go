package voice

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

// FileRecorder "records" by ingesting a pre-recorded audio file, for
// environments without microphone access: record on the phone, drop the
// file, submit from here.
type FileRecorder struct {
	path string
}

func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

// SetPath points the recorder at a different clip.
func (r *FileRecorder) SetPath(path string) {
	r.path = path
}

func (r *FileRecorder) Start(ctx context.Context) error {
	if r.path == "" {
		return apperrors.Wrap(apperrors.CodeAudio, "no audio file selected", nil)
	}
	if _, err := os.Stat(r.path); err != nil {
		return apperrors.Wrap(apperrors.CodeAudio, "audio file not readable", err)
	}
	return nil
}

func (r *FileRecorder) Stop(ctx context.Context) ([]byte, string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeAudio, "read audio file", err)
	}
	return data, mimeForExt(filepath.Ext(r.path)), nil
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}

var _ Recorder = (*FileRecorder)(nil)
