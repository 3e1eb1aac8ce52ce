// Package modelhost downloads the image-model file pair from its
// hosting URL.
package modelhost

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/krishivikas/assistant/internal/domain/classifier"
)

// Source fetches model.json and metadata.json from a primary base URL,
// falling back to a mirror when the primary is unreachable.
type Source struct {
	baseURL     string
	fallbackURL string
	http        *http.Client
	log         *slog.Logger
}

func NewSource(baseURL, fallbackURL string, timeout time.Duration, log *slog.Logger) *Source {
	return &Source{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		fallbackURL: strings.TrimSuffix(fallbackURL, "/"),
		http:        &http.Client{Timeout: timeout},
		log:         log,
	}
}

func (s *Source) Fetch(ctx context.Context) (classifier.ModelFiles, error) {
	files, err := s.fetchFrom(ctx, s.baseURL)
	if err == nil {
		return files, nil
	}
	if s.fallbackURL == "" || s.fallbackURL == s.baseURL {
		return classifier.ModelFiles{}, err
	}
	s.log.Warn("primary model host failed, trying fallback", "error", err)
	return s.fetchFrom(ctx, s.fallbackURL)
}

func (s *Source) fetchFrom(ctx context.Context, base string) (classifier.ModelFiles, error) {
	topology, err := s.get(ctx, base+"/model.json")
	if err != nil {
		return classifier.ModelFiles{}, err
	}
	metadata, err := s.get(ctx, base+"/metadata.json")
	if err != nil {
		return classifier.ModelFiles{}, err
	}
	return classifier.ModelFiles{Topology: topology, Metadata: metadata}, nil
}

func (s *Source) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(io.LimitReader(resp.Body, 64<<20))
}

var _ classifier.Source = (*Source)(nil)
