// Package inference runs image classification against a local model
// server speaking the TF Serving predict protocol.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/krishivikas/assistant/internal/domain/classifier"
)

// HTTPRuntime submits images to a predict endpoint and maps the score
// vector onto the labels from the model metadata.
type HTTPRuntime struct {
	predictURL string
	http       *http.Client
	log        *slog.Logger

	mu     sync.RWMutex
	labels []string
}

func NewHTTPRuntime(predictURL string, timeout time.Duration, log *slog.Logger) *HTTPRuntime {
	return &HTTPRuntime{
		predictURL: predictURL,
		http:       &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Load reads the label list out of the model metadata. The topology file
// stays with the model server; only the labels matter on this side.
func (r *HTTPRuntime) Load(ctx context.Context, files classifier.ModelFiles) error {
	var meta classifier.Metadata
	if err := json.Unmarshal(files.Metadata, &meta); err != nil {
		return fmt.Errorf("parse model metadata: %w", err)
	}
	if len(meta.Labels) == 0 {
		return fmt.Errorf("model metadata carries no labels")
	}
	r.mu.Lock()
	r.labels = meta.Labels
	r.mu.Unlock()
	r.log.Debug("model labels loaded", "count", len(meta.Labels))
	return nil
}

type predictRequest struct {
	Instances []predictInstance `json:"instances"`
}

type predictInstance struct {
	ImageBytes string `json:"image_bytes"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

// Classify scores one image and pairs the result with the loaded labels.
func (r *HTTPRuntime) Classify(ctx context.Context, image []byte) ([]classifier.Prediction, error) {
	r.mu.RLock()
	labels := r.labels
	r.mu.RUnlock()
	if len(labels) == 0 {
		return nil, fmt.Errorf("model not loaded")
	}

	body, err := json.Marshal(predictRequest{
		Instances: []predictInstance{{ImageBytes: base64.StdEncoding.EncodeToString(image)}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.predictURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read predict response: %w", err)
	}
	var decoded predictResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if resp.StatusCode >= 300 || decoded.Error != "" {
		msg := decoded.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("predict failed: %s", msg)
	}
	if len(decoded.Predictions) == 0 {
		return nil, fmt.Errorf("predict returned no scores")
	}

	scores := decoded.Predictions[0]
	if len(scores) != len(labels) {
		return nil, fmt.Errorf("score count %d does not match %d labels", len(scores), len(labels))
	}
	out := make([]classifier.Prediction, len(labels))
	for i, label := range labels {
		out[i] = classifier.Prediction{ClassName: label, Probability: scores[i]}
	}
	return out, nil
}

var _ classifier.Runtime = (*HTTPRuntime)(nil)
