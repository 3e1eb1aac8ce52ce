package classifier

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

// Source fetches the model file pair from wherever it is hosted.
type Source interface {
	Fetch(ctx context.Context) (ModelFiles, error)
}

// Runtime runs inference. Implementations own the loaded model state.
type Runtime interface {
	Load(ctx context.Context, files ModelFiles) error
	Classify(ctx context.Context, image []byte) ([]Prediction, error)
}

// Config tunes label handling. Categories maps a positive model label to
// the crop category it stands for; anything below Cutoff, or any label
// outside the map, falls back to DefaultCategory. Complements lists the
// negated counterparts of the positive labels, shown right after them.
type Config struct {
	Categories      map[string]string
	Complements     []string
	DefaultCategory string
	Cutoff          float64
	TopN            int
}

// Service wraps a Runtime with lazy one-time model loading and the label
// post-processing the rest of the app depends on.
type Service struct {
	src Source
	rt  Runtime
	cfg Config
	log *slog.Logger

	mu     sync.Mutex
	loaded bool
}

func NewService(src Source, rt Runtime, cfg Config, log *slog.Logger) *Service {
	return &Service{src: src, rt: rt, cfg: cfg, log: log}
}

// ensureLoaded fetches and loads the model exactly once. Concurrent
// callers block until the first load finishes; a failed load is retried
// on the next call.
func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	files, err := s.src.Fetch(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeModel, "fetch model", err)
	}
	if err := s.rt.Load(ctx, files); err != nil {
		return apperrors.Wrap(apperrors.CodeModel, "load model", err)
	}
	s.loaded = true
	s.log.Info("image model loaded")
	return nil
}

// Classify runs the model on one image and returns the ordered top
// predictions.
func (s *Service) Classify(ctx context.Context, image []byte) ([]Prediction, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	preds, err := s.rt.Classify(ctx, image)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeModel, "classify image", err)
	}
	return s.Top(preds), nil
}

// Top sorts predictions into display order and truncates to the
// configured count. Positive labels (those in the category map) come
// first, then their complements, then everything else, each group by
// probability descending. Sorting an already sorted slice changes
// nothing.
func (s *Service) Top(preds []Prediction) []Prediction {
	out := make([]Prediction, len(preds))
	copy(out, preds)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := s.rank(out[i].ClassName), s.rank(out[j].ClassName)
		if ri != rj {
			return ri < rj
		}
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].ClassName < out[j].ClassName
	})
	if s.cfg.TopN > 0 && len(out) > s.cfg.TopN {
		out = out[:s.cfg.TopN]
	}
	return out
}

func (s *Service) rank(label string) int {
	if _, ok := s.cfg.Categories[label]; ok {
		return 0
	}
	for _, c := range s.cfg.Complements {
		if label == c {
			return 1
		}
	}
	return 2
}

// CropCategory reduces a prediction list to a single crop category. A
// mapped label scoring above the cutoff wins; otherwise the default
// category is returned.
func (s *Service) CropCategory(preds []Prediction) string {
	for _, p := range preds {
		if cat, ok := s.cfg.Categories[p.ClassName]; ok && p.Probability > s.cfg.Cutoff {
			return cat
		}
	}
	return s.cfg.DefaultCategory
}
