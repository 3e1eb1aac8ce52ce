package fieldscan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

// Config bounds the batch pipeline.
type Config struct {
	MaxParallel   int
	MaxImageBytes int64
	ResizeWidth   int
	JPEGQuality   int
}

// Service runs the batch scan pipeline: classify photos in parallel,
// read their GPS tags, then upload and persist the ones the user keeps.
type Service struct {
	cls     Classifier
	store   AssetStore
	backend Backend
	locate  func(r io.Reader) *Geo
	cfg     Config
	log     *slog.Logger

	mu         sync.Mutex
	items      []*Item
	duplicates []*DuplicatePair
}

func NewService(cls Classifier, store AssetStore, backend Backend, locate func(io.Reader) *Geo, cfg Config, log *slog.Logger) *Service {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 4
	}
	return &Service{
		cls:     cls,
		store:   store,
		backend: backend,
		locate:  locate,
		cfg:     cfg,
		log:     log,
	}
}

// Ingest classifies a batch of photos with bounded parallelism and adds
// the results to the gallery. A photo that fails to classify is logged
// and skipped; it never sinks the batch.
func (s *Service) Ingest(ctx context.Context, photos []Photo) []*Item {
	slots := make([]*Item, len(photos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallel)
	for i, p := range photos {
		g.Go(func() error {
			item, err := s.ingestOne(ctx, p)
			if err != nil {
				s.log.Warn("photo skipped", "file", p.Name, "error", err)
				return nil
			}
			slots[i] = item
			return nil
		})
	}
	g.Wait()

	added := make([]*Item, 0, len(photos))
	for _, item := range slots {
		if item != nil {
			added = append(added, item)
		}
	}

	s.mu.Lock()
	s.items = append(s.items, added...)
	s.mu.Unlock()
	return added
}

func (s *Service) ingestOne(ctx context.Context, p Photo) (*Item, error) {
	if s.cfg.MaxImageBytes > 0 && int64(len(p.Data)) > s.cfg.MaxImageBytes {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput,
			fmt.Sprintf("image exceeds %d bytes", s.cfg.MaxImageBytes), nil)
	}
	preds, err := s.cls.Classify(ctx, p.Data)
	if err != nil {
		return nil, err
	}
	item := &Item{
		ID:          uuid.NewString(),
		FileName:    p.Name,
		Data:        p.Data,
		Predictions: preds,
		Crop:        s.cls.CropCategory(preds),
		CapturedAt:  time.Now().UTC(),
	}
	if s.locate != nil {
		item.Location = s.locate(bytes.NewReader(p.Data))
	}
	return item, nil
}

// Items returns the gallery in ingestion order.
func (s *Service) Items() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// Duplicates returns pairs still waiting for a decision.
func (s *Service) Duplicates() []*DuplicatePair {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*DuplicatePair, len(s.duplicates))
	copy(out, s.duplicates)
	return out
}

// Remove drops an item from the gallery and deletes its uploaded asset
// if one exists.
func (s *Service) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	var removed *Item
	for i, item := range s.items {
		if item.ID == id {
			removed = item
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	for i, d := range s.duplicates {
		if d.Item.ID == id {
			s.duplicates = append(s.duplicates[:i], s.duplicates[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if removed != nil && removed.AssetKey != "" && s.store != nil {
		if err := s.store.Delete(ctx, removed.AssetKey); err != nil {
			s.log.Warn("asset delete failed", "key", removed.AssetKey, "error", err)
		}
	}
}

// Clear empties the gallery and any pending duplicates.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.duplicates = nil
}

// SaveAll uploads and persists every unsaved geotagged item, with
// bounded parallelism. Items near an already saved tree become pending
// duplicates instead of being saved; items without GPS data are
// annotated and left unsaved. The returned count is the number of trees
// actually written.
func (s *Service) SaveAll(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	pending := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		if !item.Saved && item.Note == "" {
			pending = append(pending, item)
		}
	}
	s.mu.Unlock()

	var saved int
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallel)
	for _, item := range pending {
		g.Go(func() error {
			ok, err := s.saveOne(ctx, userID, item)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				saved++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return saved, err
	}
	return saved, nil
}

func (s *Service) saveOne(ctx context.Context, userID string, item *Item) (bool, error) {
	if item.Location == nil {
		s.setNote(item, "No GPS data in photo; not added to the map.")
		return false, nil
	}

	prox, err := s.backend.CheckProximity(ctx, ProximityQuery{
		UserID:    userID,
		Latitude:  item.Location.Latitude,
		Longitude: item.Location.Longitude,
	})
	if err != nil {
		return false, err
	}
	if prox.Duplicate {
		s.mu.Lock()
		s.duplicates = append(s.duplicates, &DuplicatePair{
			Item:           item,
			ExistingTreeID: prox.NearestTreeID,
			DistanceMeters: prox.DistanceMeters,
		})
		s.mu.Unlock()
		s.setNote(item, "A tree is already saved nearby; waiting for your decision.")
		return false, nil
	}

	return true, s.persist(ctx, userID, item)
}

// persist uploads the photo asset and writes the tree record.
func (s *Service) persist(ctx context.Context, userID string, item *Item) error {
	if len(item.Data) > 0 && s.store != nil {
		prepped, err := PrepareJPEG(item.Data, s.cfg.ResizeWidth, s.cfg.JPEGQuality)
		if err != nil {
			s.log.Warn("image prep failed, uploading original", "file", item.FileName, "error", err)
			prepped = item.Data
		}
		key := fmt.Sprintf("%s/%s.jpg", userID, item.ID)
		asset, err := s.store.Put(ctx, key, prepped, "image/jpeg")
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "upload photo", err)
		}
		s.mu.Lock()
		item.AssetKey = asset.Key
		item.AssetURL = asset.URL
		s.mu.Unlock()
	}

	err := s.backend.SaveTree(ctx, TreeRecord{
		UserID:      userID,
		TreeID:      item.ID,
		Crop:        item.Crop,
		Latitude:    item.Location.Latitude,
		Longitude:   item.Location.Longitude,
		ImageURL:    item.AssetURL,
		Predictions: item.Predictions,
		Timestamp:   item.CapturedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	item.Saved = true
	item.Note = ""
	item.Data = nil
	s.mu.Unlock()
	return nil
}

// Resolve applies the user's decision for a duplicate pair. Keeping the
// existing tree removes the new photo locally; the other two actions
// persist the new tree.
func (s *Service) Resolve(ctx context.Context, userID string, pair *DuplicatePair, action string) error {
	switch action {
	case DecisionSaveBoth, DecisionKeepFirst, DecisionKeepSecond:
	default:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown duplicate action", nil)
	}

	err := s.backend.SaveDecision(ctx, DecisionRequest{
		UserID:   userID,
		Action:   action,
		FirstID:  pair.ExistingTreeID,
		SecondID: pair.Item.ID,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i, d := range s.duplicates {
		if d == pair {
			s.duplicates = append(s.duplicates[:i], s.duplicates[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if action == DecisionKeepFirst {
		s.Remove(ctx, pair.Item.ID)
		return nil
	}
	pair.Item.Note = ""
	return s.persist(ctx, userID, pair.Item)
}

func (s *Service) setNote(item *Item, note string) {
	s.mu.Lock()
	item.Note = note
	s.mu.Unlock()
}
