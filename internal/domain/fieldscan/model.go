package fieldscan

import (
	"context"
	"time"

	"github.com/krishivikas/assistant/internal/domain/classifier"
)

// Geo is a decimal-degree coordinate pair read from photo metadata.
type Geo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Photo is one raw image handed to the batch pipeline.
type Photo struct {
	Name string
	Data []byte
}

// Item is one classified photo held in the session gallery. Data keeps
// the raw photo bytes until the item is saved, so the upload step never
// has to find them again.
type Item struct {
	ID          string
	FileName    string
	Data        []byte
	Predictions []classifier.Prediction
	Crop        string
	Location    *Geo
	CapturedAt  time.Time
	AssetKey    string
	AssetURL    string
	Saved       bool
	Note        string
}

// TreeRecord is a classified, geotagged tree persisted server-side.
type TreeRecord struct {
	UserID      string                  `json:"userId"`
	TreeID      string                  `json:"tree_id"`
	Crop        string                  `json:"crop"`
	Latitude    float64                 `json:"latitude"`
	Longitude   float64                 `json:"longitude"`
	ImageURL    string                  `json:"image_url,omitempty"`
	Predictions []classifier.Prediction `json:"predictions,omitempty"`
	Timestamp   string                  `json:"timestamp"`
}

// ProximityQuery asks whether a tree already exists near a location.
type ProximityQuery struct {
	UserID    string  `json:"userId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProximityResult reports the nearest previously saved tree, if any.
type ProximityResult struct {
	Duplicate      bool    `json:"duplicate"`
	NearestTreeID  string  `json:"nearest_tree_id"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Duplicate resolution actions. "First" is the already saved tree,
// "second" the new photo.
const (
	DecisionSaveBoth   = "save_both"
	DecisionKeepFirst  = "keep_first_remove_second"
	DecisionKeepSecond = "remove_first_keep_second"
)

// DecisionRequest records how the user resolved a duplicate pair.
type DecisionRequest struct {
	UserID   string `json:"userId"`
	Action   string `json:"action"`
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

// DuplicatePair is a new photo that landed too close to a saved tree and
// is waiting for the user's decision.
type DuplicatePair struct {
	Item           *Item
	ExistingTreeID string
	DistanceMeters float64
}

// StoredAsset describes an uploaded object.
type StoredAsset struct {
	Key  string
	URL  string
	Size int64
}

// AssetStore uploads photo assets.
type AssetStore interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredAsset, error)
	Delete(ctx context.Context, key string) error
}

// Backend is the slice of the gateway the pipeline needs.
type Backend interface {
	CheckProximity(ctx context.Context, q ProximityQuery) (ProximityResult, error)
	SaveTree(ctx context.Context, rec TreeRecord) error
	SaveDecision(ctx context.Context, d DecisionRequest) error
}

// Classifier is the slice of the image model the pipeline needs.
type Classifier interface {
	Classify(ctx context.Context, image []byte) ([]classifier.Prediction, error)
	CropCategory(preds []classifier.Prediction) string
}
