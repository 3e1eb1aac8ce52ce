package plots

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Plot is one saved plant flattened out of the dashboard document.
type Plot struct {
	PlotID    string
	CropType  string
	Latitude  float64
	Longitude float64
	FileName  string
	ImageURL  string
}

// Feature is a map landmark near a plot, fetched from OpenStreetMap.
type Feature struct {
	ID             int64
	Kind           string
	Name           string
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
}

// Dashboard fetches the raw dashboard document.
type Dashboard interface {
	Dashboard(ctx context.Context, userID string) (json.RawMessage, error)
}

// Surroundings queries nearby map features.
type Surroundings interface {
	NearbyFeatures(ctx context.Context, lat, lon float64) ([]Feature, error)
}

// dashboardDoc mirrors one document in the dashboard array. Coordinates
// arrive as numbers or strings depending on how the plant was saved, so
// both are accepted.
type dashboardDoc struct {
	Plants []struct {
		CropType  string `json:"cropType"`
		Latitude  any    `json:"latitude"`
		Longitude any    `json:"longitude"`
		FileName  string `json:"fileName"`
		ImageURL  string `json:"cloudinaryUrl"`
	} `json:"plants"`
}

// Flatten pulls every located plant out of a dashboard document,
// numbering plot IDs across documents. Plants without coordinates are
// dropped.
func Flatten(raw json.RawMessage) ([]Plot, error) {
	var docs []dashboardDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}

	var out []Plot
	idx := 1
	for _, doc := range docs {
		for _, plant := range doc.Plants {
			lat, okLat := toFloat(plant.Latitude)
			lon, okLon := toFloat(plant.Longitude)
			if !okLat || !okLon {
				continue
			}
			fileName := plant.FileName
			if fileName == "" {
				fileName = "N/A"
			}
			out = append(out, Plot{
				PlotID:    fmt.Sprintf("%s-%d", plant.CropType, idx),
				CropType:  plant.CropType,
				Latitude:  lat,
				Longitude: lon,
				FileName:  fileName,
				ImageURL:  plant.ImageURL,
			})
			idx++
		}
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, n != 0
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil && f != 0
	default:
		return 0, false
	}
}
