package plots

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// Default map center when no plot has coordinates yet.
var defaultCenter = struct{ Lat, Lon float64 }{17.7231, 78.4480}

// Service backs the map view: saved plots from the dashboard plus
// nearby landmarks from OpenStreetMap.
type Service struct {
	dash Dashboard
	osm  Surroundings
	log  *slog.Logger
}

func NewService(dash Dashboard, osm Surroundings, log *slog.Logger) *Service {
	return &Service{dash: dash, osm: osm, log: log}
}

// Plots fetches and flattens the user's saved plots.
func (s *Service) Plots(ctx context.Context, userID string) ([]Plot, error) {
	raw, err := s.dash.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	plots, err := Flatten(raw)
	if err != nil {
		return nil, err
	}
	s.log.Debug("dashboard loaded", "plots", len(plots))
	return plots, nil
}

// Center picks the map center: the first plot if any, otherwise the
// default region.
func (s *Service) Center(list []Plot) (lat, lon float64) {
	if len(list) > 0 {
		return list[0].Latitude, list[0].Longitude
	}
	return defaultCenter.Lat, defaultCenter.Lon
}

// Nearest returns the plot closest to a coordinate and the distance in
// meters, or nil for an empty list.
func (s *Service) Nearest(list []Plot, lat, lon float64) (*Plot, float64) {
	if len(list) == 0 {
		return nil, 0
	}
	best := 0
	bestDist := Haversine(lat, lon, list[0].Latitude, list[0].Longitude)
	for i := 1; i < len(list); i++ {
		if d := Haversine(lat, lon, list[i].Latitude, list[i].Longitude); d < bestDist {
			best, bestDist = i, d
		}
	}
	return &list[best], bestDist
}

// Surroundings lists nearby map features sorted by distance from the
// given point. OSM being unreachable degrades to an empty list; the map
// still renders the plots.
func (s *Service) Surroundings(ctx context.Context, lat, lon float64) []Feature {
	features, err := s.osm.NearbyFeatures(ctx, lat, lon)
	if err != nil {
		s.log.Warn("nearby features unavailable", "error", err)
		return nil
	}
	for i := range features {
		features[i].DistanceMeters = Haversine(lat, lon, features[i].Latitude, features[i].Longitude)
	}
	sort.Slice(features, func(i, j int) bool {
		return features[i].DistanceMeters < features[j].DistanceMeters
	})
	return features
}

const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance between two coordinates
// in meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180
	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
