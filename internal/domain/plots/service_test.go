package plots

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubDashboard struct {
	raw json.RawMessage
	err error
}

func (s *stubDashboard) Dashboard(ctx context.Context, userID string) (json.RawMessage, error) {
	return s.raw, s.err
}

type stubSurroundings struct {
	features []Feature
	err      error
}

func (s *stubSurroundings) NearbyFeatures(ctx context.Context, lat, lon float64) ([]Feature, error) {
	return s.features, s.err
}

func TestFlattenNumbersPlotsAcrossDocuments(t *testing.T) {
	raw := json.RawMessage(`[
		{"plants": [
			{"cropType": "Mango", "latitude": 17.1, "longitude": 78.2, "fileName": "a.jpg"},
			{"cropType": "Mango", "latitude": 0, "longitude": 78.2}
		]},
		{"plants": [
			{"cropType": "Guava", "latitude": "17.2", "longitude": "78.3", "cloudinaryUrl": "https://img/x.jpg"}
		]},
		{"other": true}
	]`)

	plots, err := Flatten(raw)
	require.NoError(t, err)
	require.Len(t, plots, 2, "plants without coordinates are dropped")

	require.Equal(t, "Mango-1", plots[0].PlotID)
	require.Equal(t, "a.jpg", plots[0].FileName)

	require.Equal(t, "Guava-2", plots[1].PlotID, "numbering continues across documents")
	require.InDelta(t, 17.2, plots[1].Latitude, 1e-9, "string coordinates are parsed")
	require.Equal(t, "https://img/x.jpg", plots[1].ImageURL)
	require.Equal(t, "N/A", plots[1].FileName)
}

func TestFlattenRejectsMalformedDocument(t *testing.T) {
	_, err := Flatten(json.RawMessage(`{"plants": []}`))
	require.Error(t, err, "dashboard must be an array of documents")
}

func TestPlotsPassesThroughBackendError(t *testing.T) {
	svc := NewService(&stubDashboard{err: errors.New("down")}, &stubSurroundings{}, slog.Default())
	_, err := svc.Plots(context.Background(), "u")
	require.Error(t, err)
}

func TestCenterDefaultsWithoutPlots(t *testing.T) {
	svc := NewService(&stubDashboard{}, &stubSurroundings{}, slog.Default())

	lat, lon := svc.Center(nil)
	require.InDelta(t, 17.7231, lat, 1e-4)
	require.InDelta(t, 78.4480, lon, 1e-4)

	lat, lon = svc.Center([]Plot{{Latitude: 10, Longitude: 20}})
	require.InDelta(t, 10.0, lat, 1e-9)
	require.InDelta(t, 20.0, lon, 1e-9)
}

func TestNearest(t *testing.T) {
	svc := NewService(&stubDashboard{}, &stubSurroundings{}, slog.Default())
	list := []Plot{
		{PlotID: "Mango-1", Latitude: 17.10, Longitude: 78.20},
		{PlotID: "Mango-2", Latitude: 17.13, Longitude: 78.21},
	}

	p, dist := svc.Nearest(list, 17.131, 78.211)
	require.Equal(t, "Mango-2", p.PlotID)
	require.Less(t, dist, 200.0)

	p, _ = svc.Nearest(nil, 0, 0)
	require.Nil(t, p)
}

func TestSurroundingsSortsByDistance(t *testing.T) {
	svc := NewService(&stubDashboard{}, &stubSurroundings{features: []Feature{
		{Name: "far well", Latitude: 17.20, Longitude: 78.20},
		{Name: "near pond", Latitude: 17.101, Longitude: 78.201},
	}}, slog.Default())

	got := svc.Surroundings(context.Background(), 17.10, 78.20)
	require.Len(t, got, 2)
	require.Equal(t, "near pond", got[0].Name)
	require.Greater(t, got[1].DistanceMeters, got[0].DistanceMeters)
}

func TestSurroundingsDegradesWhenOSMDown(t *testing.T) {
	svc := NewService(&stubDashboard{}, &stubSurroundings{err: errors.New("timeout")}, slog.Default())
	require.Nil(t, svc.Surroundings(context.Background(), 17.1, 78.2))
}

func TestHaversineKnownDistance(t *testing.T) {
	// Hyderabad to Warangal is roughly 137 km.
	d := Haversine(17.3850, 78.4867, 17.9689, 79.5941)
	require.InDelta(t, 137000, d, 5000)
}
