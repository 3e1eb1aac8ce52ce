// Package osm fetches landmarks around farm plots from the Overpass API.
package osm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/serjvanilla/go-overpass"

	"github.com/krishivikas/assistant/internal/domain/plots"
)

// Client queries Overpass for water sources and farmland near a point.
type Client struct {
	client *overpass.Client
	radius int
}

func NewClient(endpoint string, radiusMeters int, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &Client{
		client: &client,
		radius: radiusMeters,
	}
}

// NearbyFeatures lists water bodies, wells and farmland within the
// configured radius of a coordinate.
func (c *Client) NearbyFeatures(ctx context.Context, lat, lon float64) ([]plots.Feature, error) {
	around := fmt.Sprintf("around:%d,%f,%f", c.radius, lat, lon)
	query := fmt.Sprintf(`
		[out:json];
		(
			node["natural"="water"](%s);
			way["natural"="water"](%s);
			node["man_made"="water_well"](%s);
			way["landuse"="farmland"](%s);
			way["landuse"="orchard"](%s);
		);
		out body;
		>;
		out skel qt;
	`, around, around, around, around, around)

	result, err := c.executeQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute nearby features query: %w", err)
	}
	return convertFeatures(result), nil
}

// executeQuery runs a raw Overpass QL query. The overpass client has no
// context support; the HTTP client's timeout bounds the request.
func (c *Client) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	result, err := c.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}
	return &result, nil
}

func convertFeatures(result *overpass.Result) []plots.Feature {
	var features []plots.Feature

	for _, node := range result.Nodes {
		features = append(features, plots.Feature{
			ID:        node.ID,
			Kind:      kindOf(node.Tags),
			Name:      node.Tags["name"],
			Latitude:  node.Lat,
			Longitude: node.Lon,
		})
	}

	for _, way := range result.Ways {
		var lat, lon float64
		count := len(way.Nodes)
		if count == 0 {
			continue
		}
		for _, node := range way.Nodes {
			lat += node.Lat
			lon += node.Lon
		}
		features = append(features, plots.Feature{
			ID:        way.ID,
			Kind:      kindOf(way.Tags),
			Name:      way.Tags["name"],
			Latitude:  lat / float64(count),
			Longitude: lon / float64(count),
		})
	}
	return features
}

func kindOf(tags map[string]string) string {
	switch {
	case tags["man_made"] == "water_well":
		return "well"
	case tags["natural"] == "water":
		return "water"
	case tags["landuse"] == "farmland":
		return "farmland"
	case tags["landuse"] == "orchard":
		return "orchard"
	default:
		return "other"
	}
}

var _ plots.Surroundings = (*Client)(nil)
