package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"googlemaps.github.io/maps"
)

var mapsClient *maps.Client

func GetMapsClient() (*maps.Client, error) {
	if mapsClient != nil {
		return mapsClient, nil
	}
	cli, err := maps.NewClient(maps.WithAPIKey(os.Getenv("GAPI_API_KEY")))
	if err != nil {
		return nil, err
	}
	mapsClient = cli
	return cli, nil
}

// NewMapsClient Replace maps instance with custom client implementation
func NewMapsClient(c *maps.Client) *maps.Client {
	mapsClient = c
	return mapsClient
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeocodeLocation resolves a free-text location name to the first matching
// coordinate pair. Results are cached for a week; venues do not move often.
// A lookup failure returns nil, nil so callers can store the event without
// coordinates.
func GeocodeLocation(ctx context.Context, query string) (*GeoPoint, error) {
	if query == "" {
		return nil, nil
	}
	cacheKey := fmt.Sprintf("geocode:%s", query)
	var cached GeoPoint
	if ok, err := KVGet(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}
	cli, err := GetMapsClient()
	if err != nil {
		log.Printf("[maps] Error initializing client: %s\n", err.Error())
		return nil, err
	}
	results, err := cli.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		log.Printf("[maps] Error geocoding %q: %s\n", query, err.Error())
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	point := GeoPoint{
		Lat: results[0].Geometry.Location.Lat,
		Lng: results[0].Geometry.Location.Lng,
	}
	if err := KVSet(ctx, cacheKey, &point, 7*24*time.Hour); err != nil {
		log.Printf("[maps] Error caching geocode result: %s\n", err.Error())
	}
	return &point, nil
}
