// Package directions resolves road routes for the planner.
package directions

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"github.com/kilianp07/evswap/core/planner"
)

// GoogleProvider resolves driving routes with the Google Directions API.
type GoogleProvider struct {
	client  *maps.Client
	timeout time.Duration
}

// NewGoogleProvider builds a provider. baseURL is only set in tests.
func NewGoogleProvider(apiKey, baseURL string, timeout time.Duration) (*GoogleProvider, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleProvider{client: client, timeout: timeout}, nil
}

// Route returns the overview polyline of the first driving route together
// with the summed leg distance and duration.
func (g *GoogleProvider) Route(ctx context.Context, origin, destination string) (planner.Route, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	}
	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		return planner.Route{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || routes[0].OverviewPolyline.Points == "" {
		return planner.Route{}, fmt.Errorf("no route found from %q to %q", origin, destination)
	}
	out := planner.Route{EncodedPath: routes[0].OverviewPolyline.Points}
	for _, leg := range routes[0].Legs {
		out.DistanceM += float64(leg.Distance.Meters)
		out.Duration += leg.Duration
	}
	return out, nil
}
