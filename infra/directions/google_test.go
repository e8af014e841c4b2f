package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directionsOK = `{
  "status": "OK",
  "geocoded_waypoints": [],
  "routes": [{
    "summary": "D1",
    "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"},
    "legs": [
      {"distance": {"text": "1.2 km", "value": 1200}, "duration": {"text": "2 mins", "value": 120}},
      {"distance": {"text": "0.8 km", "value": 800}, "duration": {"text": "1 min", "value": 60}}
    ]
  }]
}`

func TestGoogleProvider_Route(t *testing.T) {
	var gotOrigin string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrigin = r.URL.Query().Get("origin")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(directionsOK))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider("test-key", srv.URL, time.Second)
	require.NoError(t, err)

	route, err := p.Route(context.Background(), "Prague", "Dresden")
	require.NoError(t, err)
	assert.Equal(t, "Prague", gotOrigin)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", route.EncodedPath)
	assert.Equal(t, 2000.0, route.DistanceM)
	assert.Equal(t, 3*time.Minute, route.Duration)
}

func TestGoogleProvider_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","routes":[]}`))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider("test-key", srv.URL, time.Second)
	require.NoError(t, err)
	_, err = p.Route(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, ProviderNone, c.Provider)
	assert.NoError(t, c.Validate())

	p, err := New(c, nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	c.Provider = ProviderGoogle
	assert.Error(t, c.Validate())
	c.APIKey = "k"
	assert.NoError(t, c.Validate())

	c.Provider = "osrm"
	assert.Error(t, c.Validate())
}
