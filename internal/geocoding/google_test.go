package geocoding

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Pacific Grove", r.URL.Query().Get("address"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"status": "OK",
			"results": [{
				"formatted_address": "Pacific Grove, CA 93950, USA",
				"geometry": {"location": {"lat": 36.6177, "lng": -121.9166}}
			}]
		}`)
	}))
	defer server.Close()

	g, err := NewGoogleProvider("test-key", server.URL)
	require.NoError(t, err)

	loc, err := g.Geocode(context.Background(), "Pacific Grove")
	require.NoError(t, err)
	assert.Equal(t, "Pacific Grove, CA 93950, USA", loc.Name)
	assert.InDelta(t, 36.6177, loc.Latitude, 1e-9)
	assert.InDelta(t, -121.9166, loc.Longitude, 1e-9)
}

func TestGoogleProvider_RequestDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid.", "results": []}`)
	}))
	defer server.Close()

	g, err := NewGoogleProvider("bad-key", server.URL)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "Pacific Grove")
	assert.Error(t, err)
}

func TestNewGoogleProvider_RequiresKey(t *testing.T) {
	_, err := NewGoogleProvider("", "")
	assert.Error(t, err)
}
