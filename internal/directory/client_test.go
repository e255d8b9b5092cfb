package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.PharmacyConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, zap.NewNop())
}

func TestDutyPharmacies_ParsesUpstreamResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dutyPharmacy", r.URL.Path)
		assert.Equal(t, "Istanbul", r.URL.Query().Get("il"))
		assert.Equal(t, "Kadikoy", r.URL.Query().Get("ilce"))
		assert.Equal(t, "apikey test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": []map[string]string{
				{
					"name":    "Moda Eczanesi",
					"dist":    "Kadikoy",
					"address": "Moda Cad. 12",
					"phone":   "+90 216 000 00 00",
					"loc":     "40.987,29.025",
				},
			},
		})
	})

	pharmacies, err := client.DutyPharmacies(context.Background(), "Istanbul", "Kadikoy")
	require.NoError(t, err)
	require.Len(t, pharmacies, 1)

	assert.Equal(t, "Moda Eczanesi", pharmacies[0].Name)
	assert.Equal(t, "Istanbul", pharmacies[0].City)
	assert.Equal(t, "Kadikoy", pharmacies[0].District)
	assert.InDelta(t, 40.987, pharmacies[0].Latitude, 1e-6)
	assert.InDelta(t, 29.025, pharmacies[0].Longitude, 1e-6)
}

func TestDutyPharmacies_RequiresCity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.DutyPharmacies(context.Background(), "", "")
	assert.Error(t, err)
}

func TestDutyPharmacies_UpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.DutyPharmacies(context.Background(), "Ankara", "")
	assert.ErrorContains(t, err, "status 502")
}

func TestNearbyHospitals_ParsesResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hospital", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": []map[string]any{
				{"name": "Sehir Hastanesi", "latitude": 39.9, "longitude": 32.8, "distance_km": 1.4},
			},
		})
	})

	hospitals, err := client.NearbyHospitals(context.Background(), 39.91, 32.85)
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "Sehir Hastanesi", hospitals[0].Name)
	assert.InDelta(t, 1.4, hospitals[0].Distance, 1e-9)
}

func TestParseLocation(t *testing.T) {
	lat, lng := parseLocation("41.0082, 28.9784")
	assert.InDelta(t, 41.0082, lat, 1e-6)
	assert.InDelta(t, 28.9784, lng, 1e-6)

	lat, lng = parseLocation("garbage")
	assert.Zero(t, lat)
	assert.Zero(t, lng)
}
