// Package directory talks to the upstream health directory that serves
// on-duty pharmacies and nearby hospitals.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/config"
	"github.com/saglikasistani/backend/pkg/model"
)

// Directory is the lookup surface the pharmacy service depends on.
type Directory interface {
	DutyPharmacies(ctx context.Context, city, district string) ([]model.Pharmacy, error)
	NearbyHospitals(ctx context.Context, latitude, longitude float64) ([]model.Hospital, error)
}

// Client calls the upstream REST directory.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg config.PharmacyConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ Directory = (*Client)(nil)

type pharmacyEnvelope struct {
	Success bool `json:"success"`
	Result  []struct {
		Name     string `json:"name"`
		District string `json:"dist"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Location string `json:"loc"` // "lat,lng"
	} `json:"result"`
}

// DutyPharmacies returns the on-duty pharmacies for a city, optionally
// narrowed to a district.
func (c *Client) DutyPharmacies(ctx context.Context, city, district string) ([]model.Pharmacy, error) {
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	query := url.Values{"il": {city}}
	if district != "" {
		query.Set("ilce", district)
	}

	var envelope pharmacyEnvelope
	if err := c.get(ctx, "/dutyPharmacy", query, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("directory lookup failed for %s", city)
	}

	pharmacies := make([]model.Pharmacy, 0, len(envelope.Result))
	for _, entry := range envelope.Result {
		pharmacy := model.Pharmacy{
			Name:     entry.Name,
			Address:  entry.Address,
			Phone:    entry.Phone,
			City:     city,
			District: entry.District,
		}
		pharmacy.Latitude, pharmacy.Longitude = parseLocation(entry.Location)
		pharmacies = append(pharmacies, pharmacy)
	}

	c.logger.Info("Duty pharmacies fetched",
		zap.String("city", city),
		zap.Int("count", len(pharmacies)))
	return pharmacies, nil
}

type hospitalEnvelope struct {
	Success bool             `json:"success"`
	Result  []model.Hospital `json:"result"`
}

// NearbyHospitals returns hospitals close to the given coordinates,
// nearest first.
func (c *Client) NearbyHospitals(ctx context.Context, latitude, longitude float64) ([]model.Hospital, error) {
	query := url.Values{
		"lat": {strconv.FormatFloat(latitude, 'f', 6, 64)},
		"lng": {strconv.FormatFloat(longitude, 'f', 6, 64)},
	}

	var envelope hospitalEnvelope
	if err := c.get(ctx, "/hospital", query, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("hospital lookup failed")
	}

	return envelope.Result, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "apikey "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode directory response: %w", err)
	}
	return nil
}

// parseLocation splits the upstream "lat,lng" pair. Malformed values
// read as zero coordinates rather than an error.
func parseLocation(loc string) (float64, float64) {
	parts := strings.SplitN(loc, ",", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return lat, lng
}
