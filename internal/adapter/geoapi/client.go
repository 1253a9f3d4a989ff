package geoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/couchcryptid/water-restriction-etl/internal/observability"
)

// Client implements domain.Geocoder using the French national address API
// (api-adresse.data.gouv.fr).
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a reverse geocoding client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode returns the commune containing the coordinates. An empty
// result with a nil error means the API knows no address there, which is the
// case for coordinates outside France.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', 6, 64)},
		"limit": {"1"},
	}
	fullURL := c.baseURL + "/reverse/?" + params.Encode()

	start := time.Now()
	result, err := c.doRequest(ctx, fullURL)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, err
	case result.CityCode == "":
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Warn("no address found for coordinates, they may be outside France",
			"lat", lat,
			"lon", lon,
		)
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("address API error: status %d: %s", resp.StatusCode, body)
	}

	var addrResp response
	if err := json.NewDecoder(resp.Body).Decode(&addrResp); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(addrResp.Features) == 0 {
		return domain.GeocodingResult{}, nil
	}

	f := addrResp.Features[0]
	result := domain.GeocodingResult{
		CityCode: f.Properties.CityCode,
		City:     f.Properties.City,
		Score:    f.Properties.Score,
	}
	if len(f.Geometry.Coordinates) == 2 {
		result.Lon = f.Geometry.Coordinates[0]
		result.Lat = f.Geometry.Coordinates[1]
	}
	return result, nil
}

// Address API response types (GeoJSON FeatureCollection).

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   geometry   `json:"geometry"`
	Properties properties `json:"properties"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

type properties struct {
	Label    string  `json:"label"`
	CityCode string  `json:"citycode"`
	City     string  `json:"city"`
	Score    float64 `json:"score"`
}
