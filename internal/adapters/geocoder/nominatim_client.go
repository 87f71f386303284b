package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

type Config struct {
	BaseURL   string
	UserAgent string
	// Email передается Nominatim для связи при превышении лимитов
	Email         string
	Timeout       time.Duration
	RatePerSecond float64
}

// NominatimClient - клиент поиска адресов OpenStreetMap Nominatim
type NominatimClient struct {
	baseURL    string
	userAgent  string
	email      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ port.GeocoderPort = (*NominatimClient)(nil)

func NewNominatimClient(cfg Config) (*NominatimClient, error) {
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, fmt.Errorf("geocoder: user agent is required by Nominatim usage policy")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}

	return &NominatimClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		email:      cfg.Email,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
	}, nil
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
}

func (c *NominatimClient) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "NominatimClient",
		"method":    "Geocode",
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoder: rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	if c.email != "" {
		q.Set("email", c.email)
	}
	reqURL := c.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geocoder: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	clientLogger.Debug("Sending request to Nominatim", port.Fields{"address": address})
	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientLogger.Error("Failed to perform request to Nominatim", err, nil)
		return nil, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("geocoder: nominatim returned status %d: %s", resp.StatusCode, string(body))
		clientLogger.Error("Received error response from Nominatim", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocoder: failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, domain.ErrGeocodeNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: bad longitude %q: %w", results[0].Lon, err)
	}

	return &domain.GeocodeResult{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: results[0].DisplayName,
		PostalCode:  results[0].Address.Postcode,
	}, nil
}
