package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	defaultBaseURL  = "https://places.googleapis.com/v1"
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.rating,places.googleMapsUri"
	photoMaxWidthPx = 1200
)

var _ Provider = (*GoogleClient)(nil)

// GoogleClient talks to the Google Places API (New).
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewGoogleClient(cfg config.PlacesConfig, logger *slog.Logger) *GoogleClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &GoogleClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, max(1, int(cfg.RequestsPerSecond))),
		logger:     logger,
	}
}

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
}

type googlePlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string   `json:"formattedAddress"`
	Rating           *float64 `json:"rating"`
	GoogleMapsURI    string   `json:"googleMapsUri"`
	Photos           []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

type searchTextResponse struct {
	Places []googlePlace `json:"places"`
}

type photoMediaResponse struct {
	PhotoURI string `json:"photoUri"`
}

// SearchPlace returns the best text-search match for query in destination.
func (c *GoogleClient) SearchPlace(ctx context.Context, query, destination string) (*types.PlaceMatch, error) {
	text := strings.TrimSpace(query + " " + destination)
	if text == "" {
		return nil, ErrNoMatch
	}

	var resp searchTextResponse
	err := c.do(ctx, http.MethodPost, "/places:searchText", searchFieldMask,
		searchTextRequest{TextQuery: text, MaxResultCount: 1}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Places) == 0 || resp.Places[0].ID == "" {
		return nil, ErrNoMatch
	}

	p := resp.Places[0]
	return &types.PlaceMatch{
		PlaceID: p.ID,
		Name:    p.DisplayName.Text,
		Address: p.FormattedAddress,
		Rating:  p.Rating,
		MapsURI: p.GoogleMapsURI,
	}, nil
}

// GetPhotos resolves up to limit photo URLs for placeID. The returned URLs
// are served by Google and carry no API key.
func (c *GoogleClient) GetPhotos(ctx context.Context, placeID string, limit int) ([]string, error) {
	if placeID == "" || limit <= 0 {
		return nil, nil
	}

	var place googlePlace
	if err := c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(placeID), "photos", nil, &place); err != nil {
		return nil, err
	}

	photos := make([]string, 0, min(limit, len(place.Photos)))
	for _, ph := range place.Photos {
		if len(photos) == limit {
			break
		}
		var media photoMediaResponse
		path := fmt.Sprintf("/%s/media?maxWidthPx=%d&skipHttpRedirect=true", ph.Name, photoMaxWidthPx)
		if err := c.do(ctx, http.MethodGet, path, "", nil, &media); err != nil {
			return nil, err
		}
		if media.PhotoURI != "" {
			photos = append(photos, media.PhotoURI)
		}
	}
	return photos, nil
}

func (c *GoogleClient) do(ctx context.Context, method, path, fieldMask string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("places rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode places request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNoMatch
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("places API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}
