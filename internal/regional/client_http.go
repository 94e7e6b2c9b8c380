package regional

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"teranga/pkg/domain"
)

// HTTPClient fetches indicators from the regional open-data portal.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type indicatorDocument struct {
	Indicators []struct {
		Indicator  string  `json:"indicator"`
		Value      float64 `json:"value"`
		Year       int     `json:"year"`
		Source     string  `json:"source"`
		Confidence float64 `json:"confidence"`
	} `json:"indicators"`
}

func (c *HTTPClient) Fetch(ctx context.Context, country domain.CountryCode, year int) ([]Indicator, error) {
	u := fmt.Sprintf("%s?country=%s&year=%d", c.baseURL, url.QueryEscape(country.String()), year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build indicator request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch indicators: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indicator feed returned %d for %s/%d", resp.StatusCode, country, year)
	}

	var doc indicatorDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode indicators: %w", err)
	}

	indicators := make([]Indicator, 0, len(doc.Indicators))
	for _, ind := range doc.Indicators {
		indicators = append(indicators, Indicator{
			Country:    country,
			Indicator:  ind.Indicator,
			Value:      ind.Value,
			Year:       ind.Year,
			Source:     ind.Source,
			Confidence: ind.Confidence,
		})
	}
	return indicators, nil
}
