package aml

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPListClient fetches the consolidated sanctions/PEP list from the
// compliance-data service.
type HTTPListClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPListClient(baseURL string) *HTTPListClient {
	return &HTTPListClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type listDocument struct {
	Version string `json:"version"`
	Entries []struct {
		Name     string `json:"name"`
		List     string `json:"list"`
		Country  string `json:"country"`
		EntryRef string `json:"entry_ref"`
	} `json:"entries"`
}

func (c *HTTPListClient) Fetch(ctx context.Context) (string, []ListEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("build sanctions list request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch sanctions list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("sanctions list feed returned %d", resp.StatusCode)
	}

	var doc listDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", nil, fmt.Errorf("decode sanctions list: %w", err)
	}
	if doc.Version == "" || len(doc.Entries) == 0 {
		return "", nil, fmt.Errorf("sanctions list feed returned an empty document")
	}

	entries := make([]ListEntry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		entries = append(entries, ListEntry{
			Name:     e.Name,
			List:     e.List,
			Country:  e.Country,
			EntryRef: e.EntryRef,
		})
	}
	return doc.Version, entries, nil
}
