package aml

import (
	"context"
	"time"

	"teranga/pkg/platform/sentinel"
)

// BuildSnapshot precomputes normalized forms for a list. The returned
// snapshot is immutable; refresh builds a new one and swaps it wholesale.
func BuildSnapshot(version string, loadedAt time.Time, entries []ListEntry) *Snapshot {
	prepared := make([]screenEntry, 0, len(entries))
	for _, e := range entries {
		normalized := NormalizeName(e.Name)
		if normalized == "" {
			continue
		}
		prepared = append(prepared, screenEntry{
			ListEntry:  e,
			normalized: normalized,
			tokenSort:  TokenSort(normalized),
		})
	}
	return &Snapshot{Version: version, LoadedAt: loadedAt, entries: prepared}
}

// ListClient fetches the current sanctions/PEP list from the
// compliance-data service.
type ListClient interface {
	Fetch(ctx context.Context) (version string, entries []ListEntry, err error)
}

// StaticListClient serves a fixed list. Used in tests and local
// development.
type StaticListClient struct {
	Version string
	Entries []ListEntry
	Fail    bool
}

func (c StaticListClient) Fetch(_ context.Context) (string, []ListEntry, error) {
	if c.Fail {
		return "", nil, sentinel.ErrUnavailable
	}
	return c.Version, c.Entries, nil
}
