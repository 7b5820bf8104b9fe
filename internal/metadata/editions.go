package metadata

import (
	"context"
	"net/url"
	"strconv"
)

// EditionResolver fetches the editions of a work
type EditionResolver struct {
	fetcher Fetcher
}

// NewEditionResolver creates an edition resolver
func NewEditionResolver(fetcher Fetcher) *EditionResolver {
	return &EditionResolver{fetcher: fetcher}
}

// Fetch returns up to limit raw edition records for a work
func (r *EditionResolver) Fetch(ctx context.Context, workID string, limit int) ([]olEdition, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var data olEditionsResponse
	if err := r.fetcher.FetchJSON(ctx, WorkPath(workID)+"/editions.json", params, &data); err != nil {
		return nil, err
	}
	if data.Entries == nil {
		return []olEdition{}, nil
	}
	return data.Entries, nil
}
