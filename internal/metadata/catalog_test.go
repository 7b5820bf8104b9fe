package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(fake *fakeOpenLibrary) *Catalog {
	return NewCatalog(fake.client(), NewAuthorCache(), DefaultLimits(), nil)
}

func TestSearchTitleScope(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/search.json", map[string]any{
		"docs": []any{
			map[string]any{
				"key":                "/works/W1",
				"title":              "Dune",
				"author_name":        []string{"Frank Herbert"},
				"first_publish_year": 1965,
				"cover_i":            123,
				"editions": map[string]any{
					"docs": []any{
						map[string]any{"title": "First ed", "publish_date": "1966", "covers": []int{456}},
					},
				},
			},
			map[string]any{"title": "Missing key"},
		},
	})

	results, err := newTestCatalog(fake).Search(context.Background(), "dune", ScopeTitle)
	require.NoError(t, err)

	assert.Equal(t, []BookPreview{
		{
			WorkID:       "W1",
			Title:        "Dune",
			Authors:      []string{"Frank Herbert"},
			EditionTitle: strPtr("First ed"),
			PublishYear:  intPtr(1965),
			PublishDate:  strPtr("1966"),
			CoverURL:     strPtr("https://covers.openlibrary.org/b/id/123-M.jpg"),
		},
	}, results)

	query := fake.lastRequest("/search.json").URL.Query()
	assert.Equal(t, "dune", query.Get("q"))
	assert.Empty(t, query.Get("author"))
	assert.Equal(t, "10", query.Get("limit"))
	assert.Equal(t, searchFields, query.Get("fields"))
}

func TestSearchAuthorScopeAndLimit(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/search.json", map[string]any{"docs": []any{}})

	limits := DefaultLimits()
	limits.SearchResults = 25
	catalog := NewCatalog(fake.client(), nil, limits, nil)

	results, err := catalog.Search(context.Background(), "Herbert", ScopeAuthor)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	query := fake.lastRequest("/search.json").URL.Query()
	assert.Equal(t, "Herbert", query.Get("author"))
	assert.Empty(t, query.Get("q"))
	assert.Equal(t, "25", query.Get("limit"))
}

func TestSearchDropsDocsWithoutKey(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/search.json", map[string]any{
		"docs": []any{
			map[string]any{"key": "", "title": "Empty key"},
			map[string]any{"title": "No key"},
			map[string]any{"key": "/works/", "title": "Prefix only"},
			map[string]any{"key": "/works/OL2W"},
			map[string]any{"key": "//OL3W", "author_name": []string{"A", "B", "C", "D"}},
		},
	})

	results, err := newTestCatalog(fake).Search(context.Background(), "x", ScopeTitle)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.False(t, strings.HasPrefix(r.WorkID, "/"))
		assert.NotContains(t, r.WorkID, "/works/")
	}

	assert.Equal(t, "OL2W", results[0].WorkID)
	assert.Equal(t, UnknownTitle, results[0].Title)
	assert.Equal(t, []string{}, results[0].Authors)
	assert.Nil(t, results[0].PublishYear)
	assert.Nil(t, results[0].CoverURL)
	assert.Nil(t, results[0].EditionTitle)

	assert.Equal(t, "OL3W", results[1].WorkID)
	assert.Equal(t, []string{"A", "B", "C"}, results[1].Authors)
}

func TestSearchFailureIsAllOrNothing(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.status("/search.json", http.StatusServiceUnavailable)

	results, err := newTestCatalog(fake).Search(context.Background(), "dune", ScopeTitle)
	assert.Nil(t, results)

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusServiceUnavailable, remote.Status)
}

func TestSummarize(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/works/W1.json", map[string]any{
		"key":                "/works/W1",
		"title":              "Dune",
		"first_publish_date": "1965",
		"authors":            []any{map[string]any{"author": map[string]any{"key": "/authors/A1"}}},
		"covers":             []int{321},
	})
	fake.json("/authors/A1.json", map[string]any{"name": "Frank Herbert"})
	fake.json("/works/W1/editions.json", map[string]any{
		"entries": []any{map[string]any{"title": "Hardcover", "publish_date": "1966", "covers": []int{654}}},
	})

	summary, err := newTestCatalog(fake).Summarize(context.Background(), "W1")
	require.NoError(t, err)

	assert.Equal(t, BookPreview{
		WorkID:       "W1",
		Title:        "Dune",
		Authors:      []string{"Frank Herbert"},
		EditionTitle: strPtr("Hardcover"),
		PublishYear:  intPtr(1965),
		PublishDate:  strPtr("1966"),
		CoverURL:     strPtr("https://covers.openlibrary.org/b/id/654-M.jpg"),
	}, summary)
	assert.Equal(t, "1", fake.lastRequest("/works/W1/editions.json").URL.Query().Get("limit"))
}

func TestSummarizeAuthorFailureDegrades(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/works/W1.json", map[string]any{
		"key":     "/works/W1",
		"title":   "Dune",
		"created": map[string]any{"type": "/type/datetime", "value": "2009-10-15T11:34:21.437031"},
		"authors": []any{map[string]any{"author": map[string]any{"key": "/authors/A1"}}},
		"covers":  []int{321},
	})
	fake.status("/authors/A1.json", http.StatusInternalServerError)
	fake.json("/works/W1/editions.json", map[string]any{
		"entries": []any{map[string]any{"title": "Paperback", "publish_date": "1990"}},
	})

	summary, err := newTestCatalog(fake).Summarize(context.Background(), "W1")
	require.NoError(t, err)

	assert.Equal(t, []string{}, summary.Authors)
	assert.Equal(t, "W1", summary.WorkID)
	assert.Equal(t, "Dune", summary.Title)
	assert.Equal(t, strPtr("Paperback"), summary.EditionTitle)
	assert.Equal(t, strPtr("1990"), summary.PublishDate)
	// created.value is used when first_publish_date is absent
	assert.Equal(t, intPtr(2009), summary.PublishYear)
	// the edition has no cover so the work cover is used
	assert.Equal(t, strPtr("https://covers.openlibrary.org/b/id/321-M.jpg"), summary.CoverURL)
}

func TestSummarizeSparseWork(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/works/W2.json", map[string]any{})
	fake.json("/works/W2/editions.json", map[string]any{})

	summary, err := newTestCatalog(fake).Summarize(context.Background(), "/works/W2")
	require.NoError(t, err)

	assert.Equal(t, BookPreview{WorkID: "W2", Title: UnknownTitle, Authors: []string{}}, summary)
}

func TestSummarizePropagatesWorkFailure(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.status("/works/W1.json", http.StatusBadGateway)

	_, err := newTestCatalog(fake).Summarize(context.Background(), "W1")
	require.Error(t, err)
	assert.Equal(t, 0, fake.hitCount("/works/W1/editions.json"))
}

func TestSummarizePropagatesEditionFailure(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/works/W1.json", map[string]any{"key": "/works/W1", "title": "Dune"})
	fake.status("/works/W1/editions.json", http.StatusInternalServerError)

	_, err := newTestCatalog(fake).Summarize(context.Background(), "W1")
	assert.Error(t, err)
}

func TestSummarizeReusesAuthorCache(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/works/W1.json", map[string]any{
		"key":     "/works/W1",
		"authors": []any{map[string]any{"author": map[string]any{"key": "/authors/A1"}}},
	})
	fake.json("/authors/A1.json", map[string]any{"name": "Frank Herbert"})
	fake.json("/works/W1/editions.json", map[string]any{"entries": []any{}})

	catalog := newTestCatalog(fake)
	for i := 0; i < 3; i++ {
		summary, err := catalog.Summarize(context.Background(), "W1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Frank Herbert"}, summary.Authors)
	}
	assert.Equal(t, 1, fake.hitCount("/authors/A1.json"))
}

func TestDetail(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/works/W9.json", map[string]any{
		"key":         "/works/W9",
		"title":       "Book",
		"description": map[string]any{"value": "A book"},
		"subjects":    []string{"s1", "s2", "s3"},
		"covers":      []int{101, 102},
		"authors":     []any{map[string]any{"author": map[string]any{"key": "/authors/A9"}}},
		"links": []any{
			map[string]any{"title": "Link", "url": "https://example.com"},
			map[string]any{"title": "Broken", "url": ""},
		},
	})
	fake.json("/authors/A9.json", map[string]any{"name": "Author"})
	fake.json("/works/W9/editions.json", map[string]any{
		"entries": []any{
			map[string]any{"key": "E1", "title": "Ed1", "publish_date": "2000", "covers": []int{201}},
			map[string]any{"key": "E2", "title": "Ed2", "publish_date": "2001", "covers": []int{202}},
		},
	})

	detail, err := newTestCatalog(fake).Detail(context.Background(), "W9")
	require.NoError(t, err)

	assert.Equal(t, "W9", detail.WorkID)
	assert.Equal(t, []string{"Author"}, detail.Authors)
	assert.Equal(t, strPtr("A book"), detail.Description)
	assert.Equal(t, []string{"s1", "s2", "s3"}, detail.Subjects)
	assert.Equal(t, []string{
		"https://covers.openlibrary.org/b/id/101-M.jpg",
		"https://covers.openlibrary.org/b/id/102-M.jpg",
	}, detail.CoverGallery)
	assert.Equal(t, []Link{{Title: "Link", URL: "https://example.com"}}, detail.Links)
	require.Len(t, detail.Editions, 2)
	assert.Equal(t, EditionSummary{
		Key:         "E1",
		Title:       "Ed1",
		PublishDate: strPtr("2000"),
		CoverURL:    strPtr("https://covers.openlibrary.org/b/id/201-M.jpg"),
	}, detail.Editions[0])
	// detail previews take the cover from the work, the edition title from the first edition
	assert.Equal(t, strPtr("https://covers.openlibrary.org/b/id/101-M.jpg"), detail.CoverURL)
	assert.Equal(t, strPtr("Ed1"), detail.EditionTitle)
	assert.Equal(t, "5", fake.lastRequest("/works/W9/editions.json").URL.Query().Get("limit"))
}

func TestDetailCapsCollections(t *testing.T) {
	subjects := make([]string, 20)
	for i := range subjects {
		subjects[i] = fmt.Sprintf("subject-%02d", i)
	}
	entries := make([]any, 8)
	for i := range entries {
		entries[i] = map[string]any{}
	}

	fake := newFakeOpenLibrary(t)
	fake.json("/works/W9.json", map[string]any{
		"key":         "/works/W9",
		"description": "Plain text",
		"subjects":    subjects,
		"covers":      []int{101, -1, 0, 102, 103, 104, 105, 106},
		"links":       []any{map[string]any{"url": "https://example.org"}},
	})
	fake.json("/works/W9/editions.json", map[string]any{"entries": entries})

	detail, err := newTestCatalog(fake).Detail(context.Background(), "W9")
	require.NoError(t, err)

	assert.Equal(t, subjects[:12], detail.Subjects)
	assert.Equal(t, []string{
		"https://covers.openlibrary.org/b/id/101-M.jpg",
		"https://covers.openlibrary.org/b/id/102-M.jpg",
		"https://covers.openlibrary.org/b/id/103-M.jpg",
		"https://covers.openlibrary.org/b/id/104-M.jpg",
	}, detail.CoverGallery)
	assert.Equal(t, strPtr("Plain text"), detail.Description)
	assert.Equal(t, []Link{{Title: DefaultLinkTitle, URL: "https://example.org"}}, detail.Links)
	require.Len(t, detail.Editions, 5)
	assert.Equal(t, EditionSummary{Key: "", Title: DefaultEdition}, detail.Editions[0])
	assert.Equal(t, []string{}, detail.Authors)
}

func TestDetailEmptyWork(t *testing.T) {
	fake := newFakeOpenLibrary(t)
	fake.json("/works/W3.json", map[string]any{"description": 7})
	fake.json("/works/W3/editions.json", map[string]any{})

	detail, err := newTestCatalog(fake).Detail(context.Background(), "W3")
	require.NoError(t, err)

	assert.Equal(t, "W3", detail.WorkID)
	assert.Nil(t, detail.Description)
	assert.Equal(t, []string{}, detail.Subjects)
	assert.Equal(t, []string{}, detail.CoverGallery)
	assert.Equal(t, []Link{}, detail.Links)
	assert.Equal(t, []EditionSummary{}, detail.Editions)
}

func TestDetailNotFound(t *testing.T) {
	fake := newFakeOpenLibrary(t)

	_, err := newTestCatalog(fake).Detail(context.Background(), "MISSING")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
