package metadata

import "strings"

// Fallback values applied when OpenLibrary leaves a field empty
const (
	UnknownTitle     = "Unknown book"
	DefaultLinkTitle = "Lien"
	DefaultEdition   = "Edition"
)

// Scope selects which search parameter carries the query
type Scope string

const (
	ScopeTitle  Scope = "title"
	ScopeAuthor Scope = "author"
)

// ParseScope maps a raw query value to a Scope. Anything but "author" is a title search.
func ParseScope(s string) Scope {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeAuthor)) {
		return ScopeAuthor
	}
	return ScopeTitle
}

// BookPreview is the compact representation used in search results and library listings
type BookPreview struct {
	WorkID       string   `json:"workId"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	EditionTitle *string  `json:"editionTitle"`
	PublishYear  *int     `json:"publishYear"`
	PublishDate  *string  `json:"publishDate"`
	CoverURL     *string  `json:"coverUrl"`
}

// Link is an external link attached to a work
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// EditionSummary is a single edition as shown on the detail view
type EditionSummary struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	PublishDate *string `json:"publishDate"`
	CoverURL    *string `json:"coverUrl"`
}

// BookDetail is the expanded representation used on a single-book view
type BookDetail struct {
	BookPreview
	Description  *string          `json:"description"`
	Subjects     []string         `json:"subjects"`
	CoverGallery []string         `json:"coverGallery"`
	Links        []Link           `json:"links"`
	Editions     []EditionSummary `json:"editions"`
}

// Limits caps how much of each remote collection ends up in a response
type Limits struct {
	Authors        int
	Subjects       int
	CoverGallery   int
	DetailEditions int
	SearchResults  int
}

// DefaultLimits returns the caps used by the book service
func DefaultLimits() Limits {
	return Limits{
		Authors:        3,
		Subjects:       12,
		CoverGallery:   6,
		DetailEditions: 5,
		SearchResults:  10,
	}
}

// withDefaults fills zero or negative fields from DefaultLimits
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.Authors <= 0 {
		l.Authors = d.Authors
	}
	if l.Subjects <= 0 {
		l.Subjects = d.Subjects
	}
	if l.CoverGallery <= 0 {
		l.CoverGallery = d.CoverGallery
	}
	if l.DetailEditions <= 0 {
		l.DetailEditions = d.DetailEditions
	}
	if l.SearchResults <= 0 {
		l.SearchResults = d.SearchResults
	}
	return l
}
