package metadata

import (
	"context"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/bookinsights/internal/logger"
)

const searchFields = "key,title,author_name,first_publish_year,cover_i,editions,editions.key,editions.title,editions.publish_date"

// Catalog aggregates OpenLibrary records into previews and details
type Catalog struct {
	fetcher  Fetcher
	authors  *AuthorResolver
	editions *EditionResolver
	limits   Limits
	log      *logger.Logger
}

// NewCatalog creates a catalog over fetcher. The author cache is shared by
// every call made through this catalog.
func NewCatalog(fetcher Fetcher, cache *AuthorCache, limits Limits, log *logger.Logger) *Catalog {
	limits = limits.withDefaults()
	return &Catalog{
		fetcher:  fetcher,
		authors:  NewAuthorResolver(fetcher, cache, limits.Authors, log),
		editions: NewEditionResolver(fetcher),
		limits:   limits,
		log:      log,
	}
}

// Search queries the catalog by title or author. A failed request fails the whole search.
func (c *Catalog) Search(ctx context.Context, query string, scope Scope) ([]BookPreview, error) {
	params := url.Values{}
	params.Set("fields", searchFields)
	params.Set("limit", strconv.Itoa(c.limits.SearchResults))
	if scope == ScopeAuthor {
		params.Set("author", query)
	} else {
		params.Set("q", query)
	}

	var data olSearchResponse
	if err := c.fetcher.FetchJSON(ctx, "/search.json", params, &data); err != nil {
		return nil, err
	}

	previews := make([]BookPreview, 0, len(data.Docs))
	for i := range data.Docs {
		if preview, ok := c.previewFromDoc(&data.Docs[i]); ok {
			previews = append(previews, preview)
		}
	}
	c.log.Debug("catalog search", "scope", string(scope), "docs", len(data.Docs), "previews", len(previews))
	return previews, nil
}

// Summarize builds the preview stored alongside a library entry
func (c *Catalog) Summarize(ctx context.Context, workID string) (BookPreview, error) {
	work, authors, editions, err := c.gather(ctx, workID, 1)
	if err != nil {
		return BookPreview{}, err
	}

	var first *olEdition
	coverID := firstInt(work.Covers)
	if len(editions) > 0 {
		first = &editions[0]
		if id := firstInt(first.Covers); id != 0 {
			coverID = id
		}
	}
	return c.preview(work, workID, authors, first, coverID), nil
}

// Detail builds the full single-book view
func (c *Catalog) Detail(ctx context.Context, workID string) (BookDetail, error) {
	work, authors, editions, err := c.gather(ctx, workID, c.limits.DetailEditions)
	if err != nil {
		return BookDetail{}, err
	}
	if len(editions) > c.limits.DetailEditions {
		editions = editions[:c.limits.DetailEditions]
	}

	var first *olEdition
	if len(editions) > 0 {
		first = &editions[0]
	}

	detail := BookDetail{
		BookPreview:  c.preview(work, workID, authors, first, firstInt(work.Covers)),
		Description:  optional(string(work.Description)),
		Subjects:     headStrings(work.Subjects, c.limits.Subjects),
		CoverGallery: c.gallery(work.Covers),
		Links:        links(work.Links),
		Editions:     make([]EditionSummary, 0, len(editions)),
	}
	for _, e := range editions {
		detail.Editions = append(detail.Editions, editionSummary(e))
	}
	return detail, nil
}

// gather fetches the work, then its authors and editions side by side
func (c *Catalog) gather(ctx context.Context, workID string, editionLimit int) (*olWork, []string, []olEdition, error) {
	var work olWork
	if err := c.fetcher.FetchJSON(ctx, WorkPath(workID)+".json", nil, &work); err != nil {
		return nil, nil, nil, err
	}

	var (
		authors  []string
		editions []olEdition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		authors = c.authors.Resolve(gctx, authorKeys(work.Authors))
		return nil
	})
	g.Go(func() error {
		var err error
		editions, err = c.editions.Fetch(gctx, workID, editionLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return &work, authors, editions, nil
}

func (c *Catalog) preview(work *olWork, workID string, authors []string, edition *olEdition, coverID int) BookPreview {
	p := BookPreview{
		WorkID:   resolveWorkID(work.Key, workID),
		Title:    titleOr(work.Title, UnknownTitle),
		Authors:  authors,
		CoverURL: CoverURL(coverID),
	}
	if p.Authors == nil {
		p.Authors = []string{}
	}

	date := work.FirstPublishDate
	if date == "" {
		date = string(work.Created)
	}
	p.PublishYear = ExtractYear(date)

	if edition != nil {
		p.EditionTitle = optional(edition.Title)
		p.PublishDate = optional(edition.PublishDate)
	}
	return p
}

func (c *Catalog) previewFromDoc(doc *olSearchDoc) (BookPreview, bool) {
	workID := NormalizeWorkID(doc.Key)
	if workID == "" {
		return BookPreview{}, false
	}

	p := BookPreview{
		WorkID:   workID,
		Title:    titleOr(doc.Title, UnknownTitle),
		Authors:  headStrings(doc.AuthorName, c.limits.Authors),
		CoverURL: CoverURL(doc.CoverI),
	}
	if doc.FirstPublishYear > 0 {
		year := doc.FirstPublishYear
		p.PublishYear = &year
	}
	if len(doc.Editions.Docs) > 0 {
		edition := doc.Editions.Docs[0]
		p.EditionTitle = optional(edition.Title)
		p.PublishDate = optional(string(edition.PublishDate))
	}
	return p, true
}

func (c *Catalog) gallery(covers []int) []string {
	if len(covers) > c.limits.CoverGallery {
		covers = covers[:c.limits.CoverGallery]
	}
	urls := make([]string, 0, len(covers))
	for _, id := range covers {
		if u := CoverURL(id); u != nil {
			urls = append(urls, *u)
		}
	}
	return urls
}

func links(raw []olLink) []Link {
	out := make([]Link, 0, len(raw))
	for _, l := range raw {
		if l.URL == "" {
			continue
		}
		out = append(out, Link{Title: titleOr(l.Title, DefaultLinkTitle), URL: l.URL})
	}
	return out
}

func editionSummary(e olEdition) EditionSummary {
	return EditionSummary{
		Key:         e.Key,
		Title:       titleOr(e.Title, DefaultEdition),
		PublishDate: optional(e.PublishDate),
		CoverURL:    CoverURL(firstInt(e.Covers)),
	}
}

func authorKeys(roles []olAuthorRole) []string {
	keys := make([]string, len(roles))
	for i, role := range roles {
		keys[i] = role.Author.Key
	}
	return keys
}

// resolveWorkID prefers the key the catalog returned, then the id the caller asked for
func resolveWorkID(key, requested string) string {
	if id := NormalizeWorkID(key); id != "" {
		return id
	}
	if id := NormalizeWorkID(requested); id != "" {
		return id
	}
	return requested
}

func titleOr(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}
