package views

import (
	"context"
	"strings"
	"sync"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
)

// CatalogView drives the movie browsing screen: a submit-applied search
// box, a multi-select provider filter, and a paginated result list.
//
// The search input is staged separately from the applied query so typing
// never triggers a fetch; Submit applies it and resets to page one.
type CatalogView struct {
	movies MovieAPI

	mu      sync.Mutex
	seq     sequence
	query   CatalogQuery
	input   string
	catalog []models.OttService
	page    *services.Page[models.Movie]
}

// NewCatalogView creates a catalog view with an empty query.
func NewCatalogView(movies MovieAPI) *CatalogView {
	return &CatalogView{movies: movies, query: CatalogQuery{Page: 1}}
}

// Restore replaces the applied query, e.g. from a decoded URL.
func (v *CatalogView) Restore(q CatalogQuery) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if q.Page < 1 {
		q.Page = 1
	}
	v.query = q
	v.input = q.Search
}

// Init fetches the provider catalog. Called once before the first Load.
func (v *CatalogView) Init(ctx context.Context) error {
	catalog, err := v.movies.OttCatalog(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.catalog = catalog
	v.mu.Unlock()
	return nil
}

// Load fetches the movie list for the applied query. A result that loses
// the race to a newer request is dropped and reported as ErrStaleResponse.
func (v *CatalogView) Load(ctx context.Context) error {
	v.mu.Lock()
	token := v.seq.begin()
	params := v.query.Values()
	v.mu.Unlock()

	page, err := v.movies.Search(ctx, params)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seq.current(token) {
		return ErrStaleResponse
	}
	v.page = page
	return nil
}

// SetInput stages search text without applying it.
func (v *CatalogView) SetInput(text string) {
	v.mu.Lock()
	v.input = text
	v.mu.Unlock()
}

// Input returns the staged search text.
func (v *CatalogView) Input() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input
}

// Submit applies the staged search text and reloads from page one.
func (v *CatalogView) Submit(ctx context.Context) error {
	v.mu.Lock()
	v.query.Search = strings.TrimSpace(v.input)
	v.query.Page = 1
	v.mu.Unlock()
	return v.Load(ctx)
}

// ToggleOtt flips one provider in the multi-select filter and reloads
// from page one.
func (v *CatalogView) ToggleOtt(ctx context.Context, id int) error {
	v.mu.Lock()
	if v.query.HasOtt(id) {
		kept := v.query.OttIDs[:0]
		for _, sel := range v.query.OttIDs {
			if sel != id {
				kept = append(kept, sel)
			}
		}
		v.query.OttIDs = kept
	} else {
		v.query.OttIDs = append(v.query.OttIDs, id)
	}
	v.query.Page = 1
	v.mu.Unlock()
	return v.Load(ctx)
}

// SetOrdering applies a sort key and reloads from page one. An empty key
// restores server default order.
func (v *CatalogView) SetOrdering(ctx context.Context, ordering string) error {
	v.mu.Lock()
	v.query.Ordering = ordering
	v.query.Page = 1
	v.mu.Unlock()
	return v.Load(ctx)
}

// CycleOrdering advances to the next sort key in menu order and reloads
// from page one.
func (v *CatalogView) CycleOrdering(ctx context.Context) error {
	v.mu.Lock()
	next := CatalogOrderings[0]
	for i, key := range CatalogOrderings {
		if key == v.query.Ordering {
			next = CatalogOrderings[(i+1)%len(CatalogOrderings)]
			break
		}
	}
	v.query.Ordering = next
	v.query.Page = 1
	v.mu.Unlock()
	return v.Load(ctx)
}

// SetPage jumps to the given page and reloads.
func (v *CatalogView) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	v.query.Page = page
	v.mu.Unlock()
	return v.Load(ctx)
}

// Query returns the applied query.
func (v *CatalogView) Query() CatalogQuery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Movies returns the current result page, which may be nil before the
// first successful Load.
func (v *CatalogView) Movies() *services.Page[models.Movie] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// OttCatalog returns the provider catalog.
func (v *CatalogView) OttCatalog() []models.OttService {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.catalog
}

// ResolveOtt maps a movie's provider ids onto catalog entries with the
// overflow badge rule applied.
func (v *CatalogView) ResolveOtt(movie models.Movie) models.OttResolution {
	v.mu.Lock()
	defer v.mu.Unlock()
	return models.ResolveOtt(movie.OttServiceIDs, v.catalog)
}

// PageNumbers returns the pagination window for the current results.
func (v *CatalogView) PageNumbers() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page == nil {
		return []int{1}
	}
	return PageWindow(v.query.Page, v.page.Count)
}
