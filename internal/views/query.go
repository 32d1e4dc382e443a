package views

import (
	"net/url"
	"strconv"
)

// pageSize is the server's fixed page length for paginated collections.
const pageSize = 10

// pageWindowWidth is how many page numbers the pagination bar shows.
const pageWindowWidth = 5

// CatalogQuery is the movie catalog filter state. It encodes to URL query
// parameters and decodes back losslessly, so a shared link restores the
// same catalog view.
type CatalogQuery struct {
	Search   string
	OttIDs   []int
	Ordering string
	Page     int
}

// Values encodes the query for the URL bar and the search endpoint.
// Defaults (empty search, no providers, no ordering, page 1) are omitted.
func (q CatalogQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for _, id := range q.OttIDs {
		v.Add("ott_services", strconv.Itoa(id))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// CatalogQueryFromValues decodes URL parameters back into a query.
// Unparseable numbers fall back to defaults rather than failing.
func CatalogQueryFromValues(v url.Values) CatalogQuery {
	q := CatalogQuery{Search: v.Get("search"), Ordering: v.Get("ordering"), Page: 1}
	for _, raw := range v["ott_services"] {
		if id, err := strconv.Atoi(raw); err == nil {
			q.OttIDs = append(q.OttIDs, id)
		}
	}
	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 1 {
		q.Page = page
	}
	return q
}

// CatalogOrderings are the catalog sort keys in menu order. The empty key
// means server default order.
var CatalogOrderings = []string{
	"",
	"-release_date",
	"release_date",
	"-average_rating_cache",
	"average_rating_cache",
	"-review_count",
	"title",
}

// HasOtt reports whether the provider id is selected.
func (q CatalogQuery) HasOtt(id int) bool {
	for _, sel := range q.OttIDs {
		if sel == id {
			return true
		}
	}
	return false
}

// BoardQuery is the board list filter state. The category slug doubles as
// the active tab; "hot" is a virtual tab served by a like-count ordering
// rather than a category filter.
type BoardQuery struct {
	Category   string
	Page       int
	SearchType string
	Search     string
}

// HotTab is the virtual most-liked tab slug.
const HotTab = "hot"

// Values encodes the query for the URL bar. Defaults are omitted.
func (q BoardQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
		if q.SearchType != "" {
			v.Set("search_type", q.SearchType)
		}
	}
	return v
}

// BoardQueryFromValues decodes URL parameters back into a query.
func BoardQueryFromValues(v url.Values) BoardQuery {
	q := BoardQuery{
		Category: v.Get("category"),
		Page:     1,
		Search:   v.Get("search"),
	}
	if q.Search != "" {
		q.SearchType = v.Get("search_type")
	}
	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 1 {
		q.Page = page
	}
	return q
}

// request builds the parameters sent to the posts endpoint. The hot tab
// becomes an ordering, every other tab a category filter.
func (q BoardQuery) request() url.Values {
	v := url.Values{}
	switch q.Category {
	case "":
	case HotTab:
		v.Set("ordering", "-like_count")
	default:
		v.Set("category", q.Category)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
		if q.SearchType != "" {
			v.Set("search_type", q.SearchType)
		}
	}
	return v
}

// TotalPages converts an item count into a page count, never below 1.
func TotalPages(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// PageWindow returns the page numbers the pagination bar shows: a window
// of up to five pages centered on current and clamped to the valid range.
func PageWindow(current, count int) []int {
	total := TotalPages(count)
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - pageWindowWidth/2
	if start < 1 {
		start = 1
	}
	end := start + pageWindowWidth - 1
	if end > total {
		end = total
		start = end - pageWindowWidth + 1
		if start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
