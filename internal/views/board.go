package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
)

// railSize is how many same-category posts the detail rail shows.
const railSize = 5

// Tab is one entry of the board tab bar.
type Tab struct {
	Slug string
	Name string
}

// Tabs builds the tab bar: the virtual hot tab first, then the server's
// category catalog. A built-in sale tab is appended only when the catalog
// does not already carry one.
func Tabs(categories []models.BoardCategory) []Tab {
	tabs := []Tab{{Slug: HotTab, Name: "HOT"}}

	hasSale := false
	for _, cat := range categories {
		if cat.Slug == "sale" {
			hasSale = true
		}
		tabs = append(tabs, Tab{Slug: cat.Slug, Name: cat.Name})
	}
	if !hasSale {
		tabs = append(tabs, Tab{Slug: "sale", Name: "할인정보"})
	}
	return tabs
}

// BoardListView drives the board screen: a tab bar, a searchable post
// list, and a numbered pagination bar.
type BoardListView struct {
	board BoardAPI

	mu         sync.Mutex
	seq        sequence
	query      BoardQuery
	input      string
	searchType string
	categories []models.BoardCategory
	page       *services.Page[models.BoardPost]
}

// NewBoardListView creates a board list view on the hot tab.
func NewBoardListView(board BoardAPI) *BoardListView {
	return &BoardListView{
		board:      board,
		query:      BoardQuery{Category: HotTab, Page: 1},
		searchType: "title",
	}
}

// Restore replaces the applied query, e.g. from a decoded URL.
func (v *BoardListView) Restore(q BoardQuery) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if q.Category == "" {
		q.Category = HotTab
	}
	if q.Page < 1 {
		q.Page = 1
	}
	v.query = q
	v.input = q.Search
	if q.SearchType != "" {
		v.searchType = q.SearchType
	}
}

// Init fetches the category catalog for the tab bar.
func (v *BoardListView) Init(ctx context.Context) error {
	categories, err := v.board.Categories(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.categories = categories
	v.mu.Unlock()
	return nil
}

// Load fetches the post list for the applied query, dropping results
// superseded by a newer request.
func (v *BoardListView) Load(ctx context.Context) error {
	v.mu.Lock()
	token := v.seq.begin()
	params := v.query.request()
	v.mu.Unlock()

	page, err := v.board.Posts(ctx, params)
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

// SelectTab switches tabs: the page resets to one and any active search
// is cleared.
func (v *BoardListView) SelectTab(ctx context.Context, slug string) error {
	v.mu.Lock()
	v.query.Category = slug
	v.query.Page = 1
	v.query.Search = ""
	v.query.SearchType = ""
	v.input = ""
	v.mu.Unlock()
	return v.Load(ctx)
}

// SetInput stages search text without applying it.
func (v *BoardListView) SetInput(text string) {
	v.mu.Lock()
	v.input = text
	v.mu.Unlock()
}

// SetSearchType picks the field the next search runs against
// (title, content, or author).
func (v *BoardListView) SetSearchType(searchType string) {
	v.mu.Lock()
	v.searchType = searchType
	v.mu.Unlock()
}

// Submit applies the staged search and reloads from page one.
func (v *BoardListView) Submit(ctx context.Context) error {
	v.mu.Lock()
	v.query.Search = strings.TrimSpace(v.input)
	if v.query.Search != "" {
		v.query.SearchType = v.searchType
	} else {
		v.query.SearchType = ""
	}
	v.query.Page = 1
	v.mu.Unlock()
	return v.Load(ctx)
}

// SetPage jumps to the given page and reloads.
func (v *BoardListView) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	v.query.Page = page
	v.mu.Unlock()
	return v.Load(ctx)
}

// Query returns the applied query.
func (v *BoardListView) Query() BoardQuery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Posts returns the current result page, or nil before the first Load.
func (v *BoardListView) Posts() *services.Page[models.BoardPost] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Tabs returns the tab bar for the fetched categories.
func (v *BoardListView) Tabs() []Tab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Tabs(v.categories)
}

// Categories returns the fetched category catalog.
func (v *BoardListView) Categories() []models.BoardCategory {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.categories
}

// PageNumbers returns the pagination window for the current results.
func (v *BoardListView) PageNumbers() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page == nil {
		return []int{1}
	}
	return PageWindow(v.query.Page, v.page.Count)
}

// BoardDetailView drives a single post: the post body, its comments with
// the best-comment badges, and a rail of other posts from the same
// category.
type BoardDetailView struct {
	board   BoardAPI
	session Session
	logger  *log.Logger

	mu       sync.Mutex
	seq      sequence
	post     *models.BoardPost
	comments []models.BoardComment
	rail     []models.BoardPost
	counted  map[int]bool
}

// NewBoardDetailView creates a detail view for the given services.
func NewBoardDetailView(board BoardAPI, sess Session) *BoardDetailView {
	return &BoardDetailView{
		board:   board,
		session: sess,
		logger:  log.Default(),
		counted: map[int]bool{},
	}
}

// Load fetches the post, its comments, and the same-category rail. The
// view counter is bumped once per post per view lifetime, so reloading
// after a comment does not inflate it.
func (v *BoardDetailView) Load(ctx context.Context, postID int) error {
	v.mu.Lock()
	token := v.seq.begin()
	shouldCount := !v.counted[postID]
	v.counted[postID] = true
	v.mu.Unlock()

	if shouldCount {
		if err := v.board.IncrementView(ctx, postID); err != nil {
			// A failed counter bump never blocks reading the post.
			v.logger.Debug("view count bump failed", "post", postID, "error", err)
		}
	}

	post, err := v.board.Post(ctx, postID)
	if err != nil {
		return err
	}
	comments, err := v.board.Comments(ctx, postID)
	if err != nil {
		return err
	}
	rail, err := v.loadRail(ctx, post)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seq.current(token) {
		return ErrStaleResponse
	}
	v.post = post
	v.comments = comments
	v.rail = rail
	return nil
}

// loadRail fetches up to five other posts from the post's category.
func (v *BoardDetailView) loadRail(ctx context.Context, post *models.BoardPost) ([]models.BoardPost, error) {
	slug := post.Category.Slug
	if slug == "" {
		return nil, nil
	}

	q := BoardQuery{Category: slug, Page: 1}
	page, err := v.board.Posts(ctx, q.request())
	if err != nil {
		return nil, err
	}

	rail := make([]models.BoardPost, 0, railSize)
	for _, candidate := range page.Items {
		if candidate.ID == post.ID {
			continue
		}
		rail = append(rail, candidate)
		if len(rail) == railSize {
			break
		}
	}
	return rail, nil
}

// Post returns the loaded post, or nil.
func (v *BoardDetailView) Post() *models.BoardPost {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.post
}

// Comments returns the loaded comments in server order.
func (v *BoardDetailView) Comments() []models.BoardComment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.comments
}

// Rail returns the same-category posts shown beside the detail.
func (v *BoardDetailView) Rail() []models.BoardPost {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rail
}

// BestCommentIDs returns the ids of the comments that get the BEST badge.
func (v *BoardDetailView) BestCommentIDs() map[int]bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return models.BestCommentIDs(v.comments)
}

// LikePost reacts to the loaded post, enforcing direction exclusivity
// locally before going to the network.
func (v *BoardDetailView) LikePost(ctx context.Context, vote models.Vote) error {
	if err := v.session.Require(); err != nil {
		return err
	}

	v.mu.Lock()
	if v.post == nil {
		v.mu.Unlock()
		return shared.ErrNotFound
	}
	postID := v.post.ID
	switch vote {
	case models.VoteUp:
		if !v.post.MyLike.CanUpvote() {
			v.mu.Unlock()
			return shared.ErrAlreadyVoted
		}
	case models.VoteDown:
		if !v.post.MyLike.CanDownvote() {
			v.mu.Unlock()
			return shared.ErrAlreadyVoted
		}
	}
	v.mu.Unlock()

	if err := v.board.LikePost(ctx, postID, vote); err != nil {
		return err
	}
	return v.Load(ctx, postID)
}

// LikeComment reacts to one comment and reloads.
func (v *BoardDetailView) LikeComment(ctx context.Context, commentID int, vote models.Vote) error {
	if err := v.session.Require(); err != nil {
		return err
	}

	v.mu.Lock()
	postID := 0
	if v.post != nil {
		postID = v.post.ID
	}
	for i := range v.comments {
		if v.comments[i].ID != commentID {
			continue
		}
		if vote == models.VoteUp && !v.comments[i].MyLike.CanUpvote() {
			v.mu.Unlock()
			return shared.ErrAlreadyVoted
		}
		if vote == models.VoteDown && !v.comments[i].MyLike.CanDownvote() {
			v.mu.Unlock()
			return shared.ErrAlreadyVoted
		}
	}
	v.mu.Unlock()

	if err := v.board.LikeComment(ctx, commentID, vote); err != nil {
		return err
	}
	return v.Load(ctx, postID)
}

// AddComment attaches a comment to the loaded post and reloads.
func (v *BoardDetailView) AddComment(ctx context.Context, content string) error {
	if err := v.session.Require(); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: comment text is required", shared.ErrInvalidInput)
	}

	v.mu.Lock()
	if v.post == nil {
		v.mu.Unlock()
		return shared.ErrNotFound
	}
	postID := v.post.ID
	v.mu.Unlock()

	if _, err := v.board.CreateComment(ctx, postID, content); err != nil {
		return err
	}
	return v.Load(ctx, postID)
}

// DeleteComment removes an owned comment and reloads.
func (v *BoardDetailView) DeleteComment(ctx context.Context, commentID int) error {
	if err := v.session.Require(); err != nil {
		return err
	}

	v.mu.Lock()
	postID := 0
	if v.post != nil {
		postID = v.post.ID
	}
	v.mu.Unlock()

	if err := v.board.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	return v.Load(ctx, postID)
}

// DeletePost removes the loaded post. The caller navigates away on success.
func (v *BoardDetailView) DeletePost(ctx context.Context) error {
	if err := v.session.Require(); err != nil {
		return err
	}

	v.mu.Lock()
	if v.post == nil {
		v.mu.Unlock()
		return shared.ErrNotFound
	}
	postID := v.post.ID
	v.mu.Unlock()

	return v.board.DeletePost(ctx, postID)
}
