package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinetalk/cinetalk/internal/formatter"
	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/views"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	MovieDetailView
	BoardListView
	BoardDetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	catalog *views.CatalogView
	detail  *views.MovieDetailView
	board   *views.BoardListView
	post    *views.BoardDetailView

	width     int
	height    int
	movieList list.Model
	postList  list.Model
	searching bool
	searchBuf string
	err       error
	help      help.Model
	keys      keyMap
}

type catalogLoadedMsg struct{ err error }
type movieLoadedMsg struct{ err error }
type boardLoadedMsg struct{ err error }
type postLoadedMsg struct{ err error }

// NewModel creates a new TUI model with the provided view dependencies.
func NewModel(ctx context.Context, catalog *views.CatalogView, detail *views.MovieDetailView, board *views.BoardListView, post *views.BoardDetailView) *Model {
	return &Model{
		ctx:     ctx,
		view:    MovieListView,
		catalog: catalog,
		detail:  detail,
		board:   board,
		post:    post,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the movie catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog(func() error {
		if err := m.catalog.Init(m.ctx); err != nil {
			return err
		}
		return m.catalog.Load(m.ctx)
	})
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.movieList.Width() == 0 {
			m.movieList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.postList.Width() == 0 {
			m.postList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		switch m.view {
		case MovieListView:
			return m.handleMovieListKeys(msg)
		case MovieDetailView:
			return m.handleMovieDetailKeys(msg)
		case BoardListView:
			return m.handleBoardListKeys(msg)
		case BoardDetailView:
			return m.handleBoardDetailKeys(msg)
		}

	case catalogLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.rebuildMovieList()
		return m, nil

	case movieLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = MovieDetailView
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = BoardListView
		m.rebuildPostList()
		return m, nil

	case postLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = BoardDetailView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	if m.searching {
		return m.renderSearch()
	}

	switch m.view {
	case MovieListView:
		return m.renderMovieList()
	case MovieDetailView:
		return m.renderMovieDetail()
	case BoardListView:
		return m.renderBoardList()
	case BoardDetailView:
		return m.renderBoardDetail()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchBuf = ""
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		text := m.searchBuf
		m.searchBuf = ""
		if m.view == BoardListView {
			m.board.SetInput(text)
			return m, m.loadBoard(func() error { return m.board.Submit(m.ctx) })
		}
		m.catalog.SetInput(text)
		return m, m.loadCatalog(func() error { return m.catalog.Submit(m.ctx) })
	case tea.KeyBackspace:
		if len(m.searchBuf) > 0 {
			runes := []rune(m.searchBuf)
			m.searchBuf = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeyRunes:
		m.searchBuf += string(msg.Runes)
		return m, nil
	case tea.KeySpace:
		m.searchBuf += " "
		return m, nil
	}
	return m, nil
}

func (m *Model) handleMovieListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, nil
	case key.Matches(msg, m.keys.sort):
		return m, m.loadCatalog(func() error { return m.catalog.CycleOrdering(m.ctx) })
	case key.Matches(msg, m.keys.board):
		return m, m.loadBoard(func() error {
			if err := m.board.Init(m.ctx); err != nil {
				return err
			}
			return m.board.Load(m.ctx)
		})
	case key.Matches(msg, m.keys.next):
		return m, m.loadCatalog(func() error {
			return m.catalog.SetPage(m.ctx, m.catalog.Query().Page+1)
		})
	case key.Matches(msg, m.keys.prev):
		return m, m.loadCatalog(func() error {
			return m.catalog.SetPage(m.ctx, m.catalog.Query().Page-1)
		})
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			return m, m.loadMovie(item.movie.ID)
		}
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleMovieDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MovieListView
		return m, nil
	case key.Matches(msg, m.keys.reveal):
		if movie := m.detail.Movie(); movie != nil {
			for _, review := range movie.Reviews {
				if review.IsSpoiler && !m.detail.Revealed(review.ID) {
					m.detail.RevealSpoiler(review.ID)
					break
				}
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleBoardListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MovieListView
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, nil
	case key.Matches(msg, m.keys.nextTab):
		return m, m.switchTab(1)
	case key.Matches(msg, m.keys.prevTab):
		return m, m.switchTab(-1)
	case key.Matches(msg, m.keys.next):
		return m, m.loadBoard(func() error {
			return m.board.SetPage(m.ctx, m.board.Query().Page+1)
		})
	case key.Matches(msg, m.keys.prev):
		return m, m.loadBoard(func() error {
			return m.board.SetPage(m.ctx, m.board.Query().Page-1)
		})
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.postList.SelectedItem().(postItem); ok {
			return m, m.loadPost(item.post.ID)
		}
	}

	var cmd tea.Cmd
	m.postList, cmd = m.postList.Update(msg)
	return m, cmd
}

func (m *Model) handleBoardDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = BoardListView
		return m, nil
	}
	return m, nil
}

func (m *Model) switchTab(direction int) tea.Cmd {
	tabs := m.board.Tabs()
	if len(tabs) == 0 {
		return nil
	}

	active := m.board.Query().Category
	index := 0
	for i, tab := range tabs {
		if tab.Slug == active {
			index = i
			break
		}
	}
	index = (index + direction + len(tabs)) % len(tabs)

	slug := tabs[index].Slug
	return m.loadBoard(func() error { return m.board.SelectTab(m.ctx, slug) })
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MovieListView:
		m.movieList, cmd = m.movieList.Update(msg)
	case BoardListView:
		m.postList, cmd = m.postList.Update(msg)
	}
	return m, cmd
}

// dropStale maps a superseded fetch to a nil error so the newer result wins.
func dropStale(err error) error {
	if errors.Is(err, views.ErrStaleResponse) {
		return nil
	}
	return err
}

func (m *Model) loadCatalog(fetch func() error) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{err: dropStale(fetch())}
	}
}

func (m *Model) loadMovie(id int) tea.Cmd {
	return func() tea.Msg {
		return movieLoadedMsg{err: dropStale(m.detail.Load(m.ctx, id))}
	}
}

func (m *Model) loadBoard(fetch func() error) tea.Cmd {
	return func() tea.Msg {
		return boardLoadedMsg{err: dropStale(fetch())}
	}
}

func (m *Model) loadPost(id int) tea.Cmd {
	return func() tea.Msg {
		return postLoadedMsg{err: dropStale(m.post.Load(m.ctx, id))}
	}
}

func (m *Model) rebuildMovieList() {
	page := m.catalog.Movies()
	if page == nil {
		return
	}
	items := make([]list.Item, len(page.Items))
	for i, movie := range page.Items {
		items[i] = movieItem{movie: movie}
	}
	m.movieList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.movieList.Title = m.movieListTitle(page.Count)
	m.movieList.SetFilteringEnabled(false)
	m.movieList.SetSize(m.width-4, m.height-8)
}

func (m *Model) movieListTitle(count int) string {
	q := m.catalog.Query()
	if q.Search != "" {
		return fmt.Sprintf("Movies matching '%s' (%d)", q.Search, count)
	}
	return fmt.Sprintf("Movies (%d)", count)
}

func (m *Model) rebuildPostList() {
	page := m.board.Posts()
	if page == nil {
		return
	}
	items := make([]list.Item, len(page.Items))
	for i, post := range page.Items {
		items[i] = postItem{post: post}
	}
	m.postList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.postList.Title = "Board"
	m.postList.SetFilteringEnabled(false)
	m.postList.SetSize(m.width-4, m.height-8)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search")
	prompt := fmt.Sprintf("> %s█", m.searchBuf)
	hint := styles.help.Render("enter to search, esc to cancel")
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, prompt, hint)
}

func (m *Model) renderMovieList() string {
	filters := m.renderOttFilter()
	pagination := m.renderPagination(m.catalog.PageNumbers(), m.catalog.Query().Page)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.search, m.keys.sort, m.keys.board, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", m.movieList.View(), filters, pagination, helpView)
}

func (m *Model) renderOttFilter() string {
	catalog := m.catalog.OttCatalog()
	if len(catalog) == 0 {
		return ""
	}

	q := m.catalog.Query()
	parts := make([]string, 0, len(catalog))
	for _, svc := range catalog {
		label := svc.Name
		if q.HasOtt(svc.ID) {
			label = styles.ok.Render("[" + label + "]")
		}
		parts = append(parts, label)
	}
	return "Providers: " + strings.Join(parts, " ")
}

func (m *Model) renderMovieDetail() string {
	movie := m.detail.Movie()
	if movie == nil {
		return styles.help.Render("Loading...")
	}

	title := styles.title.Render(movie.Title)
	rating := fmt.Sprintf("%s over %d reviews", formatter.FormatStars(movie.AverageRating), movie.ReviewCount)

	providers := ""
	if res := m.detail.ResolveOtt(); len(res.Shown) > 0 {
		names := make([]string, 0, len(res.Shown))
		for _, svc := range res.Shown {
			names = append(names, svc.Name)
		}
		providers = "Watch on: " + strings.Join(names, ", ")
		if res.OverflowCount > 0 {
			providers += styles.badge.Render(fmt.Sprintf(" +%d", res.OverflowCount))
		}
	}

	var reviews strings.Builder
	if top := m.detail.TopReviews(); len(top) > 0 {
		reviews.WriteString(styles.ok.Render("Top Reviews") + "\n")
		for _, review := range top {
			reviews.WriteString(m.renderReviewLine(review) + "\n")
		}
		reviews.WriteString("\n")
	}
	for _, review := range movie.Reviews {
		reviews.WriteString(m.renderReviewLine(review) + "\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.reveal, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s", title, rating, providers, reviews.String(), helpView)
}

func (m *Model) renderReviewLine(review models.Review) string {
	text := review.Comment
	if review.IsSpoiler && !m.detail.Revealed(review.ID) {
		text = styles.warn.Render("(spoiler, press s to reveal)")
	}
	return fmt.Sprintf("  %s %s: %s [+%d/-%d]",
		review.User, formatter.FormatStars(review.Rating), text, review.LikeCount, review.DislikeCount)
}

func (m *Model) renderBoardList() string {
	tabs := m.renderTabs()
	pagination := m.renderPagination(m.board.PageNumbers(), m.board.Query().Page)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.nextTab, m.keys.search, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", tabs, m.postList.View(), pagination, helpView)
}

func (m *Model) renderTabs() string {
	active := m.board.Query().Category
	parts := make([]string, 0, 8)
	for _, tab := range m.board.Tabs() {
		label := tab.Name
		if tab.Slug == active {
			label = styles.tab.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " | ")
}

func (m *Model) renderPagination(window []int, current int) string {
	parts := make([]string, 0, len(window))
	for _, page := range window {
		label := fmt.Sprintf("%d", page)
		if page == current {
			label = styles.ok.Render("[" + label + "]")
		}
		parts = append(parts, label)
	}
	return "Page: " + strings.Join(parts, " ")
}

func (m *Model) renderBoardDetail() string {
	post := m.post.Post()
	if post == nil {
		return styles.help.Render("Loading...")
	}

	title := styles.title.Render(post.Title)
	meta := fmt.Sprintf("by %s • %d views • +%d", post.User, post.ViewCount, post.LikeCount)

	var comments strings.Builder
	best := m.post.BestCommentIDs()
	for _, comment := range m.post.Comments() {
		badge := ""
		if best[comment.ID] {
			badge = styles.badge.Render("[BEST] ")
		}
		comments.WriteString(fmt.Sprintf("  %s%s: %s (+%d)\n", badge, comment.User, comment.Content, comment.LikeCount))
	}

	var rail strings.Builder
	if posts := m.post.Rail(); len(posts) > 0 {
		rail.WriteString(styles.help.Render("More from this category") + "\n")
		for _, p := range posts {
			rail.WriteString(fmt.Sprintf("  [%d] %s\n", p.ID, p.Title))
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s\n\n%s", title, meta, post.Content, comments.String(), rail.String(), helpView)
}
