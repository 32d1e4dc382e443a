package views

import (
	"context"
	"net/url"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/session"
	"github.com/cinetalk/cinetalk/internal/shared"
)

// fakeSession is a Session test double with a fixed state.
type fakeSession struct {
	ready    bool
	loggedIn bool
	username string
}

func (s *fakeSession) Require() error {
	if !s.ready {
		return shared.ErrSessionNotReady
	}
	if !s.loggedIn {
		return shared.ErrNotAuthenticated
	}
	return nil
}

func (s *fakeSession) Snapshot() session.Snapshot {
	return session.Snapshot{Ready: s.ready, LoggedIn: s.loggedIn, Username: s.username}
}

func authedSession() *fakeSession {
	return &fakeSession{ready: true, loggedIn: true, username: "me"}
}

// mockMovies is a MovieAPI test double driven by function fields.
type mockMovies struct {
	catalog  []models.OttService
	searchFn func(ctx context.Context, params url.Values) (*services.Page[models.Movie], error)
	movieFn  func(ctx context.Context, id int) (*models.Movie, error)
}

func (m *mockMovies) OttCatalog(ctx context.Context) ([]models.OttService, error) {
	return m.catalog, nil
}

func (m *mockMovies) Search(ctx context.Context, params url.Values) (*services.Page[models.Movie], error) {
	if m.searchFn == nil {
		return &services.Page[models.Movie]{}, nil
	}
	return m.searchFn(ctx, params)
}

func (m *mockMovies) Movie(ctx context.Context, id int) (*models.Movie, error) {
	if m.movieFn == nil {
		return &models.Movie{ID: id}, nil
	}
	return m.movieFn(ctx, id)
}

// mockReviews is a ReviewAPI test double driven by function fields.
type mockReviews struct {
	createFn func(ctx context.Context, in services.ReviewInput) (*models.Review, error)
	updateFn func(ctx context.Context, id int, patch services.ReviewPatch) (*models.Review, error)
	voteFn   func(ctx context.Context, id int, vote models.Vote) (*services.VoteResult, error)

	deleted         []int
	comments        []string
	deletedComments []int
}

func (m *mockReviews) Create(ctx context.Context, in services.ReviewInput) (*models.Review, error) {
	if m.createFn == nil {
		return &models.Review{ID: 1}, nil
	}
	return m.createFn(ctx, in)
}

func (m *mockReviews) Update(ctx context.Context, id int, patch services.ReviewPatch) (*models.Review, error) {
	if m.updateFn == nil {
		return &models.Review{ID: id}, nil
	}
	return m.updateFn(ctx, id, patch)
}

func (m *mockReviews) Delete(ctx context.Context, id int) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockReviews) Vote(ctx context.Context, id int, vote models.Vote) (*services.VoteResult, error) {
	if m.voteFn == nil {
		return &services.VoteResult{MyVote: vote}, nil
	}
	return m.voteFn(ctx, id, vote)
}

func (m *mockReviews) CreateComment(ctx context.Context, reviewID int, content string) (*models.ReviewComment, error) {
	m.comments = append(m.comments, content)
	return &models.ReviewComment{ID: len(m.comments), Content: content}, nil
}

func (m *mockReviews) DeleteComment(ctx context.Context, commentID int) error {
	m.deletedComments = append(m.deletedComments, commentID)
	return nil
}

// mockBoard is a BoardAPI test double driven by function fields.
type mockBoard struct {
	categories []models.BoardCategory
	postsFn    func(ctx context.Context, params url.Values) (*services.Page[models.BoardPost], error)
	postFn     func(ctx context.Context, id int) (*models.BoardPost, error)
	commentsFn func(ctx context.Context, postID int) ([]models.BoardComment, error)
	createFn   func(ctx context.Context, in services.PostInput) (*models.BoardPost, error)
	updateFn   func(ctx context.Context, id int, in services.PostInput) (*models.BoardPost, error)

	viewBumps    []int
	likes        []int
	commentLikes []int
	newComments  []string
	deletedPosts []int
	deletedComms []int
}

func (m *mockBoard) Categories(ctx context.Context) ([]models.BoardCategory, error) {
	return m.categories, nil
}

func (m *mockBoard) Posts(ctx context.Context, params url.Values) (*services.Page[models.BoardPost], error) {
	if m.postsFn == nil {
		return &services.Page[models.BoardPost]{}, nil
	}
	return m.postsFn(ctx, params)
}

func (m *mockBoard) Post(ctx context.Context, id int) (*models.BoardPost, error) {
	if m.postFn == nil {
		return &models.BoardPost{ID: id}, nil
	}
	return m.postFn(ctx, id)
}

func (m *mockBoard) CreatePost(ctx context.Context, in services.PostInput) (*models.BoardPost, error) {
	if m.createFn == nil {
		return &models.BoardPost{ID: 1, Title: in.Title}, nil
	}
	return m.createFn(ctx, in)
}

func (m *mockBoard) UpdatePost(ctx context.Context, id int, in services.PostInput) (*models.BoardPost, error) {
	if m.updateFn == nil {
		return &models.BoardPost{ID: id, Title: in.Title}, nil
	}
	return m.updateFn(ctx, id, in)
}

func (m *mockBoard) DeletePost(ctx context.Context, id int) error {
	m.deletedPosts = append(m.deletedPosts, id)
	return nil
}

func (m *mockBoard) LikePost(ctx context.Context, id int, vote models.Vote) error {
	m.likes = append(m.likes, id)
	return nil
}

func (m *mockBoard) IncrementView(ctx context.Context, id int) error {
	m.viewBumps = append(m.viewBumps, id)
	return nil
}

func (m *mockBoard) Comments(ctx context.Context, postID int) ([]models.BoardComment, error) {
	if m.commentsFn == nil {
		return nil, nil
	}
	return m.commentsFn(ctx, postID)
}

func (m *mockBoard) CreateComment(ctx context.Context, postID int, content string) (*models.BoardComment, error) {
	m.newComments = append(m.newComments, content)
	return &models.BoardComment{ID: len(m.newComments), Content: content}, nil
}

func (m *mockBoard) DeleteComment(ctx context.Context, commentID int) error {
	m.deletedComms = append(m.deletedComms, commentID)
	return nil
}

func (m *mockBoard) LikeComment(ctx context.Context, commentID int, vote models.Vote) error {
	m.commentLikes = append(m.commentLikes, commentID)
	return nil
}
