// package views contains the screen-level state machines behind the CLI
// and TUI: catalog browsing, movie detail with reviews, and the board.
//
// Each view owns its query state, talks to the API through narrow
// interfaces, and discards responses that arrive after a newer request
// has been issued.
package views

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/session"
)

// ErrStaleResponse marks a fetch result that was superseded by a newer
// request before it arrived. Callers drop it silently.
var ErrStaleResponse = errors.New("stale response discarded")

// MovieAPI is the slice of the movie service the views need.
type MovieAPI interface {
	OttCatalog(ctx context.Context) ([]models.OttService, error)
	Search(ctx context.Context, params url.Values) (*services.Page[models.Movie], error)
	Movie(ctx context.Context, id int) (*models.Movie, error)
}

// ReviewAPI is the slice of the review service the views need.
type ReviewAPI interface {
	Create(ctx context.Context, in services.ReviewInput) (*models.Review, error)
	Update(ctx context.Context, id int, patch services.ReviewPatch) (*models.Review, error)
	Delete(ctx context.Context, id int) error
	Vote(ctx context.Context, id int, vote models.Vote) (*services.VoteResult, error)
	CreateComment(ctx context.Context, reviewID int, content string) (*models.ReviewComment, error)
	DeleteComment(ctx context.Context, commentID int) error
}

// BoardAPI is the slice of the board service the views need.
type BoardAPI interface {
	Categories(ctx context.Context) ([]models.BoardCategory, error)
	Posts(ctx context.Context, params url.Values) (*services.Page[models.BoardPost], error)
	Post(ctx context.Context, id int) (*models.BoardPost, error)
	CreatePost(ctx context.Context, in services.PostInput) (*models.BoardPost, error)
	UpdatePost(ctx context.Context, id int, in services.PostInput) (*models.BoardPost, error)
	DeletePost(ctx context.Context, id int) error
	LikePost(ctx context.Context, id int, vote models.Vote) error
	IncrementView(ctx context.Context, id int) error
	Comments(ctx context.Context, postID int) ([]models.BoardComment, error)
	CreateComment(ctx context.Context, postID int, content string) (*models.BoardComment, error)
	DeleteComment(ctx context.Context, commentID int) error
	LikeComment(ctx context.Context, commentID int, vote models.Vote) error
}

// Session gates authenticated operations and exposes the current identity.
// Implemented by [session.Store].
type Session interface {
	Require() error
	Snapshot() session.Snapshot
}

// sequence hands out fetch tokens so a view can tell whether a response
// still belongs to its latest request.
type sequence struct {
	n atomic.Uint64
}

func (s *sequence) begin() uint64 {
	return s.n.Add(1)
}

func (s *sequence) current(token uint64) bool {
	return s.n.Load() == token
}
