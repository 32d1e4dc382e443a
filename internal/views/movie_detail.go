package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
)

// maxReviewImages caps the images attached to a single review.
const maxReviewImages = 5

// MovieDetailView drives the movie page: the movie itself, its review
// list with votes and comments, and the spoiler reveal state.
//
// Revealed spoilers are per-visit: a refetch collapses them again.
type MovieDetailView struct {
	movies  MovieAPI
	reviews ReviewAPI
	session Session

	mu       sync.Mutex
	seq      sequence
	movie    *models.Movie
	catalog  []models.OttService
	revealed map[int]bool
}

// NewMovieDetailView creates a detail view for the given services.
func NewMovieDetailView(movies MovieAPI, reviews ReviewAPI, sess Session) *MovieDetailView {
	return &MovieDetailView{
		movies:   movies,
		reviews:  reviews,
		session:  sess,
		revealed: map[int]bool{},
	}
}

// Load fetches the movie and resets the spoiler reveal state. The
// provider catalog is fetched once and reused across reloads.
func (v *MovieDetailView) Load(ctx context.Context, movieID int) error {
	v.mu.Lock()
	token := v.seq.begin()
	needCatalog := v.catalog == nil
	v.mu.Unlock()

	if needCatalog {
		catalog, err := v.movies.OttCatalog(ctx)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.catalog = catalog
		v.mu.Unlock()
	}

	movie, err := v.movies.Movie(ctx, movieID)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seq.current(token) {
		return ErrStaleResponse
	}
	v.movie = movie
	v.revealed = map[int]bool{}
	return nil
}

// Movie returns the loaded movie, or nil.
func (v *MovieDetailView) Movie() *models.Movie {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.movie
}

// TopReviews returns the highlighted reviews for the loaded movie.
func (v *MovieDetailView) TopReviews() []models.Review {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.movie == nil {
		return nil
	}
	return models.TopReviews(v.movie.Reviews)
}

// ResolveOtt maps the loaded movie's provider ids onto catalog entries.
func (v *MovieDetailView) ResolveOtt() models.OttResolution {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.movie == nil {
		return models.OttResolution{}
	}
	return models.ResolveOtt(v.movie.OttServiceIDs, v.catalog)
}

// RevealSpoiler marks one spoiler review as readable until the next Load.
func (v *MovieDetailView) RevealSpoiler(reviewID int) {
	v.mu.Lock()
	v.revealed[reviewID] = true
	v.mu.Unlock()
}

// Revealed reports whether a spoiler review has been opened this visit.
func (v *MovieDetailView) Revealed(reviewID int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.revealed[reviewID]
}

// validateReviewInput enforces the shared review rules: a rating on the
// half-star scale, non-blank text, and at most five images.
func validateReviewInput(rating float64, comment string, imageCount int) error {
	if !shared.ValidRating(rating) {
		return shared.ErrInvalidRating
	}
	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("%w: review text is required", shared.ErrInvalidInput)
	}
	if imageCount > maxReviewImages {
		return shared.ErrTooManyImages
	}
	return nil
}

// SubmitReview validates and creates a review, then reloads the movie so
// aggregates and ordering come from the server.
func (v *MovieDetailView) SubmitReview(ctx context.Context, in services.ReviewInput) error {
	if err := v.session.Require(); err != nil {
		return err
	}
	if err := validateReviewInput(in.Rating, in.Comment, len(in.Images)); err != nil {
		return err
	}

	v.mu.Lock()
	if v.movie == nil {
		v.mu.Unlock()
		return fmt.Errorf("%w: no movie loaded", shared.ErrInvalidInput)
	}
	in.MovieID = v.movie.ID
	movieID := v.movie.ID
	v.mu.Unlock()

	if _, err := v.reviews.Create(ctx, in); err != nil {
		return err
	}
	return v.Load(ctx, movieID)
}

// EditReview validates and applies a partial update to an owned review.
// The image cap counts surviving plus newly added images.
func (v *MovieDetailView) EditReview(ctx context.Context, reviewID int, patch services.ReviewPatch) error {
	if err := v.session.Require(); err != nil {
		return err
	}
	if patch.Rating != nil && !shared.ValidRating(*patch.Rating) {
		return shared.ErrInvalidRating
	}
	if patch.Comment != nil && strings.TrimSpace(*patch.Comment) == "" {
		return fmt.Errorf("%w: review text is required", shared.ErrInvalidInput)
	}

	v.mu.Lock()
	review := v.findReviewLocked(reviewID)
	movieID := 0
	if v.movie != nil {
		movieID = v.movie.ID
	}
	v.mu.Unlock()
	if review == nil {
		return shared.ErrNotFound
	}

	deleted := map[int]bool{}
	for _, id := range patch.DeleteImageIDs {
		deleted[id] = true
	}
	surviving := 0
	for _, img := range review.Images {
		if !deleted[img.ID] {
			surviving++
		}
	}
	if surviving+len(patch.NewImages) > maxReviewImages {
		return shared.ErrTooManyImages
	}

	if _, err := v.reviews.Update(ctx, reviewID, patch); err != nil {
		return err
	}
	return v.Load(ctx, movieID)
}

// DeleteReview removes an owned review and reloads.
func (v *MovieDetailView) DeleteReview(ctx context.Context, reviewID int) error {
	if err := v.session.Require(); err != nil {
		return err
	}

	v.mu.Lock()
	movieID := 0
	if v.movie != nil {
		movieID = v.movie.ID
	}
	v.mu.Unlock()

	if err := v.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	return v.Load(ctx, movieID)
}

// Vote casts a review vote. The two directions are exclusive: a vote in
// the opposite direction must be withdrawn first, which the view enforces
// locally before going to the network. Counts update in place from the
// server's response.
func (v *MovieDetailView) Vote(ctx context.Context, reviewID int, vote models.Vote) error {
	if err := v.session.Require(); err != nil {
		return err
	}

	v.mu.Lock()
	review := v.findReviewLocked(reviewID)
	if review == nil {
		v.mu.Unlock()
		return shared.ErrNotFound
	}
	switch vote {
	case models.VoteUp:
		if !review.MyVote.CanUpvote() {
			v.mu.Unlock()
			return shared.ErrAlreadyVoted
		}
	case models.VoteDown:
		if !review.MyVote.CanDownvote() {
			v.mu.Unlock()
			return shared.ErrAlreadyVoted
		}
	}
	v.mu.Unlock()

	result, err := v.reviews.Vote(ctx, reviewID, vote)
	if err != nil {
		return err
	}

	v.mu.Lock()
	if review := v.findReviewLocked(reviewID); review != nil {
		review.MyVote = result.MyVote
		review.LikeCount = result.LikeCount
		review.DislikeCount = result.DislikeCount
	}
	v.mu.Unlock()
	return nil
}

// AddComment attaches a comment to a review and reloads.
func (v *MovieDetailView) AddComment(ctx context.Context, reviewID int, content string) error {
	if err := v.session.Require(); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: comment text is required", shared.ErrInvalidInput)
	}

	v.mu.Lock()
	movieID := 0
	if v.movie != nil {
		movieID = v.movie.ID
	}
	v.mu.Unlock()

	if _, err := v.reviews.CreateComment(ctx, reviewID, content); err != nil {
		return err
	}
	return v.Load(ctx, movieID)
}

// DeleteComment removes an owned review comment and reloads.
func (v *MovieDetailView) DeleteComment(ctx context.Context, commentID int) error {
	if err := v.session.Require(); err != nil {
		return err
	}

	v.mu.Lock()
	movieID := 0
	if v.movie != nil {
		movieID = v.movie.ID
	}
	v.mu.Unlock()

	if err := v.reviews.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	return v.Load(ctx, movieID)
}

func (v *MovieDetailView) findReviewLocked(reviewID int) *models.Review {
	if v.movie == nil {
		return nil
	}
	for i := range v.movie.Reviews {
		if v.movie.Reviews[i].ID == reviewID {
			return &v.movie.Reviews[i]
		}
	}
	return nil
}
