package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cinetalk/cinetalk/internal/models"
)

// ReviewInput is the payload for creating a review.
type ReviewInput struct {
	MovieID   int
	Rating    float64
	Comment   string
	IsSpoiler bool
	Images    []FileUpload
}

// ReviewPatch carries partial-update fields for an existing review.
// Nil pointers are omitted from the request entirely.
type ReviewPatch struct {
	Rating         *float64
	Comment        *string
	IsSpoiler      *bool
	DeleteImageIDs []int
	NewImages      []FileUpload
}

// ReviewService exposes review CRUD, voting and review comments.
type ReviewService struct {
	client *Client
}

// NewReviewService creates a ReviewService on the given client.
func NewReviewService(client *Client) *ReviewService {
	return &ReviewService{client: client}
}

// Create submits a new review. Multipart when images are attached, plain
// JSON otherwise.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput) (*models.Review, error) {
	var review models.Review

	if len(in.Images) == 0 {
		body := map[string]any{
			"movie":      in.MovieID,
			"rating":     in.Rating,
			"comment":    in.Comment,
			"is_spoiler": in.IsSpoiler,
		}
		if err := s.client.Post(ctx, "/reviews/", body, &review); err != nil {
			return nil, err
		}
		return &review, nil
	}

	fields := map[string]string{
		"movie":      strconv.Itoa(in.MovieID),
		"rating":     strconv.FormatFloat(in.Rating, 'f', -1, 64),
		"comment":    in.Comment,
		"is_spoiler": strconv.FormatBool(in.IsSpoiler),
	}
	body, contentType, err := encodeMultipart(fields, in.Images)
	if err != nil {
		return nil, err
	}
	if err := s.client.PostForm(ctx, "/reviews/", contentType, body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Update applies a partial update: only set fields are sent, deleted image
// ids travel alongside any newly added files.
func (s *ReviewService) Update(ctx context.Context, id int, patch ReviewPatch) (*models.Review, error) {
	path := fmt.Sprintf("/reviews/%d/", id)
	var review models.Review

	if len(patch.NewImages) == 0 {
		body := map[string]any{}
		if patch.Rating != nil {
			body["rating"] = *patch.Rating
		}
		if patch.Comment != nil {
			body["comment"] = *patch.Comment
		}
		if patch.IsSpoiler != nil {
			body["is_spoiler"] = *patch.IsSpoiler
		}
		if len(patch.DeleteImageIDs) > 0 {
			body["delete_image_ids"] = patch.DeleteImageIDs
		}
		if err := s.client.Patch(ctx, path, body, &review); err != nil {
			return nil, err
		}
		return &review, nil
	}

	fields := map[string]string{}
	if patch.Rating != nil {
		fields["rating"] = strconv.FormatFloat(*patch.Rating, 'f', -1, 64)
	}
	if patch.Comment != nil {
		fields["comment"] = *patch.Comment
	}
	if patch.IsSpoiler != nil {
		fields["is_spoiler"] = strconv.FormatBool(*patch.IsSpoiler)
	}
	if len(patch.DeleteImageIDs) > 0 {
		ids, err := json.Marshal(patch.DeleteImageIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode delete_image_ids: %w", err)
		}
		fields["delete_image_ids"] = string(ids)
	}

	body, contentType, err := encodeMultipart(fields, patch.NewImages)
	if err != nil {
		return nil, err
	}
	if err := s.client.PatchForm(ctx, path, contentType, body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/reviews/%d/", id))
}

// VoteResult is the server's reaction summary after a vote.
type VoteResult struct {
	MyVote       models.Vote `json:"my_vote"`
	LikeCount    int         `json:"like_count"`
	DislikeCount int         `json:"dislike_count"`
}

// Vote casts an up or down vote on a review. A duplicate identical vote
// surfaces as shared.ErrAlreadyVoted via the 409 mapping.
func (s *ReviewService) Vote(ctx context.Context, id int, vote models.Vote) (*VoteResult, error) {
	var path string
	switch vote {
	case models.VoteUp:
		path = fmt.Sprintf("/reviews/%d/like/", id)
	case models.VoteDown:
		path = fmt.Sprintf("/reviews/%d/dislike/", id)
	default:
		return nil, fmt.Errorf("cannot cast an empty vote")
	}

	var result VoteResult
	if err := s.client.Post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateComment adds a comment to a review.
func (s *ReviewService) CreateComment(ctx context.Context, reviewID int, content string) (*models.ReviewComment, error) {
	body := map[string]string{"content": content}

	var comment models.ReviewComment
	if err := s.client.Post(ctx, fmt.Sprintf("/reviews/%d/comments/", reviewID), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a review comment.
func (s *ReviewService) DeleteComment(ctx context.Context, commentID int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/reviews/comments/%d/", commentID))
}
