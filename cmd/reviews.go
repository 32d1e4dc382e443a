package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
	"github.com/urfave/cli/v3"
)

const maxReviewImages = 5

// ReviewsCreate posts a review, optionally with image attachments.
func (r *Runner) ReviewsCreate(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	rating := cmd.Float("rating")
	if !shared.ValidRating(rating) {
		return fmt.Errorf("%w: rating must be 0.5-5.0 in half steps", shared.ErrInvalidRating)
	}

	comment := strings.TrimSpace(cmd.String("comment"))
	if comment == "" {
		return fmt.Errorf("%w: comment must not be blank", shared.ErrInvalidInput)
	}

	images, err := readUploads(cmd.StringSlice("image"), "images")
	if err != nil {
		return err
	}
	if len(images) > maxReviewImages {
		return fmt.Errorf("%w: at most %d images", shared.ErrTooManyImages, maxReviewImages)
	}

	in := services.ReviewInput{
		MovieID:   int(cmd.Int("movie")),
		Rating:    rating,
		Comment:   comment,
		IsSpoiler: cmd.Bool("spoiler"),
		Images:    images,
	}

	r.logger.Info("creating review", "movie", in.MovieID, "rating", in.Rating)

	review, err := r.reviews.Create(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return r.writePlain("✓ Review %d created\n", review.ID)
}

// ReviewsEdit applies a partial update to an existing review.
func (r *Runner) ReviewsEdit(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	patch := services.ReviewPatch{}
	if cmd.IsSet("rating") {
		rating := cmd.Float("rating")
		if !shared.ValidRating(rating) {
			return fmt.Errorf("%w: rating must be 0.5-5.0 in half steps", shared.ErrInvalidRating)
		}
		patch.Rating = &rating
	}
	if cmd.IsSet("comment") {
		comment := strings.TrimSpace(cmd.String("comment"))
		if comment == "" {
			return fmt.Errorf("%w: comment must not be blank", shared.ErrInvalidInput)
		}
		patch.Comment = &comment
	}
	for _, imageID := range cmd.IntSlice("delete-image") {
		patch.DeleteImageIDs = append(patch.DeleteImageIDs, int(imageID))
	}
	patch.NewImages, err = readUploads(cmd.StringSlice("image"), "images")
	if err != nil {
		return err
	}
	// A review can never end with more than the cap, so more new images
	// than the cap is invalid regardless of what the server holds.
	if len(patch.NewImages) > maxReviewImages {
		return fmt.Errorf("%w: at most %d images", shared.ErrTooManyImages, maxReviewImages)
	}

	if patch.Rating == nil && patch.Comment == nil && len(patch.DeleteImageIDs) == 0 && len(patch.NewImages) == 0 {
		return fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
	}

	review, err := r.reviews.Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update review %d: %w", id, err)
	}

	return r.writePlain("✓ Review %d updated\n", review.ID)
}

// ReviewsDelete removes a review.
func (r *Runner) ReviewsDelete(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	return r.writePlain("✓ Review %d deleted\n", id)
}

// ReviewsVote likes or dislikes a review.
func (r *Runner) ReviewsVote(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	vote := models.VoteUp
	if cmd.Bool("down") {
		vote = models.VoteDown
	}

	result, err := r.reviews.Vote(ctx, id, vote)
	if err != nil {
		return fmt.Errorf("failed to vote on review %d: %w", id, err)
	}

	return r.writePlain("✓ Review %d now at +%d/-%d\n", id, result.LikeCount, result.DislikeCount)
}

// ReviewsCommentAdd adds a comment to a review.
func (r *Runner) ReviewsCommentAdd(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	reviewID, err := parseIDArg(cmd, "review-id")
	if err != nil {
		return err
	}

	content := strings.TrimSpace(cmd.StringArg("content"))
	if content == "" {
		return fmt.Errorf("%w: comment must not be blank", shared.ErrInvalidInput)
	}

	comment, err := r.reviews.CreateComment(ctx, reviewID, content)
	if err != nil {
		return fmt.Errorf("failed to comment on review %d: %w", reviewID, err)
	}
	return r.writePlain("✓ Comment %d added\n", comment.ID)
}

// ReviewsCommentDelete removes a review comment.
func (r *Runner) ReviewsCommentDelete(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.reviews.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return r.writePlain("✓ Comment %d deleted\n", id)
}

// readUploads loads local files into upload payloads under the given form field.
func readUploads(paths []string, fieldName string) ([]services.FileUpload, error) {
	uploads := make([]services.FileUpload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, services.FileUpload{
			FieldName: fieldName,
			FileName:  filepath.Base(path),
			Data:      data,
		})
	}
	return uploads, nil
}
