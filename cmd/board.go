package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cinetalk/cinetalk/internal/formatter"
	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
	"github.com/cinetalk/cinetalk/internal/views"
	"github.com/urfave/cli/v3"
)

// BoardList lists posts on a board tab, refreshing the local category cache.
func (r *Runner) BoardList(ctx context.Context, cmd *cli.Command) error {
	view := views.NewBoardListView(r.board)
	view.Restore(views.BoardQuery{
		Category:   cmd.String("tab"),
		Page:       int(cmd.Int("page")),
		Search:     strings.TrimSpace(cmd.String("search")),
		SearchType: cmd.String("search-type"),
	})

	if err := view.Init(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if err := view.Load(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if r.categories != nil {
		if err := r.categories.Replace(view.Categories()); err != nil {
			r.logger.Debug("failed to cache board categories", "error", err)
		}
	}

	page := view.Posts()
	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	tabNames := make([]string, 0, 8)
	for _, tab := range view.Tabs() {
		if tab.Slug == view.Query().Category {
			tabNames = append(tabNames, "["+tab.Name+"]")
		} else {
			tabNames = append(tabNames, tab.Name)
		}
	}
	r.writePlainHeader("Board: " + strings.Join(tabNames, " "))
	r.writePlain("%s", formatter.PostsToText(page.Items))
	if len(page.Items) == 0 {
		r.writePlain("No posts.\n")
	}
	return nil
}

// BoardRead shows a post with its comments and a same-category rail.
//
// Reading a post counts one view.
func (r *Runner) BoardRead(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	view := views.NewBoardDetailView(r.board, r.session)
	if err := view.Load(ctx, id); err != nil {
		return fmt.Errorf("failed to load post %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"post":     view.Post(),
			"comments": view.Comments(),
			"related":  view.Rail(),
		}, true)
	}

	md, err := formatter.PostToMarkdown(view.Post(), view.Comments())
	if err != nil {
		return err
	}
	r.writePlain("%s", md)

	if rail := view.Rail(); len(rail) > 0 {
		r.writePlainln("More from this category:")
		for _, post := range rail {
			r.writePlain("[%d] %s\n", post.ID, post.Title)
		}
	}
	return nil
}

// BoardPost creates a new post.
func (r *Runner) BoardPost(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	in := services.PostInput{
		Title:        strings.TrimSpace(cmd.String("title")),
		Content:      strings.TrimSpace(cmd.String("content")),
		CategorySlug: cmd.String("category"),
	}
	if err := shared.ValidatePostInput(shared.PostInput{Title: in.Title, Content: in.Content}); err != nil {
		return err
	}

	var err error
	in.Attachments, err = readUploads(cmd.StringSlice("attach"), "attachments")
	if err != nil {
		return err
	}
	if len(in.Attachments) > maxReviewImages {
		return fmt.Errorf("%w: at most %d attachments", shared.ErrTooManyImages, maxReviewImages)
	}

	r.logger.Info("creating post", "category", in.CategorySlug, "title", in.Title)

	post, err := r.board.CreatePost(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return r.writePlain("✓ Post %d created\n", post.ID)
}

// BoardEdit updates an existing post.
func (r *Runner) BoardEdit(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	current, err := r.board.Post(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load post %d: %w", id, err)
	}

	in := services.PostInput{
		Title:        current.Title,
		Content:      current.Content,
		CategorySlug: cmd.String("category"),
	}
	if cmd.IsSet("title") {
		in.Title = strings.TrimSpace(cmd.String("title"))
	}
	if cmd.IsSet("content") {
		in.Content = strings.TrimSpace(cmd.String("content"))
	}
	if in.CategorySlug == "" {
		catalog, catErr := r.boardCategories(ctx)
		if catErr != nil {
			return catErr
		}
		in.CategorySlug = models.ResolveCategorySlug(current.Category, catalog)
	}
	if err := shared.ValidatePostInput(shared.PostInput{Title: in.Title, Content: in.Content}); err != nil {
		return err
	}

	in.Attachments, err = readUploads(cmd.StringSlice("attach"), "attachments")
	if err != nil {
		return err
	}
	for _, attachmentID := range cmd.IntSlice("delete-attachment") {
		in.DeleteAttachmentIDs = append(in.DeleteAttachmentIDs, int(attachmentID))
	}

	// Only deletions that name a real attachment shrink the surviving count.
	existing := make(map[int]bool, len(current.Attachments))
	for _, att := range current.Attachments {
		existing[att.ID] = true
	}
	deleted := 0
	for _, attachmentID := range in.DeleteAttachmentIDs {
		if existing[attachmentID] {
			deleted++
		}
	}
	surviving := len(current.Attachments) - deleted + len(in.Attachments)
	if surviving > maxReviewImages {
		return fmt.Errorf("%w: at most %d attachments", shared.ErrTooManyImages, maxReviewImages)
	}

	post, err := r.board.UpdatePost(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", id, err)
	}
	return r.writePlain("✓ Post %d updated\n", post.ID)
}

// BoardDelete removes a post.
func (r *Runner) BoardDelete(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.board.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return r.writePlain("✓ Post %d deleted\n", id)
}

// BoardLike likes or dislikes a post.
func (r *Runner) BoardLike(ctx context.Context, cmd *cli.Command) error {
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

	if err := r.board.LikePost(ctx, id, vote); err != nil {
		return fmt.Errorf("failed to vote on post %d: %w", id, err)
	}
	return r.writePlain("✓ Vote recorded on post %d\n", id)
}

// BoardCommentAdd adds a comment to a post.
func (r *Runner) BoardCommentAdd(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	postID, err := parseIDArg(cmd, "post-id")
	if err != nil {
		return err
	}

	content := strings.TrimSpace(cmd.StringArg("content"))
	if content == "" {
		return fmt.Errorf("%w: comment must not be blank", shared.ErrInvalidInput)
	}

	comment, err := r.board.CreateComment(ctx, postID, content)
	if err != nil {
		return fmt.Errorf("failed to comment on post %d: %w", postID, err)
	}
	return r.writePlain("✓ Comment %d added\n", comment.ID)
}

// BoardCommentDelete removes a board comment.
func (r *Runner) BoardCommentDelete(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.board.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return r.writePlain("✓ Comment %d deleted\n", id)
}

// BoardCommentLike likes or dislikes a board comment.
func (r *Runner) BoardCommentLike(ctx context.Context, cmd *cli.Command) error {
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

	if err := r.board.LikeComment(ctx, id, vote); err != nil {
		return fmt.Errorf("failed to vote on comment %d: %w", id, err)
	}
	return r.writePlain("✓ Vote recorded on comment %d\n", id)
}

// boardCategories returns the category catalog, falling back to the local
// cache when the API is unreachable.
func (r *Runner) boardCategories(ctx context.Context) ([]models.BoardCategory, error) {
	catalog, err := r.board.Categories(ctx)
	if err == nil {
		if r.categories != nil {
			if cacheErr := r.categories.Replace(catalog); cacheErr != nil {
				r.logger.Debug("failed to cache board categories", "error", cacheErr)
			}
		}
		return catalog, nil
	}

	if r.categories != nil {
		if cached, cacheErr := r.categories.All(); cacheErr == nil && len(cached) > 0 {
			r.logger.Debug("using cached board categories")
			return cached, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}
