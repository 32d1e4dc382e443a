package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/cinetalk/cinetalk/internal/models"
)

// PostInput is the payload for creating or replacing a board post.
type PostInput struct {
	Title        string
	Content      string
	CategorySlug string
	Attachments  []FileUpload
	// DeleteAttachmentIDs is honored on update only.
	DeleteAttachmentIDs []int
}

// BoardService exposes board categories, posts, comments and likes.
type BoardService struct {
	client *Client
}

// NewBoardService creates a BoardService on the given client.
func NewBoardService(client *Client) *BoardService {
	return &BoardService{client: client}
}

// Categories fetches the board category catalog.
func (s *BoardService) Categories(ctx context.Context) ([]models.BoardCategory, error) {
	var page Page[models.BoardCategory]
	if err := s.client.Get(ctx, "/board/categories/", &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Posts fetches the post collection filtered by the given query parameters
// (category, page, search_type, search, ordering).
func (s *BoardService) Posts(ctx context.Context, params url.Values) (*Page[models.BoardPost], error) {
	path := "/board/posts/"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page Page[models.BoardPost]
	if err := s.client.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Post fetches a single post.
func (s *BoardService) Post(ctx context.Context, id int) (*models.BoardPost, error) {
	var post models.BoardPost
	if err := s.client.Get(ctx, fmt.Sprintf("/board/posts/%d/", id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost submits a new post. Multipart when attachments are present,
// plain JSON otherwise.
func (s *BoardService) CreatePost(ctx context.Context, in PostInput) (*models.BoardPost, error) {
	var post models.BoardPost

	if len(in.Attachments) == 0 {
		body := map[string]any{
			"title":    in.Title,
			"content":  in.Content,
			"category": in.CategorySlug,
		}
		if err := s.client.Post(ctx, "/board/posts/", body, &post); err != nil {
			return nil, err
		}
		return &post, nil
	}

	body, contentType, err := encodeMultipart(map[string]string{
		"title":    in.Title,
		"content":  in.Content,
		"category": in.CategorySlug,
	}, in.Attachments)
	if err != nil {
		return nil, err
	}
	if err := s.client.PostForm(ctx, "/board/posts/", contentType, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces a post's editable fields. Attachment ids marked for
// deletion are sent alongside any newly added files.
func (s *BoardService) UpdatePost(ctx context.Context, id int, in PostInput) (*models.BoardPost, error) {
	path := fmt.Sprintf("/board/posts/%d/", id)
	var post models.BoardPost

	if len(in.Attachments) == 0 {
		body := map[string]any{
			"title":    in.Title,
			"content":  in.Content,
			"category": in.CategorySlug,
		}
		if len(in.DeleteAttachmentIDs) > 0 {
			body["delete_attachment_ids"] = in.DeleteAttachmentIDs
		}
		if err := s.client.Put(ctx, path, body, &post); err != nil {
			return nil, err
		}
		return &post, nil
	}

	fields := map[string]string{
		"title":    in.Title,
		"content":  in.Content,
		"category": in.CategorySlug,
	}
	if len(in.DeleteAttachmentIDs) > 0 {
		ids, err := json.Marshal(in.DeleteAttachmentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode delete_attachment_ids: %w", err)
		}
		fields["delete_attachment_ids"] = string(ids)
	}

	body, contentType, err := encodeMultipart(fields, in.Attachments)
	if err != nil {
		return nil, err
	}
	if err := s.client.PatchForm(ctx, path, contentType, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (s *BoardService) DeletePost(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/board/posts/%d/", id))
}

// LikePost casts an up or down reaction on a post.
func (s *BoardService) LikePost(ctx context.Context, id int, vote models.Vote) error {
	if vote == models.VoteNone {
		return fmt.Errorf("cannot cast an empty vote")
	}
	body := map[string]bool{"is_like": vote == models.VoteUp}
	return s.client.Post(ctx, fmt.Sprintf("/board/posts/%d/like/", id), body, nil)
}

// IncrementView bumps the server-side view counter. Callers invoke this
// once per detail-view mount.
func (s *BoardService) IncrementView(ctx context.Context, id int) error {
	return s.client.Post(ctx, fmt.Sprintf("/board/posts/%d/increment-view/", id), nil, nil)
}

// Comments fetches a post's comments in server order (the server fronts
// the three most-liked, then the rest oldest-first).
func (s *BoardService) Comments(ctx context.Context, postID int) ([]models.BoardComment, error) {
	var page Page[models.BoardComment]
	if err := s.client.Get(ctx, fmt.Sprintf("/board/posts/%d/comments/", postID), &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// CreateComment adds a comment to a post.
func (s *BoardService) CreateComment(ctx context.Context, postID int, content string) (*models.BoardComment, error) {
	body := map[string]string{"content": content}

	var comment models.BoardComment
	if err := s.client.Post(ctx, fmt.Sprintf("/board/posts/%d/comments/", postID), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a board comment.
func (s *BoardService) DeleteComment(ctx context.Context, commentID int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/board/comments/%d/", commentID))
}

// LikeComment casts an up or down reaction on a comment.
func (s *BoardService) LikeComment(ctx context.Context, commentID int, vote models.Vote) error {
	if vote == models.VoteNone {
		return fmt.Errorf("cannot cast an empty vote")
	}
	body := map[string]bool{"is_like": vote == models.VoteUp}
	return s.client.Post(ctx, fmt.Sprintf("/board/comments/%d/like/", commentID), body, nil)
}
