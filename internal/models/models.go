package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Vote is a tri-state reaction: none, up, or down.
//
// The server encodes it inconsistently across resources: reviews carry
// my_vote as -1/0/1 while board posts and comments carry my_like as
// true/false/null. UnmarshalJSON folds every shape into one type.
type Vote int

const (
	VoteDown Vote = -1
	VoteNone Vote = 0
	VoteUp   Vote = 1
)

func (v *Vote) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch string(data) {
	case "null":
		*v = VoteNone
		return nil
	case "true":
		*v = VoteUp
		return nil
	case "false":
		*v = VoteDown
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid vote value %s: %w", data, err)
	}
	switch {
	case n > 0:
		*v = VoteUp
	case n < 0:
		*v = VoteDown
	default:
		*v = VoteNone
	}
	return nil
}

func (v Vote) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(v))
}

// CanUpvote reports whether the upvote control is enabled. A cast downvote
// disables it; voting up twice is allowed to reach the server so the
// conflict response can surface.
func (v Vote) CanUpvote() bool { return v != VoteDown }

// CanDownvote reports whether the downvote control is enabled.
func (v Vote) CanDownvote() bool { return v != VoteUp }

// Profile is the authenticated user's identity as returned by /users/profile/.
type Profile struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// OttService is one entry of the global streaming-provider catalog.
type OttService struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
	LinkURL string `json:"link_url,omitempty"`
}

// Movie is a catalog entry. Reviews is populated only on the detail endpoint.
type Movie struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	ReleaseDate   string   `json:"release_date"`
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	OttServiceIDs []int    `json:"ott_services"`
	Reviews       []Review `json:"reviews,omitempty"`
}

// ReviewImage is an uploaded image attached to a review.
type ReviewImage struct {
	ID  int    `json:"id"`
	URL string `json:"image"`
}

// Review is a star-rated movie review. Rating moves in 0.5 steps within [0.5, 5.0].
type Review struct {
	ID           int             `json:"id"`
	User         string          `json:"user"`
	Rating       float64         `json:"rating"`
	Comment      string          `json:"comment"`
	IsSpoiler    bool            `json:"is_spoiler"`
	IsEdited     bool            `json:"is_edited"`
	LikeCount    int             `json:"like_count"`
	DislikeCount int             `json:"dislike_count"`
	MyVote       Vote            `json:"my_vote"`
	IsOwner      *bool           `json:"is_owner,omitempty"`
	Images       []ReviewImage   `json:"images,omitempty"`
	Comments     []ReviewComment `json:"comments,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// OwnedBy reports whether the review belongs to username, preferring the
// server-supplied ownership flag and falling back to the author name.
func (r Review) OwnedBy(username string) bool {
	if r.IsOwner != nil {
		return *r.IsOwner
	}
	return username != "" && r.User == username
}

// ReviewComment is a comment on a review.
type ReviewComment struct {
	ID      int    `json:"id"`
	User    string `json:"user"`
	Content string `json:"content"`
	IsOwner *bool  `json:"is_owner,omitempty"`
}

// OwnedBy reports whether the comment belongs to username.
func (c ReviewComment) OwnedBy(username string) bool {
	if c.IsOwner != nil {
		return *c.IsOwner
	}
	return username != "" && c.User == username
}

// BoardCategory is one board category from /board/categories/.
type BoardCategory struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// CategoryRef is a reference to a board category as embedded in a post.
//
// The server has returned it as a bare id, a slug string, and an embedded
// object across revisions; all three decode into this one shape. Slug or
// Name may be empty when only an id was sent.
type CategoryRef struct {
	ID   int
	Slug string
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*c = CategoryRef{}
		return nil
	}

	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		*c = CategoryRef{ID: id}
		return nil
	}

	var slug string
	if err := json.Unmarshal(data, &slug); err == nil {
		*c = CategoryRef{Slug: slug}
		return nil
	}

	var obj struct {
		ID   int    `json:"id"`
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid category reference %s: %w", data, err)
	}
	*c = CategoryRef(obj)
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.Slug != "" {
		return json.Marshal(c.Slug)
	}
	return json.Marshal(c.ID)
}

// Attachment is a file attached to a board post.
type Attachment struct {
	ID      int    `json:"id"`
	FileURL string `json:"file_url"`
}

// BoardPost is a community post.
type BoardPost struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	User         string       `json:"user"`
	Category     CategoryRef  `json:"category"`
	LikeCount    int          `json:"like_count"`
	DislikeCount int          `json:"dislike_count"`
	MyLike       Vote         `json:"my_like"`
	ViewCount    int          `json:"view_count"`
	CommentCount int          `json:"comment_count"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	CreatedAt    string       `json:"created_at"`
}

// BoardComment is a comment on a board post.
type BoardComment struct {
	ID        int    `json:"id"`
	User      string `json:"user"`
	Content   string `json:"content"`
	LikeCount int    `json:"like_count"`
	MyLike    Vote   `json:"my_like"`
	CreatedAt string `json:"created_at"`
}
