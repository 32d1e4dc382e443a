package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/cinetalk/cinetalk/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = postItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	desc := fmt.Sprintf("%.1f★ • %d reviews", i.movie.AverageRating, i.movie.ReviewCount)
	if i.movie.ReleaseDate != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.movie.ReleaseDate)
	}
	return desc
}

// postItem wraps [models.BoardPost] to implement [list.Item].
type postItem struct {
	post models.BoardPost
}

func (i postItem) FilterValue() string { return i.post.Title }
func (i postItem) Title() string       { return i.post.Title }
func (i postItem) Description() string {
	return fmt.Sprintf("%s • %d comments • %d views • +%d", i.post.User, i.post.CommentCount, i.post.ViewCount, i.post.LikeCount)
}
