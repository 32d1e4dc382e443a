// package formatter provides functions to export movie and board data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/shared"
)

// FormatStars renders a half-star rating, e.g. 3.5 -> "★★★☆☆ (3.5)".
func FormatStars(rating float64) string {
	full := int(rating)
	var b strings.Builder
	for i := 0; i < full; i++ {
		b.WriteRune('★')
	}
	for i := full; i < 5; i++ {
		b.WriteRune('☆')
	}
	return fmt.Sprintf("%s (%.1f)", b.String(), rating)
}

// MoviesToCSV converts a movie list to CSV with columns: ID, Title, ReleaseDate, AverageRating, ReviewCount
func MoviesToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "ReleaseDate", "AverageRating", "ReviewCount"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		record := []string{
			strconv.Itoa(movie.ID),
			movie.Title,
			movie.ReleaseDate,
			strconv.FormatFloat(movie.AverageRating, 'f', 1, 64),
			strconv.Itoa(movie.ReviewCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReviewsToCSV converts a review list to CSV with columns: ID, User, Rating, Likes, Dislikes, Spoiler, Comment
func ReviewsToCSV(reviews []models.Review) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "User", "Rating", "Likes", "Dislikes", "Spoiler", "Comment"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, review := range reviews {
		record := []string{
			strconv.Itoa(review.ID),
			review.User,
			strconv.FormatFloat(review.Rating, 'f', 1, 64),
			strconv.Itoa(review.LikeCount),
			strconv.Itoa(review.DislikeCount),
			strconv.FormatBool(review.IsSpoiler),
			review.Comment,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MovieToMarkdown renders a movie detail page: metadata, the provider
// strip with its overflow badge, highlighted reviews, then the full review
// list. Spoiler reviews are masked.
func MovieToMarkdown(movie *models.Movie, catalog []models.OttService) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", movie.Title))
	if movie.ReleaseDate != "" {
		buf.WriteString(fmt.Sprintf("**Released**: %s\n", movie.ReleaseDate))
	}
	buf.WriteString(fmt.Sprintf("**Rating**: %s over %d reviews\n\n", FormatStars(movie.AverageRating), movie.ReviewCount))

	if movie.Description != "" {
		buf.WriteString(movie.Description + "\n\n")
	}

	res := models.ResolveOtt(movie.OttServiceIDs, catalog)
	if len(res.Shown) > 0 {
		names := make([]string, 0, len(res.Shown))
		for _, svc := range res.Shown {
			names = append(names, svc.Name)
		}
		buf.WriteString(fmt.Sprintf("**Watch on**: %s", strings.Join(names, ", ")))
		if res.OverflowCount > 0 {
			buf.WriteString(fmt.Sprintf(" +%d", res.OverflowCount))
		}
		buf.WriteString("\n\n")
	}

	if top := models.TopReviews(movie.Reviews); len(top) > 0 {
		buf.WriteString("## Top Reviews\n\n")
		for _, review := range top {
			writeReviewLine(&buf, review)
		}
		buf.WriteString("\n")
	}

	if len(movie.Reviews) > 0 {
		buf.WriteString("## Reviews\n\n")
		for _, review := range movie.Reviews {
			writeReviewLine(&buf, review)
		}
	}

	return buf.Bytes(), nil
}

func writeReviewLine(buf *bytes.Buffer, review models.Review) {
	text := review.Comment
	if review.IsSpoiler {
		text = "(spoiler hidden)"
	}
	edited := ""
	if review.IsEdited {
		edited = " *(edited)*"
	}
	buf.WriteString(fmt.Sprintf("- %s — %s: %s%s [+%d/-%d]\n",
		review.User, FormatStars(review.Rating), text, edited, review.LikeCount, review.DislikeCount))
}

// PostToMarkdown renders a board post with its comments. Best comments
// are badged in rendering order.
func PostToMarkdown(post *models.BoardPost, comments []models.BoardComment) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", post.Title))
	buf.WriteString(fmt.Sprintf("**By**: %s | **Views**: %d | **Likes**: %d\n\n", post.User, post.ViewCount, post.LikeCount))
	buf.WriteString(post.Content + "\n")

	if len(post.Attachments) > 0 {
		buf.WriteString("\n## Attachments\n\n")
		for _, att := range post.Attachments {
			buf.WriteString(fmt.Sprintf("- %s\n", att.FileURL))
		}
	}

	if len(comments) > 0 {
		best := models.BestCommentIDs(comments)
		buf.WriteString(fmt.Sprintf("\n## Comments (%d)\n\n", len(comments)))
		for _, comment := range comments {
			badge := ""
			if best[comment.ID] {
				badge = "[BEST] "
			}
			buf.WriteString(fmt.Sprintf("- %s%s: %s (+%d)\n", badge, comment.User, comment.Content, comment.LikeCount))
		}
	}

	return buf.Bytes(), nil
}

// PostsToText converts a post list to plain text, one line per post.
func PostsToText(posts []models.BoardPost) []byte {
	var buf bytes.Buffer
	for i, post := range posts {
		buf.WriteString(fmt.Sprintf("%d. [%d] %s by %s (%d comments, %d views)\n",
			i+1, post.ID, post.Title, post.User, post.CommentCount, post.ViewCount))
	}
	return buf.Bytes()
}

// ToJSON generates an indented JSON representation of any exportable value.
func ToJSON(v any) ([]byte, error) {
	return shared.MarshalJSON(v, true)
}
