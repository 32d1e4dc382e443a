package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// scriptTag matches a literal <script fragment, case-insensitively.
//
// This is a UX-layer guard against obvious injection attempts, not a
// security boundary; the server performs its own sanitization.
var scriptTag = regexp.MustCompile(`(?i)<script`)

const (
	TitleMinLen   = 2
	TitleMaxLen   = 100
	ContentMinLen = 5
	ContentMaxLen = 2000
)

// PostInput is the user-entered portion of a board post.
type PostInput struct {
	Title   string
	Content string
}

// ValidatePostInput checks a board post's title and content against the
// shared length and content rules. Returns nil when the input is acceptable.
func ValidatePostInput(in PostInput) error {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" || content == "" {
		return fmt.Errorf("%w: title and content are both required", ErrInvalidInput)
	}
	if len([]rune(title)) < TitleMinLen {
		return fmt.Errorf("%w: title must be at least %d characters", ErrInvalidInput, TitleMinLen)
	}
	if len([]rune(title)) > TitleMaxLen {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, TitleMaxLen)
	}
	if len([]rune(content)) < ContentMinLen {
		return fmt.Errorf("%w: content must be at least %d characters", ErrInvalidInput, ContentMinLen)
	}
	if len([]rune(content)) > ContentMaxLen {
		return fmt.Errorf("%w: content must be at most %d characters", ErrInvalidInput, ContentMaxLen)
	}
	if scriptTag.MatchString(title + content) {
		return fmt.Errorf("%w: script tags are not allowed", ErrInvalidInput)
	}

	return nil
}

// ValidRating reports whether r is a legal review rating: 0.5 through 5.0 in 0.5 steps.
func ValidRating(r float64) bool {
	if r < 0.5 || r > 5.0 {
		return false
	}
	doubled := r * 2
	return doubled == float64(int(doubled))
}
