package shared

import (
	"strings"
	"testing"
)

func TestValidatePostInput(t *testing.T) {
	tc := []struct {
		name    string
		title   string
		content string
		wantErr bool
	}{
		{name: "valid minimal", title: "ab", content: "abcde", wantErr: false},
		{name: "empty title", title: "   ", content: "abcde", wantErr: true},
		{name: "empty content", title: "ab", content: "", wantErr: true},
		{name: "title too short", title: "a", content: "abcde", wantErr: true},
		{name: "title at max", title: strings.Repeat("t", 100), content: "abcde", wantErr: false},
		{name: "title over max", title: strings.Repeat("t", 101), content: "abcde", wantErr: true},
		{name: "content too short", title: "ab", content: "abcd", wantErr: true},
		{name: "content at max", title: "ab", content: strings.Repeat("c", 2000), wantErr: false},
		{name: "content over max", title: "ab", content: strings.Repeat("c", 2001), wantErr: true},
		{name: "script tag in content", title: "ab", content: "hello <script>alert(1)</script>", wantErr: true},
		{name: "script tag in title", title: "<script>x", content: "abcde", wantErr: true},
		{name: "script tag mixed case", title: "ab", content: "hello <ScRiPt src=x>", wantErr: true},
		{name: "script fragment without close", title: "ab", content: "oops <script", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostInput(PostInput{Title: tt.title, Content: tt.content})
			if tt.wantErr && err == nil {
				t.Errorf("expected error for title=%q content len=%d", tt.title, len(tt.content))
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}

	t.Run("multibyte characters count as one", func(t *testing.T) {
		title := strings.Repeat("가", 100)
		if err := ValidatePostInput(PostInput{Title: title, Content: "abcde"}); err != nil {
			t.Errorf("100 multibyte characters should be accepted, got %v", err)
		}
	})
}

func TestValidRating(t *testing.T) {
	valid := []float64{0.5, 1, 2.5, 4.5, 5}
	invalid := []float64{0, 0.25, 5.5, 3.1, -1}

	for _, r := range valid {
		if !ValidRating(r) {
			t.Errorf("expected %v to be valid", r)
		}
	}
	for _, r := range invalid {
		if ValidRating(r) {
			t.Errorf("expected %v to be invalid", r)
		}
	}
}
