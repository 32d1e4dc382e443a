package views

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
)

func sampleCategories() []models.BoardCategory {
	return []models.BoardCategory{
		{ID: 1, Slug: "free", Name: "자유게시판"},
		{ID: 2, Slug: "movie", Name: "영화이야기"},
	}
}

func TestTabs(t *testing.T) {
	t.Run("Hot First Then Catalog Then Sale", func(t *testing.T) {
		tabs := Tabs(sampleCategories())

		want := []string{"hot", "free", "movie", "sale"}
		if len(tabs) != len(want) {
			t.Fatalf("expected %d tabs, got %d", len(want), len(tabs))
		}
		for i, slug := range want {
			if tabs[i].Slug != slug {
				t.Errorf("expected tab %d to be %s, got %s", i, slug, tabs[i].Slug)
			}
		}
	})

	t.Run("No Duplicate Sale Tab", func(t *testing.T) {
		categories := append(sampleCategories(), models.BoardCategory{ID: 3, Slug: "sale", Name: "할인정보"})
		tabs := Tabs(categories)

		count := 0
		for _, tab := range tabs {
			if tab.Slug == "sale" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("expected exactly one sale tab, got %d", count)
		}
	})

	t.Run("Empty Catalog Still Has Builtins", func(t *testing.T) {
		tabs := Tabs(nil)
		if len(tabs) != 2 || tabs[0].Slug != "hot" || tabs[1].Slug != "sale" {
			t.Errorf("unexpected tabs: %+v", tabs)
		}
	})
}

func TestBoardListView(t *testing.T) {
	t.Run("Starts On Hot Tab", func(t *testing.T) {
		var sent url.Values
		board := &mockBoard{postsFn: func(ctx context.Context, params url.Values) (*services.Page[models.BoardPost], error) {
			sent = params
			return &services.Page[models.BoardPost]{}, nil
		}}
		view := NewBoardListView(board)

		if err := view.Load(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sent.Get("ordering") != "-like_count" {
			t.Errorf("expected hot ordering, got %q", sent.Get("ordering"))
		}
	})

	t.Run("SelectTab Clears Search And Page", func(t *testing.T) {
		var sent url.Values
		board := &mockBoard{postsFn: func(ctx context.Context, params url.Values) (*services.Page[models.BoardPost], error) {
			sent = params
			return &services.Page[models.BoardPost]{}, nil
		}}
		view := NewBoardListView(board)
		view.Restore(BoardQuery{Category: "free", Page: 3, SearchType: "title", Search: "추천"})

		if err := view.SelectTab(context.Background(), "movie"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if sent.Get("category") != "movie" {
			t.Errorf("expected category movie, got %q", sent.Get("category"))
		}
		if sent.Get("search") != "" || sent.Get("page") != "" {
			t.Errorf("expected search and page cleared, got %v", sent)
		}
		if view.Query().Search != "" || view.Query().Page != 1 {
			t.Errorf("unexpected query after tab switch: %+v", view.Query())
		}
	})

	t.Run("Submit Applies Search Type Only With Text", func(t *testing.T) {
		var sent url.Values
		board := &mockBoard{postsFn: func(ctx context.Context, params url.Values) (*services.Page[models.BoardPost], error) {
			sent = params
			return &services.Page[models.BoardPost]{}, nil
		}}
		view := NewBoardListView(board)
		view.SetSearchType("author")

		view.SetInput("cinephile")
		if err := view.Submit(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sent.Get("search") != "cinephile" || sent.Get("search_type") != "author" {
			t.Errorf("unexpected search params: %v", sent)
		}

		view.SetInput("   ")
		if err := view.Submit(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sent.Get("search") != "" || sent.Get("search_type") != "" {
			t.Errorf("expected blank search dropped entirely, got %v", sent)
		}
	})
}

func TestBoardDetailView(t *testing.T) {
	postWithCategory := func(id int, slug string) *models.BoardPost {
		return &models.BoardPost{ID: id, Title: "post", Category: models.CategoryRef{ID: 1, Slug: slug}}
	}

	t.Run("View Counted Once Across Reloads", func(t *testing.T) {
		board := &mockBoard{postFn: func(ctx context.Context, id int) (*models.BoardPost, error) {
			return postWithCategory(id, "free"), nil
		}}
		view := NewBoardDetailView(board, authedSession())
		ctx := context.Background()

		if err := view.Load(ctx, 7); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := view.Load(ctx, 7); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(board.viewBumps) != 1 || board.viewBumps[0] != 7 {
			t.Errorf("expected one view bump for post 7, got %v", board.viewBumps)
		}
	})

	t.Run("Rail Excludes Current Post And Caps At Five", func(t *testing.T) {
		board := &mockBoard{
			postFn: func(ctx context.Context, id int) (*models.BoardPost, error) {
				return postWithCategory(id, "free"), nil
			},
			postsFn: func(ctx context.Context, params url.Values) (*services.Page[models.BoardPost], error) {
				if params.Get("category") != "free" {
					t.Errorf("expected same-category rail query, got %v", params)
				}
				items := make([]models.BoardPost, 0, 8)
				for id := 1; id <= 8; id++ {
					items = append(items, models.BoardPost{ID: id})
				}
				return &services.Page[models.BoardPost]{Count: 8, Items: items}, nil
			},
		}
		view := NewBoardDetailView(board, authedSession())

		if err := view.Load(context.Background(), 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		rail := view.Rail()
		if len(rail) != 5 {
			t.Fatalf("expected rail of 5, got %d", len(rail))
		}
		for _, p := range rail {
			if p.ID == 3 {
				t.Error("expected current post excluded from rail")
			}
		}
	})

	t.Run("Best Comment Badges", func(t *testing.T) {
		board := &mockBoard{
			postFn: func(ctx context.Context, id int) (*models.BoardPost, error) {
				return postWithCategory(id, "free"), nil
			},
			commentsFn: func(ctx context.Context, postID int) ([]models.BoardComment, error) {
				return []models.BoardComment{
					{ID: 1, LikeCount: 9},
					{ID: 2, LikeCount: 0},
					{ID: 3, LikeCount: 4},
					{ID: 4, LikeCount: 7},
					{ID: 5, LikeCount: 1},
				}, nil
			},
		}
		view := NewBoardDetailView(board, authedSession())

		if err := view.Load(context.Background(), 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		best := view.BestCommentIDs()
		for _, id := range []int{1, 4, 3} {
			if !best[id] {
				t.Errorf("expected comment %d badged", id)
			}
		}
		if best[2] || best[5] {
			t.Errorf("unexpected badges: %v", best)
		}
	})

	t.Run("Like Exclusivity Enforced Locally", func(t *testing.T) {
		board := &mockBoard{postFn: func(ctx context.Context, id int) (*models.BoardPost, error) {
			post := postWithCategory(id, "free")
			post.MyLike = models.VoteDown
			return post, nil
		}}
		view := NewBoardDetailView(board, authedSession())

		if err := view.Load(context.Background(), 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		err := view.LikePost(context.Background(), models.VoteUp)
		if !errors.Is(err, shared.ErrAlreadyVoted) {
			t.Errorf("expected ErrAlreadyVoted, got %v", err)
		}
		if len(board.likes) != 0 {
			t.Error("expected no network call for a blocked vote")
		}
	})

	t.Run("Guarded Operations", func(t *testing.T) {
		board := &mockBoard{postFn: func(ctx context.Context, id int) (*models.BoardPost, error) {
			return postWithCategory(id, "free"), nil
		}}

		t.Run("Reject Before Session Ready", func(t *testing.T) {
			view := NewBoardDetailView(board, &fakeSession{})
			err := view.AddComment(context.Background(), "hello")
			if !errors.Is(err, shared.ErrSessionNotReady) {
				t.Errorf("expected ErrSessionNotReady, got %v", err)
			}
		})

		t.Run("Reject Anonymous", func(t *testing.T) {
			view := NewBoardDetailView(board, &fakeSession{ready: true})
			err := view.LikePost(context.Background(), models.VoteUp)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("AddComment Rejects Blank Text", func(t *testing.T) {
		board := &mockBoard{postFn: func(ctx context.Context, id int) (*models.BoardPost, error) {
			return postWithCategory(id, "free"), nil
		}}
		view := NewBoardDetailView(board, authedSession())
		if err := view.Load(context.Background(), 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		err := view.AddComment(context.Background(), "   ")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if len(board.newComments) != 0 {
			t.Error("expected no network call for blank comment")
		}
	})
}
