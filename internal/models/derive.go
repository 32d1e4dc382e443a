package models

import "sort"

const (
	// topReviewMinDiff is the minimum like/dislike difference for a review
	// to qualify for the top section.
	topReviewMinDiff = 10

	topReviewLimit  = 3
	bestCommentMax  = 3
	maxVisibleLogos = 4
)

// FallbackCategorySlug is used when a post's category cannot be resolved
// against the fetched catalog.
const FallbackCategorySlug = "free"

// TopReviews selects the reviews shown in the "top" section: those whose
// likeCount - dislikeCount is at least 10, ordered by that difference
// descending, at most three. An empty result means the section renders its
// empty state; it is never backfilled from ordinary reviews.
func TopReviews(reviews []Review) []Review {
	diff := func(r Review) int { return r.LikeCount - r.DislikeCount }

	var qualified []Review
	for _, r := range reviews {
		if diff(r) >= topReviewMinDiff {
			qualified = append(qualified, r)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return diff(qualified[i]) > diff(qualified[j])
	})

	if len(qualified) > topReviewLimit {
		qualified = qualified[:topReviewLimit]
	}
	return qualified
}

// BestCommentIDs returns the ids of comments flagged BEST: the top three
// by like count across the whole list, ties broken by received order.
//
// Earlier revisions of the platform instead flagged comments with ten or
// more likes among the first three; the unconditional top-3 rule is the
// one the server's comment ordering already assumes.
func BestCommentIDs(comments []BoardComment) map[int]bool {
	ranked := make([]BoardComment, len(comments))
	copy(ranked, comments)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LikeCount > ranked[j].LikeCount
	})

	best := make(map[int]bool, bestCommentMax)
	for i, c := range ranked {
		if i >= bestCommentMax || c.LikeCount == 0 {
			break
		}
		best[c.ID] = true
	}
	return best
}

// OttResolution is the provider strip for a movie card: up to four resolved
// services plus an overflow count with the remaining provider names.
type OttResolution struct {
	Shown         []OttService
	OverflowCount int
	OverflowNames []string
}

// ResolveOtt resolves a movie's provider ids against the fetched catalog.
// Unresolved ids are omitted entirely; they count toward neither the strip
// nor the overflow.
func ResolveOtt(ids []int, catalog []OttService) OttResolution {
	byID := make(map[int]OttService, len(catalog))
	for _, svc := range catalog {
		byID[svc.ID] = svc
	}

	var resolved []OttService
	for _, id := range ids {
		if svc, ok := byID[id]; ok {
			resolved = append(resolved, svc)
		}
	}

	res := OttResolution{Shown: resolved}
	if len(resolved) > maxVisibleLogos {
		res.Shown = resolved[:maxVisibleLogos]
		overflow := resolved[maxVisibleLogos:]
		res.OverflowCount = len(overflow)
		for _, svc := range overflow {
			res.OverflowNames = append(res.OverflowNames, svc.Name)
		}
	}
	return res
}

// ResolveCategorySlug derives a canonical category slug from whatever shape
// the server sent, via lookup against the fetched catalog. Falls back to
// "free" when nothing matches.
func ResolveCategorySlug(ref CategoryRef, catalog []BoardCategory) string {
	if ref.Slug != "" {
		for _, c := range catalog {
			if c.Slug == ref.Slug {
				return c.Slug
			}
		}
		// A slug the catalog doesn't know is still a slug.
		return ref.Slug
	}

	if ref.ID != 0 {
		for _, c := range catalog {
			if c.ID == ref.ID {
				return c.Slug
			}
		}
	}

	return FallbackCategorySlug
}
