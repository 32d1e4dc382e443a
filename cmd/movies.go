package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cinetalk/cinetalk/internal/formatter"
	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/shared"
	"github.com/cinetalk/cinetalk/internal/views"
	"github.com/urfave/cli/v3"
)

// MoviesSearch queries the catalog and prints one line per result.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := views.CatalogQuery{
		Search:   strings.TrimSpace(cmd.StringArg("query")),
		Ordering: cmd.String("ordering"),
		Page:     int(cmd.Int("page")),
	}
	for _, id := range cmd.IntSlice("ott") {
		query.OttIDs = append(query.OttIDs, int(id))
	}
	if query.Ordering != "" && !validOrdering(query.Ordering) {
		return fmt.Errorf("%w: unknown ordering %q", shared.ErrInvalidArgument, query.Ordering)
	}

	r.logger.Info("searching movies", "query", query.Search, "page", query.Page)

	page, err := r.movies.Search(ctx, query.Values())
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	r.writePlainHeader(fmt.Sprintf("Movies (%d)", page.Count))
	for _, movie := range page.Items {
		r.writePlain("[%d] %s %s (%d reviews)\n",
			movie.ID, movie.Title, formatter.FormatStars(movie.AverageRating), movie.ReviewCount)
	}
	if len(page.Items) == 0 {
		r.writePlain("No results.\n")
	}
	return nil
}

// MoviesShow prints a movie detail page and records it on the local
// recently-viewed trail.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	movie, err := r.movies.Movie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	r.touchRecent(movie)

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}

	catalog, err := r.ottCatalog(ctx)
	if err != nil {
		r.logger.Warn("provider catalog unavailable", "error", err)
	}

	if cmd.Bool("spoilers") {
		r.writePlainHeader(movie.Title)
		r.writePlain("%s over %d reviews\n\n", formatter.FormatStars(movie.AverageRating), movie.ReviewCount)
		for _, review := range movie.Reviews {
			r.writePlain("[%d] %s %s: %s [+%d/-%d]\n",
				review.ID, review.User, formatter.FormatStars(review.Rating),
				review.Comment, review.LikeCount, review.DislikeCount)
		}
		return nil
	}

	md, err := formatter.MovieToMarkdown(movie, catalog)
	if err != nil {
		return err
	}
	return r.writePlain("%s", md)
}

// MoviesProviders lists the streaming provider catalog and refreshes the
// local cache.
func (r *Runner) MoviesProviders(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.movies.OttCatalog(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if r.otts != nil {
		if err := r.otts.Replace(catalog); err != nil {
			r.logger.Debug("failed to cache provider catalog", "error", err)
		}
	}

	r.writePlainHeader("Streaming Providers")
	for _, svc := range catalog {
		r.writePlain("[%d] %s\n", svc.ID, svc.Name)
	}
	return nil
}

// MoviesRecent prints the locally cached recently-viewed trail.
func (r *Runner) MoviesRecent(ctx context.Context, cmd *cli.Command) error {
	if r.profiles == nil {
		return fmt.Errorf("%w: local cache disabled", shared.ErrServiceUnavailable)
	}

	recent, err := r.profiles.RecentMovies()
	if err != nil {
		return fmt.Errorf("failed to read recent movies: %w", err)
	}

	r.writePlainHeader("Recently Viewed")
	for _, movie := range recent {
		r.writePlain("[%d] %s\n", movie.MovieID, movie.Title)
	}
	if len(recent) == 0 {
		r.writePlain("Nothing yet.\n")
	}
	return nil
}

// MoviesExport writes search results or a movie detail as csv, markdown or json.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputPath := cmd.String("output")

	var data []byte
	var err error

	if id := int(cmd.Int("id")); id != 0 {
		data, err = r.exportMovie(ctx, id, format)
	} else {
		data, err = r.exportSearch(ctx, strings.TrimSpace(cmd.StringArg("query")), format)
	}
	if err != nil {
		return err
	}

	if outputPath == "" {
		return r.writePlain("%s", data)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	r.logger.Info("export written", "path", outputPath, "bytes", len(data))
	return r.writePlain("✓ Exported to %s\n", outputPath)
}

func (r *Runner) exportMovie(ctx context.Context, id int, format string) ([]byte, error) {
	movie, err := r.movies.Movie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	switch format {
	case "csv":
		return formatter.ReviewsToCSV(movie.Reviews)
	case "markdown", "md":
		catalog, err := r.ottCatalog(ctx)
		if err != nil {
			r.logger.Warn("provider catalog unavailable", "error", err)
		}
		return formatter.MovieToMarkdown(movie, catalog)
	case "json":
		return formatter.ToJSON(movie)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

func (r *Runner) exportSearch(ctx context.Context, search, format string) ([]byte, error) {
	query := views.CatalogQuery{Search: search, Page: 1}
	page, err := r.movies.Search(ctx, query.Values())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	switch format {
	case "csv":
		return formatter.MoviesToCSV(page.Items)
	case "json":
		return formatter.ToJSON(page)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ottCatalog returns the provider catalog, falling back to the local cache
// when the API is unreachable.
func (r *Runner) ottCatalog(ctx context.Context) ([]models.OttService, error) {
	catalog, err := r.movies.OttCatalog(ctx)
	if err == nil {
		if r.otts != nil {
			if cacheErr := r.otts.Replace(catalog); cacheErr != nil {
				r.logger.Debug("failed to cache provider catalog", "error", cacheErr)
			}
		}
		return catalog, nil
	}

	if r.otts != nil {
		if cached, cacheErr := r.otts.All(); cacheErr == nil && len(cached) > 0 {
			r.logger.Debug("using cached provider catalog")
			return cached, nil
		}
	}
	return nil, err
}

func validOrdering(key string) bool {
	for _, known := range views.CatalogOrderings {
		if key == known {
			return true
		}
	}
	return false
}

func (r *Runner) touchRecent(movie *models.Movie) {
	if r.profiles == nil {
		return
	}
	if err := r.profiles.TouchMovie(movie.ID, movie.Title); err != nil {
		r.logger.Debug("failed to record recent movie", "error", err)
	}
}
