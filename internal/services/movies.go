package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cinetalk/cinetalk/internal/models"
)

// MovieService exposes the movie catalog and the OTT provider catalog.
type MovieService struct {
	client *Client
}

// NewMovieService creates a MovieService on the given client.
func NewMovieService(client *Client) *MovieService {
	return &MovieService{client: client}
}

// OttCatalog fetches the global streaming-provider catalog.
func (s *MovieService) OttCatalog(ctx context.Context) ([]models.OttService, error) {
	var page Page[models.OttService]
	if err := s.client.Get(ctx, "/ott/", &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Search fetches the movie collection filtered by the given query
// parameters (search, ott_services, ordering, page).
func (s *MovieService) Search(ctx context.Context, params url.Values) (*Page[models.Movie], error) {
	path := "/movies/search/"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page Page[models.Movie]
	if err := s.client.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Movie fetches a single movie with its nested reviews.
func (s *MovieService) Movie(ctx context.Context, id int) (*models.Movie, error) {
	var movie models.Movie
	if err := s.client.Get(ctx, fmt.Sprintf("/movies/%d/", id), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}
