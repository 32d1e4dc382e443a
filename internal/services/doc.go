// package services implements the typed client for the CineTalk REST API.
//
// Client handles transport concerns: bearer token attachment, the
// single-retry refresh flow on 401, rate limiting, and error mapping.
// UserService, MovieService, ReviewService and BoardService expose typed
// operations on top of it. Duck-typed server payload shapes (paginated
// envelope vs bare array, category as id/slug/object) are normalized here
// before they reach view logic.
package services
