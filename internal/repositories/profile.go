package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/shared"
)

// recentMoviesMax bounds the recently viewed trail.
const recentMoviesMax = 10

// ProfileRepository stores identity hints and the recently viewed movie
// trail for the local user.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new [ProfileRepository] with the given database connection
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// SaveProfile caches the last resolved identity.
func (r *ProfileRepository) SaveProfile(p models.Profile) error {
	query := `
		INSERT INTO profile_cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	for key, value := range map[string]string{"email": p.Email, "username": p.Username} {
		if _, err := r.db.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to cache profile %s: %w", key, err)
		}
	}
	return nil
}

// Profile returns the cached identity. Missing keys read as empty fields.
func (r *ProfileRepository) Profile() (models.Profile, error) {
	var p models.Profile
	for key, dest := range map[string]*string{"email": &p.Email, "username": &p.Username} {
		err := r.db.QueryRow("SELECT value FROM profile_cache WHERE key = ?", key).Scan(dest)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("failed to read cached profile: %w", err)
		}
	}
	return p, nil
}

// ClearProfile drops the cached identity, e.g. on logout.
func (r *ProfileRepository) ClearProfile() error {
	if _, err := r.db.Exec("DELETE FROM profile_cache"); err != nil {
		return fmt.Errorf("failed to clear profile cache: %w", err)
	}
	return nil
}

// TouchMovie records a movie visit at the head of the recent trail. A
// revisit moves the movie up rather than duplicating it, and the trail is
// trimmed to its bound.
func (r *ProfileRepository) TouchMovie(movieID int, title string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// viewed_at is written explicitly in nanoseconds so revisits within
	// the same second still reorder the trail.
	query := `
		INSERT INTO recent_movies (row_id, movie_id, title, viewed_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(movie_id) DO UPDATE SET title = excluded.title, viewed_at = excluded.viewed_at
	`
	if _, err := tx.Exec(query, shared.GenerateID(), movieID, title, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to record movie visit: %w", err)
	}

	trim := `
		DELETE FROM recent_movies WHERE movie_id NOT IN (
			SELECT movie_id FROM recent_movies ORDER BY viewed_at DESC, movie_id DESC LIMIT ?
		)
	`
	if _, err := tx.Exec(trim, recentMoviesMax); err != nil {
		return fmt.Errorf("failed to trim recent movies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movie visit: %w", err)
	}
	return nil
}

// RecentMovie is one entry of the recently viewed trail.
type RecentMovie struct {
	MovieID int
	Title   string
}

// RecentMovies returns the trail, most recent first.
func (r *ProfileRepository) RecentMovies() ([]RecentMovie, error) {
	rows, err := r.db.Query(`
		SELECT movie_id, title FROM recent_movies ORDER BY viewed_at DESC, movie_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent movies: %w", err)
	}
	defer rows.Close()

	var recents []RecentMovie
	for rows.Next() {
		var m RecentMovie
		if err := rows.Scan(&m.MovieID, &m.Title); err != nil {
			return nil, fmt.Errorf("failed to scan recent movie: %w", err)
		}
		recents = append(recents, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent movies: %w", err)
	}
	return recents, nil
}
