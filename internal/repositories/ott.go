package repositories

import (
	"database/sql"
	"fmt"

	"github.com/cinetalk/cinetalk/internal/models"
)

// OttRepository caches the streaming-provider catalog.
type OttRepository struct {
	db *sql.DB
}

// NewOttRepository creates a new [OttRepository] with the given database connection
func NewOttRepository(db *sql.DB) *OttRepository {
	return &OttRepository{db: db}
}

// Replace swaps the cached catalog for the given one in a single
// transaction, so readers never observe a half-written catalog.
func (r *OttRepository) Replace(catalog []models.OttService) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ott_services"); err != nil {
		return fmt.Errorf("failed to clear ott cache: %w", err)
	}

	query := `
		INSERT INTO ott_services (id, name, logo_url, link_url) VALUES (?, ?, ?, ?)
	`
	for _, svc := range catalog {
		if _, err := tx.Exec(query, svc.ID, svc.Name, svc.LogoURL, svc.LinkURL); err != nil {
			return fmt.Errorf("failed to insert ott service %d: %w", svc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ott cache: %w", err)
	}
	return nil
}

// All returns the cached catalog ordered by id.
func (r *OttRepository) All() ([]models.OttService, error) {
	rows, err := r.db.Query(`
		SELECT id, name, logo_url, link_url FROM ott_services ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ott cache: %w", err)
	}
	defer rows.Close()

	var catalog []models.OttService
	for rows.Next() {
		var svc models.OttService
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.LogoURL, &svc.LinkURL); err != nil {
			return nil, fmt.Errorf("failed to scan ott service: %w", err)
		}
		catalog = append(catalog, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ott cache: %w", err)
	}
	return catalog, nil
}
