package repositories

import (
	"database/sql"
	"fmt"

	"github.com/cinetalk/cinetalk/internal/models"
)

// CategoryRepository caches the board category catalog.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new [CategoryRepository] with the given database connection
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Replace swaps the cached catalog for the given one in a single transaction.
func (r *CategoryRepository) Replace(categories []models.BoardCategory) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM board_categories"); err != nil {
		return fmt.Errorf("failed to clear category cache: %w", err)
	}

	query := `
		INSERT INTO board_categories (id, slug, name) VALUES (?, ?, ?)
	`
	for _, cat := range categories {
		if _, err := tx.Exec(query, cat.ID, cat.Slug, cat.Name); err != nil {
			return fmt.Errorf("failed to insert category %s: %w", cat.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category cache: %w", err)
	}
	return nil
}

// All returns the cached categories ordered by id.
func (r *CategoryRepository) All() ([]models.BoardCategory, error) {
	rows, err := r.db.Query(`
		SELECT id, slug, name FROM board_categories ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category cache: %w", err)
	}
	defer rows.Close()

	var categories []models.BoardCategory
	for rows.Next() {
		var cat models.BoardCategory
		if err := rows.Scan(&cat.ID, &cat.Slug, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category cache: %w", err)
	}
	return categories, nil
}

// BySlug returns one cached category, or sql.ErrNoRows wrapped.
func (r *CategoryRepository) BySlug(slug string) (*models.BoardCategory, error) {
	var cat models.BoardCategory
	err := r.db.QueryRow(`
		SELECT id, slug, name FROM board_categories WHERE slug = ?
	`, slug).Scan(&cat.ID, &cat.Slug, &cat.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %s: %w", slug, err)
	}
	return &cat, nil
}
