package repos

import (
	"swapit/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT id,name FROM categories ORDER BY name`)
	return out, err
}

// ByName resolves a category name case-insensitively.
// Returns sql.ErrNoRows when there is no exact match.
func (r *CategoryRepo) ByName(name string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id,name FROM categories WHERE LOWER(name)=LOWER(?)`, name)
	return c, err
}
