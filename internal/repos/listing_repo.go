package repos

import (
	"swapit/internal/domain"

	"github.com/jmoiron/sqlx"
)

const listingCols = `id, title, description, category_id, price, location, image_urls, owner_id, status, created_at`

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

func (r *ListingRepo) Insert(l *domain.Listing) error {
	_, err := r.db.Exec(`
	  INSERT INTO items(id,title,description,category_id,price,location,image_urls,owner_id,status,created_at)
	  VALUES(?,?,?,?,?,?,?,?,'available',CURRENT_TIMESTAMP)
	`, l.ID, l.Title, l.Description, l.CategoryID, l.Price, l.Location, l.ImagesJSON, l.OwnerID)
	return err
}

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `SELECT `+listingCols+` FROM items WHERE id = ?`, id)
	return l, err
}

// ListAvailable returns the full eligible set, newest first. The
// browse view narrows it client-side; the repo does not filter.
func (r *ListingRepo) ListAvailable(limit, offset int) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM items
	  WHERE status = 'available'
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ListingRepo) ListByOwner(ownerID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM items
	  WHERE owner_id = ?
	  ORDER BY datetime(created_at) DESC, id
	`, ownerID)
	return out, err
}
