package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"swapit/internal/domain"
)

type SwapRepo struct{ db *sqlx.DB }

func NewSwapRepo(db *sqlx.DB) *SwapRepo { return &SwapRepo{db: db} }

// CreateBatch inserts one pending swap request per item id inside a
// single transaction. If any item id does not resolve to a listing the
// whole batch rolls back and sql.ErrNoRows is returned; zero rows are
// ever left behind.
func (r *SwapRepo) CreateBatch(requesterID, pickupAt string, itemIDs []string) ([]string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		var ownerID string
		if err := tx.Get(&ownerID, `SELECT owner_id FROM items WHERE id=?`, itemID); err != nil {
			if err == sql.ErrNoRows {
				return nil, sql.ErrNoRows
			}
			return nil, err
		}
		id := uuid.NewString()
		if _, err := tx.Exec(`
		  INSERT INTO swap_requests(id,item_id,requester_id,owner_id,pickup_at,status,created_at)
		  VALUES(?,?,?,?,?,'pending',CURRENT_TIMESTAMP)
		`, id, itemID, requesterID, ownerID, pickupAt); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SwapRepo) Get(id string) (domain.SwapRequest, error) {
	var s domain.SwapRequest
	err := r.db.Get(&s, `
	  SELECT id,item_id,requester_id,owner_id,pickup_at,status,created_at
	  FROM swap_requests WHERE id=?`, id)
	return s, err
}

func (r *SwapRepo) ListByRequester(userID string) ([]domain.SwapRequest, error) {
	var out []domain.SwapRequest
	err := r.db.Select(&out, `
	  SELECT id,item_id,requester_id,owner_id,pickup_at,status,created_at
	  FROM swap_requests
	  WHERE requester_id=?
	  ORDER BY datetime(created_at) DESC, id
	`, userID)
	return out, err
}

func (r *SwapRepo) CountByItem(itemID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM swap_requests WHERE item_id=?`, itemID)
	return n, err
}
