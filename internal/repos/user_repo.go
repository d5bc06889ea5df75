package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"swapit/internal/domain"
)

const userCols = `id,email,full_name,password_hash,avatar_url,phone,location,verified`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user and its profile row as one atomic unit.
// Both rows commit together or neither does.
func (r *UserRepo) Create(u *domain.User) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO users(id,email,full_name,password_hash,avatar_url,phone,location,verified)
		VALUES(?,?,?,?,?,?,?,?)
	`, u.ID, u.Email, u.FullName, u.Hash, u.AvatarURL, u.Phone, u.Location, u.Verified); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO profiles(user_id,full_name,email,avatar_url)
		VALUES(?,?,?,?)
	`, u.ID, u.FullName, u.Email, u.AvatarURL); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateProfile applies a partial update to users and keeps the profile
// row in step. Nil fields are left untouched.
type ProfilePatch struct {
	FullName  *string
	AvatarURL *string
	Phone     *string
	Location  *string
}

func (p ProfilePatch) Empty() bool {
	return p.FullName == nil && p.AvatarURL == nil && p.Phone == nil && p.Location == nil
}

func (r *UserRepo) UpdateProfile(userID string, patch ProfilePatch) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	set := ``
	args := []any{}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		if set != "" {
			set += ", "
		}
		set += col + "=?"
		args = append(args, *v)
	}
	add("full_name", patch.FullName)
	add("avatar_url", patch.AvatarURL)
	add("phone", patch.Phone)
	add("location", patch.Location)
	if set == "" {
		return errors.New("no updates provided")
	}
	args = append(args, userID)
	if _, err := tx.Exec(`UPDATE users SET `+set+`, updated_at=CURRENT_TIMESTAMP WHERE id=?`, args...); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		UPDATE profiles SET
		  full_name  = COALESCE(?, full_name),
		  avatar_url = COALESCE(?, avatar_url)
		WHERE user_id=?
	`, patch.FullName, patch.AvatarURL, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// SetAvatar refreshes the avatar on both rows (federated sign-in keeps
// the provider picture current).
func (r *UserRepo) SetAvatar(userID, url string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`UPDATE users SET avatar_url=? WHERE id=?`, url, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE profiles SET avatar_url=? WHERE user_id=?`, url, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------- Sessions ----------

// BindSession attaches a user to the sid; an existing row is reused so
// the cookie value survives login.
func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

// SessionUser resolves the sid to its user. Sessions older than 24h
// are treated as absent.
func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.full_name,u.password_hash,u.avatar_url,u.phone,u.location,u.verified
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=? AND datetime(s.created_at) > datetime('now','-24 hours')`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// TouchSession records liveness for the periodic refresh.
func (r *UserRepo) TouchSession(sid string) error {
	res, err := r.DB.Exec(`UPDATE sessions SET last_seen=CURRENT_TIMESTAMP
	                        WHERE id=? AND datetime(created_at) > datetime('now','-24 hours')`, sid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
