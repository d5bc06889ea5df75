package domain

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	FullName  string `db:"full_name" json:"full_name"`
	Hash      string `db:"password_hash" json:"-"`
	AvatarURL string `db:"avatar_url" json:"avatar_url,omitempty"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Location  string `db:"location" json:"location,omitempty"`
	Verified  bool   `db:"verified" json:"-"`
}

// Profile mirrors the user row one-to-one; both are written in the
// same transaction at signup.
type Profile struct {
	UserID    string `db:"user_id"`
	FullName  string `db:"full_name"`
	Email     string `db:"email"`
	AvatarURL string `db:"avatar_url"`
}
