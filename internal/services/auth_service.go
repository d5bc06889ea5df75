package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"swapit/internal/domain"
	"swapit/internal/oidc"
	"swapit/internal/repos"
	"swapit/internal/validate"
)

type AuthService struct {
	Users *repos.UserRepo

	// Tokens is optional; when nil the google_signin action is
	// rejected as unauthenticated.
	Tokens *oidc.Verifier
}

// Signup creates the user+profile pair atomically and binds the session.
func (s *AuthService) Signup(sid, email, password, fullName string) (*domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, domain.Invalid("Invalid email address")
	}
	if !validate.Password(password) {
		return nil, domain.Invalid("Password must be at least 6 characters")
	}
	fullName, ok = validate.FullName(fullName)
	if !ok {
		return nil, domain.Invalid("All fields are required")
	}

	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRegistrationFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrRegistrationFailed
	}

	u := &domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: fullName,
		Hash:     string(hash),
	}
	if err := s.Users.Create(u); err != nil {
		// unique index race: two signups with the same email
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, domain.ErrRegistrationFailed
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, domain.ErrRegistrationFailed
	}
	return u, nil
}

// Login verifies credentials and binds the session. Unknown email and
// wrong password return the same error.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser never treats an absent session as a server error; the
// caller maps a nil user to the unauthenticated response shape.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// Refresh re-validates the session for the periodic liveness ping.
func (s *AuthService) Refresh(sid string) error {
	return s.Users.TouchSession(sid)
}

func (s *AuthService) UpdateProfile(userID string, patch repos.ProfilePatch) (*domain.User, error) {
	if patch.Empty() {
		return nil, domain.Invalid("No updates provided")
	}
	if patch.FullName != nil {
		name, ok := validate.FullName(*patch.FullName)
		if !ok {
			return nil, domain.Invalid("Invalid name")
		}
		patch.FullName = &name
	}
	if err := s.Users.UpdateProfile(userID, patch); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return s.Users.ByID(userID)
}

// GoogleSignIn verifies the federated ID token, then logs in by email
// match or auto-provisions a user with a random unusable password.
func (s *AuthService) GoogleSignIn(ctx context.Context, sid, credential string) (*domain.User, error) {
	if s.Tokens == nil {
		return nil, domain.ErrUnauthenticated
	}
	id, err := s.Tokens.Verify(ctx, credential)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	u, err := s.Users.ByEmail(id.Email)
	switch {
	case err == nil:
		if id.Picture != "" {
			_ = s.Users.SetAvatar(u.ID, id.Picture)
			u.AvatarURL = id.Picture
		}
	case errors.Is(err, sql.ErrNoRows):
		name := id.Name
		if name == "" {
			name = id.Email
		}
		hash, herr := bcrypt.GenerateFromPassword([]byte(randomSecret()), bcrypt.DefaultCost)
		if herr != nil {
			return nil, domain.ErrRegistrationFailed
		}
		u = &domain.User{
			ID:        uuid.NewString(),
			Email:     id.Email,
			FullName:  name,
			Hash:      string(hash),
			AvatarURL: id.Picture,
			Verified:  id.EmailVerified,
		}
		if cerr := s.Users.Create(u); cerr != nil {
			return nil, domain.ErrRegistrationFailed
		}
	default:
		return nil, domain.ErrOperationFailed
	}

	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// randomSecret produces a password nobody can log in with; federated
// accounts authenticate via their provider only.
func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
