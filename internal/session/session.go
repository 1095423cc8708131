// Package session signs owners up and in and resolves session tokens to
// identities.
//
// Raw tokens are 32 random bytes, base64url encoded. Only their SHA-256 is
// stored. Sessions slide forward when less than a third of their lifetime
// remains.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fincontrol/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// CookieName is the cookie carrying the raw session token.
	CookieName = "session_token"

	DefaultTTL  = 24 * time.Hour
	DefaultCost = 12

	minPasswordLength = 8

	// bcrypt ignores everything after 72 bytes
	maxPasswordBytes = 72
)

var (
	ErrUnauthorized       = errors.New("you need to sign in to access this resource")
	ErrInvalidCredentials = errors.New("the email address or password is not correct")
	ErrInvalidEmail       = errors.New("the email address is not valid")
	ErrPasswordTooShort   = fmt.Errorf("the password must be at least %d characters long", minPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("the password must not be longer than %d bytes", maxPasswordBytes)
)

// Identity is the signed-in owner.
type Identity struct {
	UserID uuid.UUID `json:"id" example:"0bb4d0b6-2c08-4e1c-8d4a-8a51ec0ab4a1"`
	Email  string    `json:"email" example:"ana@example.com"`
}

// Token is a freshly issued session.
type Token struct {
	Value     string
	Identity  Identity
	ExpiresAt time.Time
}

type Gate struct {
	db *gorm.DB

	TTL  time.Duration
	Cost int
	Now  func() time.Time
}

func New(db *gorm.DB, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Gate{
		db:   db,
		TTL:  ttl,
		Cost: DefaultCost,
		Now:  func() time.Time { return time.Now().UTC() },
	}
}

// SignUp creates an account and signs it in.
func (g *Gate) SignUp(ctx context.Context, email, password string) (Token, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Token{}, err
	}

	if err := validatePassword(password); err != nil {
		return Token{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.Cost)
	if err != nil {
		return Token{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Email: email, PasswordHash: string(hash)}
	if err := g.db.WithContext(ctx).Create(&user).Error; err != nil {
		return Token{}, err
	}

	log.Info().Str("owner", user.ID.String()).Msg("sign up")
	return g.issue(ctx, user)
}

// SignIn checks the credentials and issues a new session. Earlier sessions
// of the account are ended.
func (g *Gate) SignIn(ctx context.Context, email, password string) (Token, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Token{}, ErrInvalidCredentials
	}

	var user models.User
	err = g.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return Token{}, ErrInvalidCredentials
	} else if err != nil {
		return Token{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Token{}, ErrInvalidCredentials
	}

	return g.issue(ctx, user)
}

// SignOut ends the session of the token. Unknown tokens are ignored.
func (g *Gate) SignOut(ctx context.Context, token string) error {
	return g.db.WithContext(ctx).Where("token_hash = ?", hashToken(token)).Delete(&models.Session{}).Error
}

// Authenticate resolves a token to its identity and returns the session's
// expiry, which may have been extended.
func (g *Gate) Authenticate(ctx context.Context, token string) (Identity, time.Time, error) {
	if token == "" {
		return Identity{}, time.Time{}, ErrUnauthorized
	}

	db := g.db.WithContext(ctx)
	tokenHash := hashToken(token)

	var session models.Session
	err := db.First(&session, "token_hash = ?", tokenHash).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return Identity{}, time.Time{}, ErrUnauthorized
	} else if err != nil {
		return Identity{}, time.Time{}, err
	}

	now := g.Now()
	if !session.ExpiresAt.After(now) {
		if err := db.Delete(&session).Error; err != nil {
			log.Error().Err(err).Msg("delete expired session")
		}
		return Identity{}, time.Time{}, ErrUnauthorized
	}

	var user models.User
	err = db.First(&user, "id = ?", session.UserID).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return Identity{}, time.Time{}, ErrUnauthorized
	} else if err != nil {
		return Identity{}, time.Time{}, err
	}

	if session.ExpiresAt.Sub(now) < g.TTL/3 {
		session.ExpiresAt = now.Add(g.TTL)
		if err := db.Model(&session).Update("expires_at", session.ExpiresAt).Error; err != nil {
			return Identity{}, time.Time{}, err
		}
	}

	return Identity{UserID: user.ID, Email: user.Email}, session.ExpiresAt.UTC(), nil
}

func (g *Gate) issue(ctx context.Context, user models.User) (Token, error) {
	raw, tokenHash, err := generateToken()
	if err != nil {
		return Token{}, fmt.Errorf("generate session token: %w", err)
	}

	session := models.Session{
		TokenHash: tokenHash,
		UserID:    user.ID,
		ExpiresAt: g.Now().Add(g.TTL),
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}

		return tx.Create(&session).Error
	})
	if err != nil {
		return Token{}, err
	}

	return Token{
		Value:     raw,
		Identity:  Identity{UserID: user.ID, Email: user.Email},
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func generateToken() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	raw := base64.RawURLEncoding.EncodeToString(buf)
	return raw, hashToken(raw), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", ErrInvalidEmail
	}

	return email, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	return nil
}
