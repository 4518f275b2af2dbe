// Package auth implements the fixed three-role login boundary. Credentials
// live in a static in-memory table; sessions for non-guest roles are
// persisted, guest sessions are not, and a guest logout wipes every piece of
// persisted application state as a shared-device privacy measure.
package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"healia/clinic/domain"
	"healia/clinic/internal/database"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

type credential struct {
	hash []byte
	role string
}

// users is the fixed credential table. The pins are hashed once at startup
// so comparisons go through bcrypt like any other login system.
var users = func() map[string]credential {
	fixed := map[string]struct {
		pin  string
		role string
	}{
		"admin":     {"2811", domain.RoleAdmin},
		"reception": {"4632", domain.RoleReception},
		"guest":     {"1234", domain.RoleGuest},
	}
	out := make(map[string]credential, len(fixed))
	for name, c := range fixed {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.pin), bcrypt.DefaultCost)
		if err != nil {
			panic(err)
		}
		out[name] = credential{hash: hash, role: c.role}
	}
	return out
}()

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	db     *sqlx.DB
	secret string
}

func New(db *sqlx.DB, secret string) *Service {
	return &Service{db: db, secret: secret}
}

// Login checks the fixed table and returns a signed token. Non-guest logins
// are recorded in the sessions collection; guest logins never touch durable
// state.
func (s *Service) Login(username, password string) (string, domain.User, error) {
	c, ok := users[username]
	if !ok {
		return "", domain.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(c.hash, []byte(password)) != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(username, c.role)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("generate token: %w", err)
	}

	if c.role != domain.RoleGuest {
		if _, err := s.db.Exec(
			`INSERT INTO sessions (token, username, role, created_at) VALUES (?, ?, ?, ?)`,
			token, username, c.role, time.Now().Format(time.RFC3339),
		); err != nil {
			return "", domain.User{}, fmt.Errorf("persist session: %w", err)
		}
	}

	return token, domain.User{Username: username, Role: c.role}, nil
}

// Logout drops the session. For guests it additionally destroys the entire
// store: sessions, every collection, everything. Intended behavior, not a
// cleanup bug.
func (s *Service) Logout(claims *Claims, token string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}
	if claims.Role == domain.RoleGuest {
		if err := database.Reset(s.db); err != nil {
			return fmt.Errorf("guest wipe: %w", err)
		}
	}
	return nil
}

// SessionUser resolves a persisted session back to its user, for restoring
// a login across restarts.
func (s *Service) SessionUser(token string) (domain.User, error) {
	var sess domain.Session
	err := s.db.Get(&sess, `SELECT id, token, username, role, created_at FROM sessions WHERE token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load session: %w", err)
	}
	return domain.User{Username: sess.Username, Role: sess.Role}, nil
}

func (s *Service) generateToken(username, role string) (string, error) {
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
