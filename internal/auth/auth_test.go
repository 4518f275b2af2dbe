package auth

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"healia/clinic/domain"
	"healia/clinic/internal/migrations"
)

func newTestService(t *testing.T) (*Service, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	migrations.Run(db)
	return New(db, "test-secret"), db
}

func sessionCount(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM sessions`); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	return n
}

func TestLoginKnownUsers(t *testing.T) {
	svc, db := newTestService(t)

	token, user, err := svc.Login("admin", "2811")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", user.Role)
	}
	if token == "" {
		t.Error("expected signed token")
	}
	if sessionCount(t, db) != 1 {
		t.Error("admin login must persist a session")
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "admin" || claims.Role != domain.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := newTestService(t)

	if _, _, err := svc.Login("admin", "0000"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong pin: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("nobody", "2811"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
	if sessionCount(t, db) != 0 {
		t.Error("failed login must not persist a session")
	}
}

func TestGuestLoginIsNotPersisted(t *testing.T) {
	svc, db := newTestService(t)

	token, user, err := svc.Login("guest", "1234")
	if err != nil {
		t.Fatalf("guest login: %v", err)
	}
	if user.Role != domain.RoleGuest {
		t.Errorf("expected guest role, got %q", user.Role)
	}
	if token == "" {
		t.Error("expected signed token")
	}
	if sessionCount(t, db) != 0 {
		t.Error("guest login must not persist a session")
	}
}

func TestGuestLogoutWipesStore(t *testing.T) {
	svc, db := newTestService(t)

	if _, err := db.Exec(
		`INSERT INTO patients (name, age, contact, address, created_at) VALUES ('Asha', 30, '555', 'X', '2026-01-01T00:00:00Z')`,
	); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	if _, _, err := svc.Login("reception", "4632"); err != nil {
		t.Fatalf("reception login: %v", err)
	}

	token, _, err := svc.Login("guest", "1234")
	if err != nil {
		t.Fatalf("guest login: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if err := svc.Logout(claims, token); err != nil {
		t.Fatalf("guest logout: %v", err)
	}

	var patients int
	if err := db.Get(&patients, `SELECT COUNT(*) FROM patients`); err != nil {
		t.Fatalf("count patients: %v", err)
	}
	if patients != 0 {
		t.Errorf("guest logout must wipe patients, found %d", patients)
	}
	if sessionCount(t, db) != 0 {
		t.Error("guest logout must wipe sessions too")
	}
}

func TestNonGuestLogoutDropsOnlyOwnSession(t *testing.T) {
	svc, db := newTestService(t)

	if _, err := db.Exec(
		`INSERT INTO patients (name, age, contact, address, created_at) VALUES ('Asha', 30, '555', 'X', '2026-01-01T00:00:00Z')`,
	); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	token, _, err := svc.Login("admin", "2811")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if err := svc.Logout(claims, token); err != nil {
		t.Fatalf("admin logout: %v", err)
	}

	if sessionCount(t, db) != 0 {
		t.Error("logout must drop the session")
	}
	var patients int
	if err := db.Get(&patients, `SELECT COUNT(*) FROM patients`); err != nil {
		t.Fatalf("count patients: %v", err)
	}
	if patients != 1 {
		t.Errorf("non-guest logout must keep data, found %d patients", patients)
	}
}

func TestSessionUserRestoresLogin(t *testing.T) {
	svc, _ := newTestService(t)

	token, _, err := svc.Login("reception", "4632")
	if err != nil {
		t.Fatalf("reception login: %v", err)
	}
	user, err := svc.SessionUser(token)
	if err != nil {
		t.Fatalf("session user: %v", err)
	}
	if user.Username != "reception" || user.Role != domain.RoleReception {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := svc.SessionUser("unknown-token"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown token, got %v", err)
	}
}

func TestParseTokenRejectsForgedSignature(t *testing.T) {
	svc, db := newTestService(t)
	other := New(db, "other-secret")

	token, _, err := other.Login("guest", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected rejection of foreign signature, got %v", err)
	}
}
