package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"creatorlabs.app/internal/access"
)

type memProfiles struct {
	byEmail map[string]*Profile
	roles   map[string][]string
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byEmail: make(map[string]*Profile), roles: make(map[string][]string)}
}

func (m *memProfiles) CreateProfile(_ context.Context, p *Profile) error {
	if _, ok := m.byEmail[p.Email]; ok {
		return ErrConflict
	}
	m.byEmail[p.Email] = p
	return nil
}

func (m *memProfiles) FindProfile(_ context.Context, id string) (*Profile, error) {
	for _, p := range m.byEmail {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memProfiles) FindProfileByEmail(_ context.Context, email string) (*Profile, error) {
	p, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) RolesForUser(_ context.Context, userID string) ([]string, error) {
	return m.roles[userID], nil
}

func TestGenerateAndValidate(t *testing.T) {
	svc, err := NewService("test-secret", nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, expiresAt, err := svc.GenerateToken("user-42", []string{"Admin", "viewer", "admin"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	claims, err := svc.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("roles were not deduplicated: %v", claims.Roles)
	}
	if !claims.HasRole("admin") || !claims.HasRole("viewer") {
		t.Fatalf("roles missing: %v", claims.Roles)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	issued, err := NewService("test-secret", nil, WithServiceClock(func() time.Time { return past }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, _, err := issued.GenerateToken("user-42", nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	current, _ := NewService("test-secret", nil)
	if _, err := current.ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	a, _ := NewService("secret-a", nil)
	b, _ := NewService("secret-b", nil)
	token, _, err := a.GenerateToken("user-1", nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := b.ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSignupAndLogin(t *testing.T) {
	store := newMemProfiles()
	svc, err := NewService("test-secret", store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	profile, token, err := svc.Signup(ctx, "Creator@Example.com", "hunter22", "Creator")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if profile.Email != "creator@example.com" {
		t.Fatalf("email not normalized: %s", profile.Email)
	}
	if token == "" {
		t.Fatal("expected signup token")
	}

	store.roles[profile.ID] = []string{RoleAdmin}
	_, token, err = svc.Login(ctx, "creator@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if !claims.HasRole(RoleAdmin) {
		t.Fatalf("admin role missing from login token: %v", claims.Roles)
	}

	if _, _, err := svc.Login(ctx, "creator@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown account, got %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	identity := access.Identity{UserID: "user-7", Admin: true}
	ctx = ContextWithIdentity(ctx, identity)
	got, ok := IdentityFromContext(ctx)
	if !ok || got != identity {
		t.Fatalf("unexpected identity: %+v ok=%v", got, ok)
	}
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("identity found in empty context")
	}

	ctx = ContextWithToken(ctx, "raw-token")
	tok, ok := TokenFromContext(ctx)
	if !ok || tok != "raw-token" {
		t.Fatalf("unexpected token: %s ok=%v", tok, ok)
	}
}
