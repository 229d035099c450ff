package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/musicplayer/platform/internal/core/domain"
	"github.com/musicplayer/platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[int64]*domain.User
	nextID    int64
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *u
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id int64, role string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

type prefixHasher struct{ err error }

func (h prefixHasher) Hash(plaintext string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plaintext, nil
}

func newUserSvc(repo *stubUserRepo) *UserService {
	return NewUserService(repo, prefixHasher{}, zerolog.Nop())
}

func validRegistration() ports.RegisterUserInput {
	return ports.RegisterUserInput{
		Username:  "johndoe",
		Email:     " John.Doe@Example.com ",
		Password:  "password123",
		FirstName: "John",
		LastName:  "Doe",
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestUserService_Register(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected id 1, got %d", user.ID)
	}
	if user.Email != "john.doe@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %q", user.Role)
	}
	if user.PasswordHash != "hashed:password123" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	dup := validRegistration()
	dup.Username = "other"
	if _, err := svc.Register(context.Background(), dup); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Register_InvalidInput(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())

	in := validRegistration()
	in.Password = ""
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_Register_PasswordTooLong(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())

	in := validRegistration()
	// 40 runes, 80 bytes: short enough for a rune count, too long for bcrypt.
	in.Password = strings.Repeat("é", 40)
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	in.Password = strings.Repeat("a", 72)
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("72-byte password should be accepted, got %v", err)
	}
}

func TestUserService_Register_HashFailure(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), prefixHasher{err: errors.New("boom")}, zerolog.Nop())

	if _, err := svc.Register(context.Background(), validRegistration()); !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestUserService_CredentialsByEmail(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())
	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.CredentialsByEmail(context.Background(), "JOHN.DOE@example.com")
	if err != nil {
		t.Fatalf("CredentialsByEmail: %v", err)
	}
	if user.PasswordHash == "" {
		t.Fatalf("expected digest in credential record")
	}

	if _, err := svc.CredentialsByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Get(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())
	created, _ := svc.Register(context.Background(), validRegistration())

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil || got.Username != "johndoe" {
		t.Fatalf("Get: %+v, %v", got, err)
	}
	if _, err := svc.Get(context.Background(), 0); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for id 0, got %v", err)
	}
}

func TestUserService_SetRole(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())
	created, _ := svc.Register(context.Background(), validRegistration())

	updated, err := svc.SetRole(context.Background(), created.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %q", updated.Role)
	}

	if _, err := svc.SetRole(context.Background(), created.ID, "superuser"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SetRole(context.Background(), 99, domain.RoleUser); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())
	created, _ := svc.Register(context.Background(), validRegistration())

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUserService_SeedAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)

	first, err := svc.SeedAdmin(context.Background(), "Admin@Example.com", "admin123")
	if err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	if first.Role != domain.RoleAdmin || first.Username != "admin" {
		t.Fatalf("unexpected seeded user: %+v", first)
	}

	second, err := svc.SeedAdmin(context.Background(), "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("second SeedAdmin: %v", err)
	}
	if second.ID != first.ID || len(repo.byID) != 1 {
		t.Fatalf("expected a single admin, got %d users", len(repo.byID))
	}
}

func TestUserService_SeedAdmin_PromotesExisting(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())
	created, _ := svc.Register(context.Background(), validRegistration())

	seeded, err := svc.SeedAdmin(context.Background(), "john.doe@example.com", "ignored")
	if err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	if seeded.ID != created.ID || seeded.Role != domain.RoleAdmin {
		t.Fatalf("expected existing user promoted, got %+v", seeded)
	}
}
