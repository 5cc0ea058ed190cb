package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw123456" {
		t.Fatalf("hash equals plaintext")
	}
	if !CheckPassword(hash, "pw123456") {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPassword(hash, "pw1234567") {
		t.Fatalf("expected different password to fail")
	}

	again, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if again == hash {
		t.Fatalf("expected salted hashes to differ")
	}
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  u1  ", "pw123456")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "u1" {
		t.Fatalf("got username %q, want trimmed u1", user.Username)
	}
	if user.PasswordHash != "" {
		t.Fatalf("returned user must not carry the password hash")
	}

	stored, err := f.users.GetByUsername(ctx, "u1")
	if err != nil {
		t.Fatalf("lookup stored user: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "pw123456" {
		t.Fatalf("stored password is not hashed: %q", stored.PasswordHash)
	}
	if stored.ID != user.ID {
		t.Fatalf("got id %s, want %s", stored.ID, user.ID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "testuser", "password123"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "testuser", "differentpass")
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{name: "short username", username: "ab", password: "password", want: domain.ErrInvalidUsername},
		{name: "whitespace username", username: "   ", password: "password", want: domain.ErrInvalidUsername},
		{name: "long username", username: strings.Repeat("a", 31), password: "password", want: domain.ErrInvalidUsername},
		{name: "short password", username: "valid", password: "12345", want: domain.ErrInvalidPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.username, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := svc.Register(ctx, strings.Repeat("a", 30), "123456"); err != nil {
		t.Fatalf("boundary lengths should be accepted: %v", err)
	}
}

func TestRegisterLongPassword(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	password := strings.Repeat("p", 73)
	if _, err := svc.Register(ctx, "longpw", password); err != nil {
		t.Fatalf("register with 73-byte password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "longpw", password); err != nil {
		t.Fatalf("authenticate with 73-byte password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "longpw", strings.Repeat("q", 80)); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	multibyte := strings.Repeat("é", 50)
	if _, err := svc.Register(ctx, "unicodepw", multibyte); err != nil {
		t.Fatalf("register with 100-byte password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "unicodepw", multibyte); err != nil {
		t.Fatalf("authenticate with 100-byte password: %v", err)
	}
}

func TestNewUserServicePreparesDummyHash(t *testing.T) {
	f := newFixture(t)
	svc, ok := NewUserService(f.users).(*userService)
	if !ok {
		t.Fatalf("unexpected service type")
	}
	cost, err := bcrypt.Cost([]byte(svc.dummyHash))
	if err != nil {
		t.Fatalf("dummy hash is not a bcrypt hash: %v", err)
	}
	if cost != PasswordCost {
		t.Fatalf("got cost %d, want %d", cost, PasswordCost)
	}
}

func TestCheckPasswordTruncatesLikeHash(t *testing.T) {
	long := strings.Repeat("x", 72)
	hash, err := HashPassword(long + "tail")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, long+"tail") {
		t.Fatalf("expected long password to match its hash")
	}
	if !CheckPassword(hash, long) {
		t.Fatalf("expected only the first 72 bytes to be significant")
	}
	if CheckPassword(hash, long[:71]) {
		t.Fatalf("expected 71-byte prefix to fail")
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "testuser", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "testuser", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != registered.ID || user.Username != "testuser" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatalf("authenticated user must not carry the password hash")
	}

	_, wrongPassword := svc.Authenticate(ctx, "testuser", "wrongpassword")
	_, unknownUser := svc.Authenticate(ctx, "nonexistent", "password123")
	_, empty := svc.Authenticate(ctx, "", "")
	for _, err := range []error{wrongPassword, unknownUser, empty} {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestGetByIDStripsHash(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "carol", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	user, err := svc.GetByID(ctx, registered.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if user.Username != "carol" || user.PasswordHash != "" {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, err := svc.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// racingUsers simulates a concurrent registration that wins between the
// existence check and the insert.
type racingUsers struct {
	repository.UserRepository
}

func (racingUsers) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (racingUsers) Create(_ context.Context, user *domain.User) error {
	return fmt.Errorf("insert user %q: %w", user.Username, domain.ErrUserAlreadyExists)
}

func TestRegisterMapsConstraintViolation(t *testing.T) {
	svc := NewUserService(racingUsers{})
	_, err := svc.Register(context.Background(), "racer", "password123")
	if err != domain.ErrUserAlreadyExists {
		t.Fatalf("got %v, want ErrUserAlreadyExists", err)
	}
}
