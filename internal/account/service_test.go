package account

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/bytebuddy/companion/internal/models"
	"gorm.io/gorm"
)

var testDBSeq atomic.Uint64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:account_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestRegisterThenAuthenticate(t *testing.T) {
	svc := NewService(openTestDB(t))

	created, err := svc.Register(context.Background(), "Ada", "ada", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if created.PasswordHash == "secret1" {
		t.Fatalf("password must not be stored in plaintext")
	}

	got, err := svc.Authenticate(context.Background(), "ada", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected same account id, got %d want %d", got.ID, created.ID)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := NewService(openTestDB(t))

	first, err := svc.Register(context.Background(), "Ada", "ada", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.Register(context.Background(), "Other", "ada", "secret2")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	// the existing account is untouched
	got, err := svc.Authenticate(context.Background(), "ada", "secret1")
	if err != nil {
		t.Fatalf("authenticate after failed register: %v", err)
	}
	if got.ID != first.ID || got.DisplayName != "Ada" {
		t.Fatalf("existing account altered: %+v", got)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	svc := NewService(openTestDB(t))

	if _, err := svc.Register(context.Background(), "Ada", "ada", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "nobody", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ada", "wrong"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ada", "secret1"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestUsernameIsCaseSensitive(t *testing.T) {
	svc := NewService(openTestDB(t))

	if _, err := svc.Register(context.Background(), "Ada", "ada", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Ada Caps", "Ada", "secret2"); err != nil {
		t.Fatalf("expected distinct-case username to register, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ADA", "secret1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown casing, got %v", err)
	}
}
