package userstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/linkard/internal/app/system/authutil"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/linkard/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func newTestUser(email string) models.User {
	hash, _ := authutil.HashPassword("hunter22")
	return models.User{
		FullName:     "Ada Lovelace",
		Email:        email,
		AuthMethod:   models.AuthMethodPassword,
		PasswordHash: &hash,
	}
}

func TestCreateAndGetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newTestUser("ada@example.com"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("Create() did not assign an ID")
	}
	if created.Status != models.StatusActive {
		t.Errorf("Status = %q, want %q", created.Status, models.StatusActive)
	}

	got, err := store.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.FullName != "Ada Lovelace" {
		t.Errorf("FullName = %q", got.FullName)
	}
}

func TestGetByEmail_Normalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newTestUser("ada@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.GetByEmail(ctx, "  ADA@Example.COM ")
	if err != nil {
		t.Fatalf("GetByEmail() should match case-insensitively: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "ada@example.com")
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByEmail() error = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newTestUser("dup@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := store.Create(ctx, newTestUser("DUP@example.com"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestCreate_RejectsBadAuthMethod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := newTestUser("bad@example.com")
	u.AuthMethod = "carrier-pigeon"
	if _, err := store.Create(ctx, u); err == nil {
		t.Error("Create() should reject an unknown auth method")
	}
}

func TestGetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newTestUser("byid@example.com"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil || got.Email != "byid@example.com" {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestUpdateFromInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newTestUser("update@example.com"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newName := "Ada King"
	if err := store.UpdateFromInput(ctx, created.ID, UpdateInput{FullName: &newName}); err != nil {
		t.Fatalf("UpdateFromInput() error = %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FullName != "Ada King" {
		t.Errorf("FullName = %q, want %q", got.FullName, "Ada King")
	}
	// Fields not named in the input are untouched.
	if got.Email != "update@example.com" {
		t.Errorf("Email changed unexpectedly: %q", got.Email)
	}
}

func TestExistsByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newTestUser("exists@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ok, err := store.ExistsByEmail(ctx, "exists@example.com")
	if err != nil {
		t.Fatalf("ExistsByEmail() error = %v", err)
	}
	if !ok {
		t.Error("ExistsByEmail() = false for existing user")
	}

	ok, err = store.ExistsByEmail(ctx, "absent@example.com")
	if err != nil {
		t.Fatalf("ExistsByEmail() error = %v", err)
	}
	if ok {
		t.Error("ExistsByEmail() = true for absent user")
	}
}
