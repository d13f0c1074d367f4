package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"dupp-api/internal/domain"

	"github.com/google/uuid"
)

func seedUser(t *testing.T, role string, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := testDB.Exec(`
		INSERT INTO users (id, email, role, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, id.String()+"@dupp.test", role, createdAt)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

func TestUserFindByID(t *testing.T) {
	truncateCatalog(t)
	repo := NewUserRepository(testDB)

	id := seedUser(t, domain.RoleAdmin, time.Now().UTC().Truncate(time.Second))

	user, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if user.ID != id || user.Role != domain.RoleAdmin {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUserFindByIDNotFound(t *testing.T) {
	truncateCatalog(t)
	repo := NewUserRepository(testDB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
