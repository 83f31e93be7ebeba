package repositories

import (
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every connection to :memory: is a separate database
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "auth_events")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for unknown sequence table")
	}
}

func TestAuthEventRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		event := models.NewAuthEvent(models.EventBootstrap, "wrote oauth.json")

		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
		if event.ID() == "" {
			t.Error("event ID should be set after creation")
		}
		if event.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", event.Sequence())
		}
	})

	t.Run("Create rejects unknown kind", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		if err := repo.Create(models.NewAuthEvent("bogus", "")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		event := models.NewAuthEvent(models.EventInitRejected, "token revoked")
		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		got, err := repo.Get(event.ID())
		if err != nil {
			t.Fatalf("failed to get event: %v", err)
		}
		if got.Kind() != models.EventInitRejected || got.Detail() != "token revoked" {
			t.Errorf("unexpected event %+v", got)
		}
		if !got.CreatedAt().Equal(event.CreatedAt()) {
			t.Errorf("expected created_at %v, got %v", event.CreatedAt(), got.CreatedAt())
		}

		if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List and Latest", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		kinds := []models.AuthEventKind{
			models.EventInitMissing,
			models.EventBootstrap,
			models.EventInitOK,
			models.EventInitMissing,
		}
		for i, kind := range kinds {
			if err := repo.Create(models.NewAuthEvent(kind, string(rune('a'+i)))); err != nil {
				t.Fatalf("failed to create event: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 events, got %d", len(all))
		}
		if all[0].Detail() != "d" || all[3].Detail() != "a" {
			t.Errorf("expected newest first, got %s..%s", all[0].Detail(), all[3].Detail())
		}

		missing, err := repo.List(map[string]any{"kind": models.EventInitMissing})
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(missing) != 2 {
			t.Errorf("expected 2 init_missing events, got %d", len(missing))
		}

		limited, err := repo.List(map[string]any{"kind": "", "limit": 1})
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected 1 event, got %d", len(limited))
		}

		latest, err := repo.Latest(models.EventInitMissing)
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if latest.Detail() != "d" {
			t.Errorf("expected latest detail d, got %s", latest.Detail())
		}

		if _, err := repo.Latest(models.EventInitRejected); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent creates get unique sequences", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := repo.Create(models.NewAuthEvent(models.EventInitOK, "")); err != nil {
					t.Errorf("failed to create event: %v", err)
				}
			}()
		}
		wg.Wait()

		events, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		seen := map[int]bool{}
		for _, e := range events {
			if seen[e.Sequence()] {
				t.Errorf("duplicate sequence %d", e.Sequence())
			}
			seen[e.Sequence()] = true
		}
		if len(seen) != 10 {
			t.Errorf("expected 10 sequences, got %d", len(seen))
		}
	})
}
