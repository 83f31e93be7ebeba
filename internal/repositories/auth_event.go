package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/shared"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const authEventColumns = "id, sequence, kind, detail, created_at"

// AuthEventRepository implements models.Repository[*models.AuthEvent].
type AuthEventRepository struct {
	db *sql.DB
}

// NewAuthEventRepository creates a new AuthEventRepository with the given database connection
func NewAuthEventRepository(db *sql.DB) *AuthEventRepository {
	return &AuthEventRepository{db: db}
}

// Create inserts a new event with generated ID and sequence
func (r *AuthEventRepository) Create(event *models.AuthEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "auth_events")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO auth_events (id, sequence, kind, detail, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, sequence, string(event.Kind()), event.Detail(), event.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert auth event: %w", err)
	}

	event.SetID(id)
	event.SetSequence(sequence)
	return nil
}

// Get retrieves an event by ID
func (r *AuthEventRepository) Get(id string) (*models.AuthEvent, error) {
	row := r.db.QueryRow("SELECT "+authEventColumns+" FROM auth_events WHERE id = ?", id)
	return r.scan(row)
}

// Latest returns the most recent event of kind.
func (r *AuthEventRepository) Latest(kind models.AuthEventKind) (*models.AuthEvent, error) {
	row := r.db.QueryRow("SELECT "+authEventColumns+" FROM auth_events WHERE kind = ? ORDER BY sequence DESC LIMIT 1", string(kind))
	return r.scan(row)
}

// List retrieves events newest first.
//
// Supported criteria: "kind" (string or [models.AuthEventKind]) and "limit" (int).
func (r *AuthEventRepository) List(criteria map[string]any) ([]*models.AuthEvent, error) {
	query := "SELECT " + authEventColumns + " FROM auth_events WHERE 1 = 1"
	args := []any{}

	switch kind := criteria["kind"].(type) {
	case string:
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, kind)
		}
	case models.AuthEventKind:
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, string(kind))
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query auth events: %w", err)
	}
	defer rows.Close()

	events := []*models.AuthEvent{}
	for rows.Next() {
		event, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one row from either [sql.Row] or [sql.Rows].
func (r *AuthEventRepository) scan(s scanner) (*models.AuthEvent, error) {
	var (
		id        string
		sequence  int
		kind      string
		detail    string
		createdAt time.Time
	)

	err := s.Scan(&id, &sequence, &kind, &detail, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auth event %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan auth event: %w", err)
	}

	return models.RestoreAuthEvent(id, sequence, models.AuthEventKind(kind), detail, createdAt), nil
}

var _ models.Repository[*models.AuthEvent] = (*AuthEventRepository)(nil)
