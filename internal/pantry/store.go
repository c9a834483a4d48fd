// Package pantry owns the per-user ingredient quantities the availability
// matcher runs against.
package pantry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"recetario/internal/recipe"
)

var (
	ErrNotFound       = errors.New("pantry entry not found")
	ErrDuplicate      = errors.New("pantry entry already exists")
	ErrIngredientGone = errors.New("ingredient does not exist")
)

// Entry is one owned ingredient with its quantity and unit. Name is resolved
// to the request language by List.
type Entry struct {
	IngredientID int64   `db:"ingredient_id" json:"ingredient_id"`
	Name         string  `db:"name" json:"name"`
	Quantity     float64 `db:"quantity" json:"quantity"`
	Unit         string  `db:"unit" json:"unit"`
}

// PostgresStore persists pantry entries in the user_ingredients table.
type PostgresStore struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS user_ingredients (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
	quantity NUMERIC(8,2) NOT NULL CHECK (quantity >= 0),
	unit VARCHAR(20) NOT NULL,
	UNIQUE (user_id, ingredient_id)
);
`

// NewPostgresStore creates the user_ingredients table if needed. The users
// and ingredients tables must exist first.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create pantry table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// List returns the user's pantry with ingredient names resolved to lang,
// falling back to the canonical name.
func (s *PostgresStore) List(ctx context.Context, userID int64, lang string) ([]Entry, error) {
	var entries []Entry
	err := s.db.SelectContext(ctx, &entries,
		`SELECT ui.ingredient_id,
			COALESCE(it.name, i.name) AS name,
			ui.quantity, ui.unit
		FROM user_ingredients ui
		JOIN ingredients i ON i.id = ui.ingredient_id
		LEFT JOIN ingredient_translations it ON it.ingredient_id = ui.ingredient_id AND it.language = $2
		WHERE ui.user_id = $1
		ORDER BY ui.ingredient_id`,
		userID, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}
	return entries, nil
}

// Map returns the pantry keyed by ingredient id, the shape the availability
// matcher consumes.
func (s *PostgresStore) Map(ctx context.Context, userID int64) (map[int64]recipe.PantryQuantity, error) {
	var rows []struct {
		IngredientID int64   `db:"ingredient_id"`
		Quantity     float64 `db:"quantity"`
		Unit         string  `db:"unit"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT ingredient_id, quantity, unit FROM user_ingredients WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pantry: %w", err)
	}
	pantry := make(map[int64]recipe.PantryQuantity, len(rows))
	for _, row := range rows {
		pantry[row.IngredientID] = recipe.PantryQuantity{Quantity: row.Quantity, Unit: row.Unit}
	}
	return pantry, nil
}

// Add creates the (user, ingredient) entry. A second add for the same
// ingredient is ErrDuplicate; an unknown ingredient is ErrIngredientGone.
func (s *PostgresStore) Add(ctx context.Context, userID, ingredientID int64, quantity float64, unit string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO user_ingredients (user_id, ingredient_id, quantity, unit) VALUES ($1, $2, $3, $4)",
		userID, ingredientID, quantity, unit)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrDuplicate
			case "23503":
				return ErrIngredientGone
			}
		}
		return fmt.Errorf("failed to add pantry entry: %w", err)
	}
	return nil
}

// Update mutates quantity and/or unit in place; nil leaves a field unchanged.
func (s *PostgresStore) Update(ctx context.Context, userID, ingredientID int64, quantity *float64, unit *string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_ingredients
		SET quantity = COALESCE($3, quantity), unit = COALESCE($4, unit)
		WHERE user_id = $1 AND ingredient_id = $2`,
		userID, ingredientID, quantity, unit)
	if err != nil {
		return fmt.Errorf("failed to update pantry entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes one entry; ErrNotFound when the user does not own the
// ingredient.
func (s *PostgresStore) Remove(ctx context.Context, userID, ingredientID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_ingredients WHERE user_id = $1 AND ingredient_id = $2", userID, ingredientID)
	if err != nil {
		return fmt.Errorf("failed to remove pantry entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveAll empties the user's pantry in a single statement.
func (s *PostgresStore) RemoveAll(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM user_ingredients WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear pantry: %w", err)
	}
	return nil
}
