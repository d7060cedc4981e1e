package repository

import (
	"context"
	"fmt"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

// teamRepository handles team slot operations with PostgreSQL
type teamRepository struct {
	db *database.PostgresDB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.PostgresDB) TeamRepository {
	return &teamRepository{
		db: db,
	}
}

// GetSlots retrieves the user's slots ordered by slot number
func (r *teamRepository) GetSlots(ctx context.Context, userID string) ([]domain.TeamSlot, error) {
	query := `
		SELECT user_id, slot, pokemon_banco_id
		FROM user_team_slots
		WHERE user_id = $1
		ORDER BY slot ASC
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.TeamSlot
	for rows.Next() {
		slot := domain.TeamSlot{}
		if err := rows.Scan(&slot.UserID, &slot.Slot, &slot.PokemonBankID); err != nil {
			return nil, fmt.Errorf("failed to scan team slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading team slot rows: %w", err)
	}

	return slots, nil
}

// EnsureSlots idempotently creates any missing slots 1..TeamSlotCount.
// ON CONFLICT DO NOTHING keeps repeated bootstraps harmless.
func (r *teamRepository) EnsureSlots(ctx context.Context, userID string) error {
	query := `
		INSERT INTO user_team_slots (user_id, slot, pokemon_banco_id)
		SELECT $1, s, NULL
		FROM generate_series(1, $2) AS s
		ON CONFLICT (user_id, slot) DO NOTHING
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, domain.TeamSlotCount); err != nil {
		return fmt.Errorf("failed to ensure team slots: %w", err)
	}
	return nil
}

// SetSlot assigns a bank entry to a slot; nil clears it
func (r *teamRepository) SetSlot(ctx context.Context, userID string, slot int, bankID *int64) error {
	query := `
		INSERT INTO user_team_slots (user_id, slot, pokemon_banco_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, slot) DO UPDATE SET
			pokemon_banco_id = EXCLUDED.pokemon_banco_id
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, slot, bankID); err != nil {
		return fmt.Errorf("failed to set team slot: %w", err)
	}
	return nil
}

// SwapSlots exchanges the contents of two slots inside one transaction.
func (r *teamRepository) SwapSlots(ctx context.Context, userID string, slotA, slotB int) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		query := `
			SELECT slot, pokemon_banco_id
			FROM user_team_slots
			WHERE user_id = $1 AND slot = ANY($2)
			FOR UPDATE
		`

		rows, err := tx.Query(ctx, query, userID, []int{slotA, slotB})
		if err != nil {
			return fmt.Errorf("failed to lock team slots: %w", err)
		}

		contents := make(map[int]*int64, 2)
		for rows.Next() {
			var slot int
			var bankID *int64
			if err := rows.Scan(&slot, &bankID); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan team slot row: %w", err)
			}
			contents[slot] = bankID
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error reading team slot rows: %w", err)
		}

		upsert := `
			INSERT INTO user_team_slots (user_id, slot, pokemon_banco_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, slot) DO UPDATE SET
				pokemon_banco_id = EXCLUDED.pokemon_banco_id
		`

		if _, err := tx.Exec(ctx, upsert, userID, slotA, contents[slotB]); err != nil {
			return fmt.Errorf("failed to write slot %d: %w", slotA, err)
		}
		if _, err := tx.Exec(ctx, upsert, userID, slotB, contents[slotA]); err != nil {
			return fmt.Errorf("failed to write slot %d: %w", slotB, err)
		}
		return nil
	})
}
