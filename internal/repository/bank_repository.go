package repository

import (
	"context"
	"fmt"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/database"
)

// bankRepository handles user-owned pokemon operations with PostgreSQL
type bankRepository struct {
	db *database.PostgresDB
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *database.PostgresDB) BankRepository {
	return &bankRepository{
		db: db,
	}
}

// ListByUser retrieves the user's bank joined with base data and nature,
// highest level first.
func (r *bankRepository) ListByUser(ctx context.Context, userID string) ([]domain.BankEntry, error) {
	query := `
		SELECT b.id, b.user_id, b.id_base, b.level, b.nature, b.is_shiny,
			   b.gold_seed, b.hab_level,
			   pb.pokemon, pb.dex_num, pb.specialty,
			   n.nome
		FROM pokemon_banco b
		JOIN pokemon_base pb ON pb.id = b.id_base
		LEFT JOIN natures n ON n.id = b.nature
		WHERE b.user_id = $1
		ORDER BY b.level DESC NULLS LAST, b.id ASC
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.BankEntry
	for rows.Next() {
		entry := domain.BankEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.BaseID,
			&entry.Level,
			&entry.NatureID,
			&entry.IsShiny,
			&entry.GoldSeed,
			&entry.HabLevel,
			&entry.PokemonName,
			&entry.DexNum,
			&entry.Specialty,
			&entry.NatureName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank entry row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading bank entry rows: %w", err)
	}

	return entries, nil
}

// Create inserts a new bank entry for the user
func (r *bankRepository) Create(ctx context.Context, userID string, req *domain.SaveBankEntryRequest) (int64, error) {
	query := `
		INSERT INTO pokemon_banco (user_id, id_base, level, nature, is_shiny, gold_seed, hab_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		userID, req.BaseID, req.Level, req.NatureID, req.IsShiny, req.GoldSeed, req.HabLevel,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create bank entry: %w", err)
	}

	return id, nil
}

// Update updates an entry, scoped by both id and user_id so one user can
// never touch another's rows.
func (r *bankRepository) Update(ctx context.Context, userID string, id int64, req *domain.SaveBankEntryRequest) error {
	query := `
		UPDATE pokemon_banco
		SET id_base = $3, level = $4, nature = $5, is_shiny = $6,
			gold_seed = $7, hab_level = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Pool.Exec(ctx, query,
		id, userID, req.BaseID, req.Level, req.NatureID, req.IsShiny, req.GoldSeed, req.HabLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bank entry %d: %w", id, ErrNotFound)
	}

	return nil
}

// Delete removes an entry, scoped by both id and user_id
func (r *bankRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `DELETE FROM pokemon_banco WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bank entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bank entry %d: %w", id, ErrNotFound)
	}

	return nil
}
