package repository

import (
	"context"
	"fmt"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/database"
)

// referenceRepository handles read-only reference data with PostgreSQL
type referenceRepository struct {
	db *database.PostgresDB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *database.PostgresDB) ReferenceRepository {
	return &referenceRepository{
		db: db,
	}
}

// ListPokedex retrieves a pokedex page with its joined type, berry and main
// skill. search filters by name, case-insensitive.
func (r *referenceRepository) ListPokedex(ctx context.Context, search string, page, pageSize int) (*domain.Page[domain.PokemonBase], error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = "WHERE pb.pokemon ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM pokemon_base pb %s", where)
	if err := r.db.GetReadPool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count pokedex rows: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT pb.id, pb.pokemon, pb.dex_num, pb.specialty, pb.sleep_type,
			   pb.carry_base, pb.frequency,
			   t.tipo, t.berry,
			   ms.id, ms.nome
		FROM pokemon_base pb
		LEFT JOIN types t ON t.id = pb.type
		LEFT JOIN main_skills ms ON ms.id = pb.main_skill
		%s
		ORDER BY pb.dex_num ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.GetReadPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pokedex rows: %w", err)
	}
	defer rows.Close()

	var items []domain.PokemonBase
	ids := []int64{}
	for rows.Next() {
		p := domain.PokemonBase{}
		err := rows.Scan(
			&p.ID, &p.Name, &p.DexNum, &p.Specialty, &p.SleepType,
			&p.CarryBase, &p.Frequency,
			&p.Type, &p.Berry,
			&p.MainSkillID, &p.MainSkillName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pokedex row: %w", err)
		}
		items = append(items, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading pokedex rows: %w", err)
	}

	if len(ids) > 0 {
		if err := r.attachPokemonIngredients(ctx, items, ids); err != nil {
			return nil, err
		}
	}

	return &domain.Page[domain.PokemonBase]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// attachPokemonIngredients fills the ingredient names for one pokedex page.
func (r *referenceRepository) attachPokemonIngredients(ctx context.Context, pokemon []domain.PokemonBase, ids []int64) error {
	query := `
		SELECT pi.id_pokemon, i.nome
		FROM pokemon_ingrediente pi
		JOIN ingredientes i ON i.id = pi.id_ingrediente
		WHERE pi.id_pokemon = ANY($1)
		ORDER BY pi.id ASC
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query pokemon ingredients: %w", err)
	}
	defer rows.Close()

	byPokemon := make(map[int64][]string, len(ids))
	for rows.Next() {
		var pokemonID int64
		var name string
		if err := rows.Scan(&pokemonID, &name); err != nil {
			return fmt.Errorf("failed to scan pokemon ingredient row: %w", err)
		}
		byPokemon[pokemonID] = append(byPokemon[pokemonID], name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error reading pokemon ingredient rows: %w", err)
	}

	for i := range pokemon {
		pokemon[i].Ingredients = byPokemon[pokemon[i].ID]
	}
	return nil
}

// ListRecipes retrieves a recipe page, filtered before paginating so type
// filters and counts stay consistent.
func (r *referenceRepository) ListRecipes(ctx context.Context, recipeType string, page, pageSize int) (*domain.Page[domain.Recipe], error) {
	where := ""
	args := []interface{}{}
	if recipeType != "" && recipeType != "all" {
		where = "WHERE rc.tipo = $1"
		args = append(args, recipeType)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM receitas rc %s", where)
	if err := r.db.GetReadPool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count recipe rows: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT rc.id, rc.nome, rc.tipo, rc.energia_base
		FROM receitas rc
		%s
		ORDER BY rc.id ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.GetReadPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe rows: %w", err)
	}
	defer rows.Close()

	var items []domain.Recipe
	ids := []int64{}
	for rows.Next() {
		rec := domain.Recipe{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Type, &rec.EnergyBase); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		items = append(items, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading recipe rows: %w", err)
	}

	if len(ids) > 0 {
		if err := r.attachRecipeIngredients(ctx, items, ids); err != nil {
			return nil, err
		}
	}

	return &domain.Page[domain.Recipe]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// attachRecipeIngredients fills the ingredient lists for one recipe page.
func (r *referenceRepository) attachRecipeIngredients(ctx context.Context, recipes []domain.Recipe, ids []int64) error {
	query := `
		SELECT ri.id_receita, ri.id, ri.quantidade, i.nome
		FROM receita_ingredientes ri
		JOIN ingredientes i ON i.id = ri.id_ingrediente
		WHERE ri.id_receita = ANY($1)
		ORDER BY ri.id ASC
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer rows.Close()

	byRecipe := make(map[int64][]domain.RecipeIngredient, len(ids))
	for rows.Next() {
		var recipeID int64
		ing := domain.RecipeIngredient{}
		if err := rows.Scan(&recipeID, &ing.ID, &ing.Quantity, &ing.IngredientName); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient row: %w", err)
		}
		byRecipe[recipeID] = append(byRecipe[recipeID], ing)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error reading recipe ingredient rows: %w", err)
	}

	for i := range recipes {
		recipes[i].Ingredients = byRecipe[recipes[i].ID]
	}
	return nil
}

// ListIngredients retrieves an ingredient page with an exact count
func (r *referenceRepository) ListIngredients(ctx context.Context, page, pageSize int) (*domain.Page[domain.Ingredient], error) {
	var total int
	if err := r.db.GetReadPool().QueryRow(ctx, "SELECT COUNT(*) FROM ingredientes").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count ingredient rows: %w", err)
	}

	query := `
		SELECT id, nome, raridade
		FROM ingredientes
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredient rows: %w", err)
	}
	defer rows.Close()

	var items []domain.Ingredient
	for rows.Next() {
		ing := domain.Ingredient{}
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Rarity); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient row: %w", err)
		}
		items = append(items, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading ingredient rows: %w", err)
	}

	return &domain.Page[domain.Ingredient]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// ListMainSkills retrieves every main skill
func (r *referenceRepository) ListMainSkills(ctx context.Context) ([]domain.MainSkill, error) {
	query := `SELECT id, nome, descricao, informacao FROM main_skills ORDER BY id ASC`

	rows, err := r.db.GetReadPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query main skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.MainSkill
	for rows.Next() {
		s := domain.MainSkill{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Info); err != nil {
			return nil, fmt.Errorf("failed to scan main skill row: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading main skill rows: %w", err)
	}

	return skills, nil
}

// ListSubSkills retrieves every sub skill
func (r *referenceRepository) ListSubSkills(ctx context.Context) ([]domain.SubSkill, error) {
	query := `SELECT id, nome, qualidade, efeito, informacao FROM sub_skills ORDER BY id ASC`

	rows, err := r.db.GetReadPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.SubSkill
	for rows.Next() {
		s := domain.SubSkill{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Quality, &s.Effect, &s.Info); err != nil {
			return nil, fmt.Errorf("failed to scan sub skill row: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading sub skill rows: %w", err)
	}

	return skills, nil
}

// ListIslands retrieves every island
func (r *referenceRepository) ListIslands(ctx context.Context) ([]domain.Island, error) {
	query := `SELECT id, nome, berries, bonus FROM ilhas ORDER BY id ASC`

	rows, err := r.db.GetReadPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query islands: %w", err)
	}
	defer rows.Close()

	var islands []domain.Island
	for rows.Next() {
		island := domain.Island{}
		if err := rows.Scan(&island.ID, &island.Name, &island.Berries, &island.Bonus); err != nil {
			return nil, fmt.Errorf("failed to scan island row: %w", err)
		}
		islands = append(islands, island)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading island rows: %w", err)
	}

	return islands, nil
}

// ListNatures retrieves every nature, alphabetical like the picker shows them
func (r *referenceRepository) ListNatures(ctx context.Context) ([]domain.Nature, error) {
	query := `SELECT id, nome FROM natures ORDER BY nome ASC`

	rows, err := r.db.GetReadPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query natures: %w", err)
	}
	defer rows.Close()

	var natures []domain.Nature
	for rows.Next() {
		n := domain.Nature{}
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("failed to scan nature row: %w", err)
		}
		natures = append(natures, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading nature rows: %w", err)
	}

	return natures, nil
}
