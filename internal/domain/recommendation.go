package domain

// Recommendation goals accepted by the remote scoring procedure.
const (
	GoalBalanced = "balanced"
	GoalBerries  = "berries"
	GoalCooking  = "cooking"
	GoalSupport  = "support"
)

// ValidGoal reports whether goal is one the scoring procedure accepts.
func ValidGoal(goal string) bool {
	switch goal {
	case GoalBalanced, GoalBerries, GoalCooking, GoalSupport:
		return true
	}
	return false
}

// RecommendationRequest selects the island and optimization goal.
type RecommendationRequest struct {
	IslandID int    `json:"island_id"`
	Goal     string `json:"goal"`
}

// RecommendationRow is one scored row returned by the remote recommend_team
// procedure. The scoring itself lives server-side; rows are surfaced as-is.
type RecommendationRow struct {
	PokemonBankID    int64   `json:"pokemon_banco_id"`
	Pokemon          string  `json:"pokemon"`
	DexNum           int     `json:"dex_num"`
	Level            *int    `json:"level"`
	Specialty        *string `json:"specialty"`
	Type             *string `json:"tipo"`
	Berry            *string `json:"tipo_berry"`
	MainSkillName    *string `json:"main_skill_nome"`
	IslandBerryMatch bool    `json:"island_berry_match"`
	Score            float64 `json:"score"`
	Reasons          *string `json:"reasons"`
}
