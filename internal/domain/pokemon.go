package domain

// PokemonBase is one pokedex row from pokemon_base with its joined type,
// berry and main skill.
type PokemonBase struct {
	ID        int64   `json:"id"`
	Name      string  `json:"pokemon"`
	DexNum    int     `json:"dex_num"`
	Specialty *string `json:"specialty"`
	SleepType *string `json:"sleep_type"`
	CarryBase *int    `json:"carry_base"`
	Frequency *int    `json:"frequency"`
	Type      *string `json:"tipo"`
	Berry     *string `json:"berry"`

	MainSkillID   *int64  `json:"main_skill_id"`
	MainSkillName *string `json:"main_skill_nome"`

	Ingredients []string `json:"ingredientes,omitempty"`
}

// Nature is one natures row.
type Nature struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// BankEntry is one user-owned pokemon_banco row joined with its base data
// and nature.
type BankEntry struct {
	ID       int64  `json:"id"`
	UserID   string `json:"user_id"`
	BaseID   int64  `json:"id_base"`
	Level    *int   `json:"level"`
	NatureID *int64 `json:"nature"`
	IsShiny  bool   `json:"is_shiny"`
	GoldSeed *int   `json:"gold_seed"`
	HabLevel *int   `json:"hab_level"`

	PokemonName string  `json:"pokemon"`
	DexNum      int     `json:"dex_num"`
	Specialty   *string `json:"specialty"`
	NatureName  *string `json:"nature_nome"`
}

// SaveBankEntryRequest carries the add/edit form fields for a bank entry.
type SaveBankEntryRequest struct {
	BaseID   int64  `json:"id_base"`
	Level    *int   `json:"level"`
	NatureID *int64 `json:"nature"`
	IsShiny  bool   `json:"is_shiny"`
	GoldSeed *int   `json:"gold_seed"`
	HabLevel *int   `json:"hab_level"`
}
