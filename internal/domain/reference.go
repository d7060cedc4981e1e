package domain

// Ingredient is one ingredientes row.
type Ingredient struct {
	ID     int64   `json:"id"`
	Name   string  `json:"nome"`
	Rarity *string `json:"raridade"`
}

// RecipeIngredient is one receita_ingredientes row joined with its name.
type RecipeIngredient struct {
	ID             int64  `json:"id"`
	Quantity       int    `json:"quantidade"`
	IngredientName string `json:"ingrediente"`
}

// Recipe is one receitas row with its ingredient list.
type Recipe struct {
	ID          int64              `json:"id"`
	Name        string             `json:"nome"`
	Type        string             `json:"tipo"`
	EnergyBase  *int               `json:"energia_base"`
	Ingredients []RecipeIngredient `json:"ingredientes"`
}

// MainSkill is one main_skills row.
type MainSkill struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description *string `json:"descricao"`
	Info        *string `json:"informacao"`
}

// SubSkill is one sub_skills row.
type SubSkill struct {
	ID      int64   `json:"id"`
	Name    string  `json:"nome"`
	Quality *string `json:"qualidade"`
	Effect  *string `json:"efeito"`
	Info    *string `json:"informacao"`
}

// SkillsResponse bundles both skill tables for the single skills endpoint.
type SkillsResponse struct {
	MainSkills []MainSkill `json:"main_skills"`
	SubSkills  []SubSkill  `json:"sub_skills"`
}

// Island is one ilhas row. Berries is the comma-separated berry list the
// recommendation procedure matches against.
type Island struct {
	ID      int64   `json:"id"`
	Name    *string `json:"nome"`
	Berries *string `json:"berries"`
	Bonus   *int    `json:"bonus"`
}

// Page wraps a list response with its exact total for pagination.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
