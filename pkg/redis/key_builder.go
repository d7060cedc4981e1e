package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Profile key builders
func (kb *KeyBuilder) KeyProfileSlot() string {
	return kb.BuildKey(KeyProfileSlot)
}

// Reference data key builders
func (kb *KeyBuilder) KeyIslandsAll() string {
	return kb.BuildKey(KeyIslandsAll)
}

func (kb *KeyBuilder) KeyRecipesPage(recipeType string, page, size int) string {
	return kb.BuildKey(fmt.Sprintf(KeyRecipesPage, recipeType, page, size))
}

func (kb *KeyBuilder) KeyIngredientsPage(page, size int) string {
	return kb.BuildKey(fmt.Sprintf(KeyIngredientsAll, page, size))
}

func (kb *KeyBuilder) KeySkillsAll() string {
	return kb.BuildKey(KeySkillsAll)
}

func (kb *KeyBuilder) KeyPokedexPage(search string, page, size int) string {
	return kb.BuildKey(fmt.Sprintf(KeyPokedexPage, search, page, size))
}

// Recommendation key builders
func (kb *KeyBuilder) KeyRecommendation(userID string, islandID int, goal string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRecommendation, userID, islandID, goal))
}

// KeyRecommendationPattern matches every cached recommendation for a user,
// used for invalidation after bank or team edits.
func (kb *KeyBuilder) KeyRecommendationPattern(userID string) string {
	return kb.BuildKey(fmt.Sprintf("recommend:%s:*", userID))
}

// Generic key builders for custom patterns
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
