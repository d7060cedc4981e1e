package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilder_EnvironmentPrefix(t *testing.T) {
	tests := []struct {
		environment string
		expected    string
	}{
		{"production", "prod"},
		{"prod", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"test", "staging"},
		{"", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expected, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_Keys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:profile:current", kb.KeyProfileSlot())
	assert.Equal(t, "prod:reference:islands:all", kb.KeyIslandsAll())
	assert.Equal(t, "prod:reference:recipes:curry:2:20", kb.KeyRecipesPage("curry", 2, 20))
	assert.Equal(t, "prod:reference:ingredients:1:50", kb.KeyIngredientsPage(1, 50))
	assert.Equal(t, "prod:reference:skills:all", kb.KeySkillsAll())
	assert.Equal(t, "prod:reference:pokedex:pika:1:20", kb.KeyPokedexPage("pika", 1, 20))
	assert.Equal(t, "prod:recommend:user-1:3:berries", kb.KeyRecommendation("user-1", 3, "berries"))
	assert.Equal(t, "prod:recommend:user-1:*", kb.KeyRecommendationPattern("user-1"))
}

func TestKeyBuilder_RecommendationPatternMatchesKeys(t *testing.T) {
	kb := NewKeyBuilder("staging")

	key := kb.KeyRecommendation("user-1", 2, "balanced")
	pattern := kb.KeyRecommendationPattern("user-1")

	assert.Equal(t, "staging:recommend:user-1:2:balanced", key)
	assert.Equal(t, "staging:recommend:user-1:*", pattern)

	otherUser := kb.KeyRecommendation("user-2", 2, "balanced")
	assert.NotContains(t, otherUser, "recommend:user-1:")
}
