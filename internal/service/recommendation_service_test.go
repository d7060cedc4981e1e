package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/logger"
	"sleepcalc-api/pkg/redis"
)

func setupRecommendationService(t *testing.T, handler http.HandlerFunc) (RecommendationService, *miniredis.Miniredis) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		SupabaseURL:     server.URL,
		SupabaseAnonKey: "anon-key",
	}
	return NewRecommendationService(cfg, client, logger.NewNop()), mr
}

func recommendRows() []domain.RecommendationRow {
	return []domain.RecommendationRow{
		{PokemonBankID: 10, Pokemon: "Pikachu", DexNum: 25, IslandBerryMatch: true, Score: 84.5},
		{PokemonBankID: 11, Pokemon: "Snorlax", DexNum: 143, Score: 61.0},
	}
}

func TestRecommendationService_CallsRPCAndCaches(t *testing.T) {
	var calls atomic.Int32
	svc, mr := setupRecommendationService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/rpc/recommend_team", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user-a", body["p_user_id"])
		assert.Equal(t, float64(1), body["p_ilha_id"])
		assert.Equal(t, domain.GoalBerries, body["p_goal"])

		_ = json.NewEncoder(w).Encode(recommendRows())
	})

	req := &domain.RecommendationRequest{IslandID: 1, Goal: domain.GoalBerries}
	rows, err := svc.Recommend(context.Background(), "user-a", req)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pikachu", rows[0].Pokemon)
	assert.True(t, rows[0].IslandBerryMatch)

	require.Eventually(t, func() bool {
		return len(mr.Keys()) == 1
	}, time.Second, 10*time.Millisecond)

	rows, err = svc.Recommend(context.Background(), "user-a", req)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRecommendationService_Validation(t *testing.T) {
	svc, _ := setupRecommendationService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no RPC call expected")
	})

	tests := []struct {
		name   string
		userID string
		req    *domain.RecommendationRequest
	}{
		{name: "missing user", userID: "", req: &domain.RecommendationRequest{IslandID: 1, Goal: domain.GoalBalanced}},
		{name: "nil request", userID: "user-a", req: nil},
		{name: "missing island", userID: "user-a", req: &domain.RecommendationRequest{Goal: domain.GoalBalanced}},
		{name: "unknown goal", userID: "user-a", req: &domain.RecommendationRequest{IslandID: 1, Goal: "speedrun"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Recommend(context.Background(), tt.userID, tt.req)
			assert.Error(t, err)
		})
	}
}

func TestRecommendationService_RPCFailure(t *testing.T) {
	svc, mr := setupRecommendationService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"function recommend_team does not exist"}`, http.StatusNotFound)
	})

	req := &domain.RecommendationRequest{IslandID: 1, Goal: domain.GoalCooking}
	_, err := svc.Recommend(context.Background(), "user-a", req)
	require.Error(t, err)

	// Failures are never cached.
	assert.Empty(t, mr.Keys())
}

func TestRecommendationService_InvalidateUserScopedToOwner(t *testing.T) {
	svc, mr := setupRecommendationService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(recommendRows())
	})
	ctx := context.Background()

	_, err := svc.Recommend(ctx, "user-a", &domain.RecommendationRequest{IslandID: 1, Goal: domain.GoalBerries})
	require.NoError(t, err)
	_, err = svc.Recommend(ctx, "user-b", &domain.RecommendationRequest{IslandID: 1, Goal: domain.GoalBerries})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(mr.Keys()) == 2
	}, time.Second, 10*time.Millisecond)

	svc.InvalidateUser(ctx, "user-a")

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "user-b")
}
