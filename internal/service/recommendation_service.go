package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
	"sleepcalc-api/pkg/redis"
)

// recommendationService invokes the recommend_team stored procedure over the
// Supabase REST RPC endpoint. Scoring stays server-side; rows come back
// ready to render. Results are cached briefly per user, island and goal.
type recommendationService struct {
	config     *config.Config
	httpClient *http.Client
	redis      *redis.Client
	logger     *logger.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(cfg *config.Config, redisClient *redis.Client, log *logger.Logger) RecommendationService {
	return &recommendationService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		redis:  redisClient,
		logger: log,
	}
}

// Recommend scores the user's bank for an island and goal
func (s *recommendationService) Recommend(ctx context.Context, userID string, req *domain.RecommendationRequest) ([]domain.RecommendationRow, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user id is required", nil)
	}
	if req == nil || req.IslandID <= 0 {
		return nil, errors.NewValidationError("island is required", nil)
	}
	if !domain.ValidGoal(req.Goal) {
		return nil, errors.NewValidationError("unknown goal", map[string]interface{}{
			"goal": req.Goal,
		})
	}

	key := s.redis.KeyBuilder.KeyRecommendation(userID, req.IslandID, req.Goal)
	raw, err := s.redis.GetWithFallback(ctx, key, redis.TTLRecommendation, func() (string, error) {
		return s.callRecommendRPC(ctx, userID, req)
	})
	if err != nil {
		return nil, errors.NewExternalError("failed to score team recommendation", err)
	}

	var rows []domain.RecommendationRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to parse recommendation rows")
		return nil, errors.NewExternalError("invalid recommendation response", err)
	}
	return rows, nil
}

// InvalidateUser drops every cached recommendation for the user. Failures
// only shorten cache freshness, so they are logged and swallowed.
func (s *recommendationService) InvalidateUser(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	pattern := s.redis.KeyBuilder.KeyRecommendationPattern(userID)
	if err := s.redis.InvalidatePattern(ctx, pattern); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate recommendation cache")
	}
}

// callRecommendRPC performs the actual POST to the Supabase RPC endpoint.
func (s *recommendationService) callRecommendRPC(ctx context.Context, userID string, req *domain.RecommendationRequest) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"p_user_id": userID,
		"p_ilha_id": req.IslandID,
		"p_goal":    req.Goal,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal rpc body: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v1/rpc/recommend_team", s.config.SupabaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create rpc request: %w", err)
	}
	httpReq.Header.Set("apikey", s.config.SupabaseAnonKey)
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.config.SupabaseAnonKey))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call recommend_team: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read rpc response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"user_id":     userID,
			"island_id":   req.IslandID,
			"goal":        req.Goal,
		}).Error("recommend_team returned an error")
		return "", fmt.Errorf("recommend_team returned status %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"island_id": req.IslandID,
		"goal":      req.Goal,
	}).Debug("Fetched team recommendation")
	return string(respBody), nil
}
