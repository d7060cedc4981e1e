package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/repository"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
	"sleepcalc-api/pkg/redis"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// referenceService serves read-only game data through a Redis cache-aside
// layer. A cache outage degrades to direct database reads.
type referenceService struct {
	repo   repository.ReferenceRepository
	redis  *redis.Client
	logger *logger.Logger
}

// NewReferenceService creates a new reference service
func NewReferenceService(repo repository.ReferenceRepository, redisClient *redis.Client, log *logger.Logger) ReferenceService {
	return &referenceService{
		repo:   repo,
		redis:  redisClient,
		logger: log,
	}
}

// GetPokedex retrieves one pokedex page, cached per search and page
func (s *referenceService) GetPokedex(ctx context.Context, search string, page, pageSize int) (*domain.Page[domain.PokemonBase], error) {
	page, pageSize = normalizePage(page, pageSize)
	key := s.redis.KeyBuilder.KeyPokedexPage(search, page, pageSize)

	return cachedPage(ctx, s, key, redis.TTLPokedex, func() (*domain.Page[domain.PokemonBase], error) {
		return s.repo.ListPokedex(ctx, search, page, pageSize)
	})
}

// GetRecipes retrieves one recipe page, cached per type filter and page
func (s *referenceService) GetRecipes(ctx context.Context, recipeType string, page, pageSize int) (*domain.Page[domain.Recipe], error) {
	page, pageSize = normalizePage(page, pageSize)
	key := s.redis.KeyBuilder.KeyRecipesPage(recipeType, page, pageSize)

	return cachedPage(ctx, s, key, redis.TTLRecipes, func() (*domain.Page[domain.Recipe], error) {
		return s.repo.ListRecipes(ctx, recipeType, page, pageSize)
	})
}

// GetIngredients retrieves one ingredient page
func (s *referenceService) GetIngredients(ctx context.Context, page, pageSize int) (*domain.Page[domain.Ingredient], error) {
	page, pageSize = normalizePage(page, pageSize)
	key := s.redis.KeyBuilder.KeyIngredientsPage(page, pageSize)

	return cachedPage(ctx, s, key, redis.TTLIngredients, func() (*domain.Page[domain.Ingredient], error) {
		return s.repo.ListIngredients(ctx, page, pageSize)
	})
}

// GetSkills retrieves both skill tables in one cached response
func (s *referenceService) GetSkills(ctx context.Context) (*domain.SkillsResponse, error) {
	key := s.redis.KeyBuilder.KeySkillsAll()

	return cachedValue(ctx, s, key, redis.TTLSkills, func() (*domain.SkillsResponse, error) {
		mains, err := s.repo.ListMainSkills(ctx)
		if err != nil {
			return nil, err
		}
		subs, err := s.repo.ListSubSkills(ctx)
		if err != nil {
			return nil, err
		}
		return &domain.SkillsResponse{MainSkills: mains, SubSkills: subs}, nil
	})
}

// GetIslands retrieves every island
func (s *referenceService) GetIslands(ctx context.Context) ([]domain.Island, error) {
	key := s.redis.KeyBuilder.KeyIslandsAll()

	islands, err := cachedValue(ctx, s, key, redis.TTLIslands, func() (*[]domain.Island, error) {
		items, err := s.repo.ListIslands(ctx)
		if err != nil {
			return nil, err
		}
		return &items, nil
	})
	if err != nil {
		return nil, err
	}
	return *islands, nil
}

// GetNatures retrieves every nature. The table is tiny and changes never,
// so it rides the skills TTL.
func (s *referenceService) GetNatures(ctx context.Context) ([]domain.Nature, error) {
	key := s.redis.KeyBuilder.KeyCustom("reference:natures:all")

	natures, err := cachedValue(ctx, s, key, redis.TTLSkills, func() (*[]domain.Nature, error) {
		items, err := s.repo.ListNatures(ctx)
		if err != nil {
			return nil, err
		}
		return &items, nil
	})
	if err != nil {
		return nil, err
	}
	return *natures, nil
}

// cachedPage is cachedValue specialized to paginated results.
func cachedPage[T any](ctx context.Context, s *referenceService, key string, ttl time.Duration, load func() (*domain.Page[T], error)) (*domain.Page[T], error) {
	return cachedValue(ctx, s, key, ttl, load)
}

// cachedValue runs the cache-aside pattern: serve the cached JSON when
// present, otherwise load from the database and store the result. Redis
// errors are logged and fall through to the database.
func cachedValue[T any](ctx context.Context, s *referenceService, key string, ttl time.Duration, load func() (*T, error)) (*T, error) {
	raw, err := s.redis.GetWithFallback(ctx, key, ttl, func() (string, error) {
		value, loadErr := load()
		if loadErr != nil {
			return "", loadErr
		}
		encoded, marshalErr := json.Marshal(value)
		if marshalErr != nil {
			return "", fmt.Errorf("failed to marshal reference data: %w", marshalErr)
		}
		return string(encoded), nil
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to load reference data", err)
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		// Corrupt cache entry: drop it and read through once.
		s.logger.WithError(err).WithField("key", key).Warn("Corrupt reference cache entry, reloading")
		_ = s.redis.Delete(ctx, key)
		fresh, loadErr := load()
		if loadErr != nil {
			return nil, errors.NewInternalError("failed to load reference data", loadErr)
		}
		return fresh, nil
	}
	return &value, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
