package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/vendacell/fiado-engine/internal/config"
	"github.com/vendacell/fiado-engine/internal/repository"
	customError "github.com/vendacell/fiado-engine/pkg/errors"
)

// CommissionService resolves the commission percentage a seller earns at a
// given store. Rates come from the store configuration table; unknown stores
// fall back to the configured default rate.
type CommissionService struct {
	storeRepo repository.StoreRepository
	redis     *redis.Client
	config    *config.Config
}

func NewCommissionService(storeRepo repository.StoreRepository, redis *redis.Client, config *config.Config) *CommissionService {
	return &CommissionService{
		storeRepo: storeRepo,
		redis:     redis,
		config:    config,
	}
}

// GetCommissionPercent returns the commission rate configured for a store.
// Lookups are cached in Redis; cache failures fall through to the database.
func (s *CommissionService) GetCommissionPercent(ctx context.Context, storeRef string) (decimal.Decimal, error) {
	cacheKey := commissionCacheKey(storeRef)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			if pct, parseErr := decimal.NewFromString(cached); parseErr == nil {
				return pct, nil
			}
		}
	}

	store, err := s.storeRepo.GetByStoreRef(ctx, storeRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.config.GetDefaultCommissionPercent(), nil
		}
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, cacheKey, store.CommissionPercent.String(), s.commissionCacheTTL()).Err(); err != nil {
			log.Printf("Failed to cache commission for store %s: %v", storeRef, customError.WrapCacheError(err))
		}
	}

	return store.CommissionPercent, nil
}

func (s *CommissionService) commissionCacheTTL() time.Duration {
	if s.config == nil {
		return time.Hour
	}
	return s.config.GetCommissionCacheTTL()
}

func commissionCacheKey(storeRef string) string {
	return fmt.Sprintf("commission:%s", storeRef)
}
