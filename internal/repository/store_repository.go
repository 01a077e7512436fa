package repository

import (
	"context"

	"github.com/vendacell/fiado-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type storeRepository struct {
	db *sqlx.DB
}

func NewStoreRepository(db *sqlx.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByStoreRef(ctx context.Context, storeRef string) (*domain.StoreConfig, error) {
	query := `
		SELECT store_ref, name, commission_percent, created_at, updated_at
		FROM store_configs
		WHERE store_ref = $1
	`

	var store domain.StoreConfig
	err := r.db.GetContext(ctx, &store, query, storeRef)
	if err != nil {
		return nil, err
	}

	return &store, nil
}
