package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"replyhint/internal/models"
)

// KeyValueRepository is the persisted settings store port. Values are opaque
// JSON documents scoped by a namespace key.
type KeyValueRepository interface {
	// Get returns the stored value for key, with found=false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

type kvRepository struct {
	db *gorm.DB
}

func NewKeyValueRepository(db *gorm.DB) KeyValueRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	if err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: string(value)}
	return r.db.WithContext(ctx).Save(&entry).Error
}
