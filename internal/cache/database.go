package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kidzstudio/examportal/internal/models"
)

var errDatabaseStoreNil = errors.New("cache: database store not initialised")

// DatabaseStore implements Store on top of the primary SQL database.
type DatabaseStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDatabaseStore constructs a database-backed Store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	if db == nil {
		return nil
	}
	return &DatabaseStore{db: db, now: time.Now}
}

// Set upserts the value for a given key with expiry. A non-positive ttl
// stores the value without expiry.
func (s *DatabaseStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil {
		return errDatabaseStoreNil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	expiry := time.Time{}
	if ttl > 0 {
		expiry = s.now().Add(ttl)
	}

	entry := models.CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiry,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).Create(&entry).Error
}

// Get retrieves a value by key, respecting expiry.
func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, errDatabaseStoreNil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var entry models.CacheEntry
	err := s.db.WithContext(ctx).Take(&entry, map[string]any{"key": key}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if entry.Expired(s.now()) {
		_ = s.Delete(ctx, key)
		return nil, false, nil
	}

	return entry.Value, true, nil
}

// Delete removes keys from the store.
func (s *DatabaseStore) Delete(ctx context.Context, keys ...string) error {
	if s == nil {
		return errDatabaseStoreNil
	}
	if len(keys) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return s.db.WithContext(ctx).Where(map[string]any{"key": keys}).Delete(&models.CacheEntry{}).Error
}

// PurgeExpired deletes every entry whose expiry has passed.
func (s *DatabaseStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil {
		return 0, errDatabaseStoreNil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := s.db.WithContext(ctx).
		Where("expires_at > ? AND expires_at <= ?", time.Time{}, s.now()).
		Delete(&models.CacheEntry{})
	return result.RowsAffected, result.Error
}

// Ping verifies the backing table is reachable.
func (s *DatabaseStore) Ping(ctx context.Context) error {
	if s == nil {
		return errDatabaseStoreNil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var count int64
	return s.db.WithContext(ctx).Model(&models.CacheEntry{}).Limit(1).Count(&count).Error
}
