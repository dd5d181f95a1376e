package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokoshop/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenDenylist remembers logged-out tokens until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

const denylistKeyPrefix = "bl_"

// RedisTokenDenylist keeps revoked tokens as expiring Redis keys.
type RedisTokenDenylist struct {
	client *redis.Client
}

func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistKeyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, err := d.client.Get(ctx, denylistKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return true, nil
}

// GORMTokenDenylist stores revoked tokens in the revoked_tokens table. Used when Redis is skipped.
type GORMTokenDenylist struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGORMTokenDenylist(db *gorm.DB) *GORMTokenDenylist {
	return &GORMTokenDenylist{db: db, now: time.Now}
}

func (d *GORMTokenDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	row := models.RevokedToken{Token: token, ExpiresAt: d.now().Add(ttl)}
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoUpdates: clause.AssignmentColumns([]string{"expires_at"})}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (d *GORMTokenDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("token = ? AND expires_at > ?", token, d.now()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return count > 0, nil
}

// PurgeExpired removes rows whose tokens have expired and returns how many were deleted.
func (d *GORMTokenDenylist) PurgeExpired(ctx context.Context) (int64, error) {
	res := d.db.WithContext(ctx).Where("expires_at <= ?", d.now()).Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
