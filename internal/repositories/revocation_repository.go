package repositories

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RevocationRepository looks up revoked token ids. Entries are written by
// the identity provider side under "blacklist:<jti>" with a TTL.
type RevocationRepository struct {
	rdb *redis.Client
}

func NewRevocationRepository(rdb *redis.Client) *RevocationRepository {
	return &RevocationRepository{rdb: rdb}
}

func revocationKey(jti string) string {
	return "blacklist:" + jti
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.rdb.Exists(ctx, revocationKey(jti)).Result()
	return exists == 1, err
}
