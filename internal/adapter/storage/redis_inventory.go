package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cozycomfort/distribution/internal/port"
)

const stockKeyPrefix = "stock:"

// reserveStockScript atomically checks and decrements one product key.
// Returns {1, remaining} on success, {0, available} on shortfall.
var reserveStockScript = redis.NewScript(`
local key = KEYS[1]
local want = tonumber(ARGV[1])

local current = tonumber(redis.call('GET', key) or '0')
if current >= want then
	redis.call('DECRBY', key, want)
	return {1, current - want}
end

return {0, current}
`)

// RedisInventory is the reservation fast path. Durable quantities live in
// MySQL and are committed together with the order record.
type RedisInventory struct {
	client *redis.Client
}

func NewRedisInventory(client *redis.Client) *RedisInventory {
	return &RedisInventory{client: client}
}

func stockKey(distributorID, productID int64) string {
	return fmt.Sprintf("%s%d:%d", stockKeyPrefix, distributorID, productID)
}

func (r *RedisInventory) Reserve(ctx context.Context, distributorID, productID int64, quantity int) (port.ReserveResult, error) {
	key := stockKey(distributorID, productID)

	raw, err := reserveStockScript.Run(ctx, r.client, []string{key}, quantity).Int64Slice()
	if err != nil {
		return port.ReserveResult{}, fmt.Errorf("reserve script: %w", err)
	}
	if len(raw) != 2 {
		return port.ReserveResult{}, fmt.Errorf("reserve script: unexpected reply %v", raw)
	}

	if raw[0] == 1 {
		return port.ReserveResult{Reserved: true, Available: int(raw[1])}, nil
	}
	return port.ReserveResult{Reserved: false, Available: int(raw[1])}, nil
}

func (r *RedisInventory) Release(ctx context.Context, distributorID, productID int64, quantity int) error {
	return r.client.IncrBy(ctx, stockKey(distributorID, productID), int64(quantity)).Err()
}

// SetStock seeds a product key, used at startup to sync from MySQL.
func (r *RedisInventory) SetStock(ctx context.Context, distributorID, productID int64, quantity int) error {
	return r.client.Set(ctx, stockKey(distributorID, productID), quantity, 0).Err()
}
