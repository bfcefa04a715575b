package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sofida/business/discount"

	"github.com/redis/go-redis/v9"
)

const popularityTTL = 15 * time.Minute

// PopularityCache is a cache-aside decorator over the postgres popularity
// repository. Cache failures fall through to the source; only source failures
// propagate.
type PopularityCache struct {
	client *redis.Client
	source discount.PopularityRepository
}

func NewPopularityCache(client *redis.Client, source discount.PopularityRepository) *PopularityCache {
	return &PopularityCache{
		client: client,
		source: source,
	}
}

func (c *PopularityCache) ItemOrderCount(ctx context.Context, placeID, itemID int64) (float64, error) {
	key := fmt.Sprintf("pop:item:%d:%d", placeID, itemID)

	if v, err := c.client.Get(ctx, key).Result(); err == nil {
		if count, perr := strconv.ParseFloat(v, 64); perr == nil {
			return count, nil
		}
	}

	count, err := c.source.ItemOrderCount(ctx, placeID, itemID)
	if err != nil {
		return 0, err
	}

	_ = c.client.Set(ctx, key, strconv.FormatFloat(count, 'g', -1, 64), popularityTTL).Err()

	return count, nil
}

func (c *PopularityCache) PlaceOrderCount(ctx context.Context, placeID int64) (float64, error) {
	key := fmt.Sprintf("pop:place:%d", placeID)

	if v, err := c.client.Get(ctx, key).Result(); err == nil {
		if count, perr := strconv.ParseFloat(v, 64); perr == nil {
			return count, nil
		}
	}

	count, err := c.source.PlaceOrderCount(ctx, placeID)
	if err != nil {
		return 0, err
	}

	_ = c.client.Set(ctx, key, strconv.FormatFloat(count, 'g', -1, 64), popularityTTL).Err()

	return count, nil
}
