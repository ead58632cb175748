package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-boxoffice/internal/models"
)

// SeatSectionsCache stores the seat grouping per section. Seats are
// immutable after seeding, so entries only expire or get invalidated when
// a seat is created.
type SeatSectionsCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewSeatSectionsCache(client *redis.Client, prefix string, ttl time.Duration) *SeatSectionsCache {
	return &SeatSectionsCache{Client: client, Prefix: prefix, TTL: ttl}
}

func (c *SeatSectionsCache) key() string {
	return c.Prefix + ":seats:by_section"
}

// GetSections returns the cached grouping and whether it was present.
func (c *SeatSectionsCache) GetSections(ctx context.Context) (map[models.Section][]models.SeatPosition, bool, error) {
	raw, err := c.Client.Get(ctx, c.key()).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read seat sections cache: %w", err)
	}

	var sections map[models.Section][]models.SeatPosition
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, false, fmt.Errorf("decode seat sections cache: %w", err)
	}
	return sections, true, nil
}

func (c *SeatSectionsCache) SetSections(ctx context.Context, sections map[models.Section][]models.SeatPosition) error {
	raw, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("encode seat sections cache: %w", err)
	}
	if err := c.Client.Set(ctx, c.key(), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("write seat sections cache: %w", err)
	}
	return nil
}

func (c *SeatSectionsCache) Invalidate(ctx context.Context) error {
	if err := c.Client.Del(ctx, c.key()).Err(); err != nil {
		return fmt.Errorf("invalidate seat sections cache: %w", err)
	}
	return nil
}
