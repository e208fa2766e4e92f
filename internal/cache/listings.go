// Package cache keeps hot read paths (port listings, the known-ports
// list) in Redis so browse traffic stays off postgres.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/dockside-market/internal/domain"
)

// KnownPorts is the static list served to the port picker.
var KnownPorts = []string{
	"Le Guilvinec",
	"Lorient",
	"Concarneau",
	"Saint-Jean-de-Luz",
	"Sète",
	"Boulogne-sur-Mer",
	"La Rochelle",
	"Port-en-Bessin",
}

type Listings struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListings(addr string, ttl time.Duration) *Listings {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Listings{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func key(port string) string {
	if port == "" {
		return "listings:all"
	}
	return "listings:port:" + port
}

// Get returns the cached listings for a port, or (nil, false) on miss
// or any redis error; a cold cache is never a failure.
func (c *Listings) Get(ctx context.Context, port string) ([]domain.Listing, bool) {
	b, err := c.rdb.Get(ctx, key(port)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []domain.Listing
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *Listings) Set(ctx context.Context, port string, listings []domain.Listing) {
	b, err := json.Marshal(listings)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key(port), b, c.ttl).Err()
}

// Invalidate drops the port entry plus the all-ports entry after a
// listing mutation.
func (c *Listings) Invalidate(ctx context.Context, port string) {
	_ = c.rdb.Del(ctx, key(port), key("")).Err()
}

func (c *Listings) Close() error {
	return c.rdb.Close()
}
