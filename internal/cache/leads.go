// Package cache keeps a short-lived Redis copy of the lead listing so
// dashboard polling does not hammer Postgres.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"steelleads-go/internal/model"
)

const (
	leadsKey = "steelleads:leads"
	leadsTTL = 5 * time.Minute
)

type Leads struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeads(client *redis.Client) *Leads {
	return &Leads{client: client, ttl: leadsTTL}
}

// Get returns the cached listing. A miss or a decode problem reads as a miss;
// the caller falls through to the database.
func (c *Leads) Get(ctx context.Context) ([]model.Lead, bool) {
	data, err := c.client.Get(ctx, leadsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("leads cache read: %v", err)
		return nil, false
	}

	var leads []model.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		log.Printf("leads cache decode: %v", err)
		return nil, false
	}
	return leads, true
}

func (c *Leads) Set(ctx context.Context, leads []model.Lead) {
	data, err := json.Marshal(leads)
	if err != nil {
		log.Printf("leads cache encode: %v", err)
		return
	}
	if err := c.client.Set(ctx, leadsKey, data, c.ttl).Err(); err != nil {
		log.Printf("leads cache write: %v", err)
	}
}

func (c *Leads) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, leadsKey).Err(); err != nil {
		log.Printf("leads cache invalidate: %v", err)
	}
}
