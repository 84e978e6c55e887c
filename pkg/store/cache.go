package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/irradiance"
)

// DefaultCacheTTL bounds how long a fetched irradiance series is reused.
const DefaultCacheTTL = 30 * 24 * time.Hour

// IrradianceCache is an irradiance.Cache backed by the store.
type IrradianceCache struct {
	store *Store
	ttl   time.Duration
}

var _ irradiance.Cache = (*IrradianceCache)(nil)

// IrradianceCache returns a cache over s. A non-positive ttl uses
// DefaultCacheTTL.
func (s *Store) IrradianceCache(ttl time.Duration) *IrradianceCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &IrradianceCache{store: s, ttl: ttl}
}

type cacheRow struct {
	FetchedAt time.Time `db:"fetched_at"`
	Monthly   string    `db:"monthly"`
}

func (c *IrradianceCache) Get(ctx context.Context, key string) (irradiance.Monthly, bool, error) {
	var row cacheRow
	db := c.store.db
	q := db.Rebind(`SELECT fetched_at, monthly FROM irradiance_cache WHERE cache_key = ?`)
	if err := db.GetContext(ctx, &row, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return irradiance.Monthly{}, false, nil
		}
		return irradiance.Monthly{}, false, fmt.Errorf("reading irradiance cache: %w", err)
	}
	if c.store.now().Sub(row.FetchedAt) > c.ttl {
		return irradiance.Monthly{}, false, nil
	}
	var m irradiance.Monthly
	if err := json.Unmarshal([]byte(row.Monthly), &m); err != nil {
		return irradiance.Monthly{}, false, fmt.Errorf("decoding cached irradiance %q: %w", key, err)
	}
	return m, true, nil
}

func (c *IrradianceCache) Put(ctx context.Context, key string, m irradiance.Monthly) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding irradiance: %w", err)
	}
	db := c.store.db
	q := db.Rebind(`INSERT INTO irradiance_cache (cache_key, fetched_at, monthly) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET fetched_at = excluded.fetched_at, monthly = excluded.monthly`)
	if _, err := db.ExecContext(ctx, q, key, c.store.now().UTC(), string(data)); err != nil {
		return fmt.Errorf("writing irradiance cache: %w", err)
	}
	return nil
}
