// Package store provides a SQLite-backed cache for projected cost series.
// It stores derived month-by-month figures keyed by a hash of their inputs,
// never the plans themselves.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed projection caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// keyInput lists everything a projection depends on. Plan IDs and names
// are left out on purpose: they never affect the figures.
type keyInput struct {
	Version      int
	Schedule     int
	Retention    int
	Tier         int
	DataSizeGB   float64
	Months       int
	YearlyGrowth float64
	Storage      map[int]float64
	Transfer     float64
}

// Key returns the cache key for projecting p over months at yearlyGrowth
// with the given prices.
func Key(p model.Plan, months int, yearlyGrowth float64, pricing config.PricingTable) (string, error) {
	in := keyInput{
		Version:      schemaVersion,
		Schedule:     int(p.Schedule()),
		Retention:    p.Retention(),
		Tier:         int(p.StorageTier()),
		DataSizeGB:   p.DataSizeGB(),
		Months:       months,
		YearlyGrowth: yearlyGrowth,
		Storage:      make(map[int]float64, len(pricing.StorageCostPerGBMonth)),
		Transfer:     pricing.TransferCostPerGB,
	}
	for tier, price := range pricing.StorageCostPerGBMonth {
		in.Storage[int(tier)] = price
	}

	h, err := hashstructure.Hash(in, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing projection inputs: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}

// Get returns the cached series for key, if present.
func (c *Cache) Get(key string) ([]model.MonthlyProjection, bool, error) {
	var months int
	err := c.db.QueryRow("SELECT months FROM projections WHERE cache_key = ?", key).Scan(&months)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rows, err := c.db.Query(`SELECT month, effective_size_gb, storage_cost, transfer_cost, cost
		FROM projection_months WHERE cache_key = ? ORDER BY month`, key)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rows.Close() }()

	series := make([]model.MonthlyProjection, 0, months)
	for rows.Next() {
		var m model.MonthlyProjection
		if err := rows.Scan(&m.Month, &m.EffectiveSizeGB, &m.StorageCost, &m.TransferCost, &m.Cost); err != nil {
			return nil, false, err
		}
		series = append(series, m)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	// A partially written entry is treated as a miss.
	if len(series) != months {
		return nil, false, nil
	}

	_, _ = c.db.Exec(`UPDATE projections SET hits = hits + 1, last_hit_at = ? WHERE cache_key = ?`,
		time.Now().UTC().Format(time.RFC3339), key)
	return series, true, nil
}

// Put stores a projected series under key, replacing any previous entry.
func (c *Cache) Put(key string, series []model.MonthlyProjection) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM projection_months WHERE cache_key = ?", key); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO projections (cache_key, months, created_at, hits)
		VALUES (?, ?, ?, 0)`, key, len(series), now)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO projection_months
		(cache_key, month, effective_size_gb, storage_cost, transfer_cost, cost)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range series {
		if _, err := stmt.Exec(key, m.Month, m.EffectiveSizeGB, m.StorageCost, m.TransferCost, m.Cost); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int
	MonthRows int
	Hits      int
	Oldest    time.Time
	Newest    time.Time
}

// Stats returns entry counts and the age range of cached projections.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	var oldest, newest sql.NullString
	err := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(hits), 0), MIN(created_at), MAX(created_at)
		FROM projections`).Scan(&s.Entries, &s.Hits, &oldest, &newest)
	if err != nil {
		return s, err
	}
	if err := c.db.QueryRow("SELECT COUNT(*) FROM projection_months").Scan(&s.MonthRows); err != nil {
		return s, err
	}
	if oldest.Valid {
		s.Oldest, _ = time.Parse(time.RFC3339, oldest.String)
	}
	if newest.Valid {
		s.Newest, _ = time.Parse(time.RFC3339, newest.String)
	}
	return s, nil
}

// Clear removes every cached projection.
func (c *Cache) Clear() (int, error) {
	res, err := c.db.Exec("DELETE FROM projections")
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Prune removes projections created before cutoff.
func (c *Cache) Prune(cutoff time.Time) (int, error) {
	res, err := c.db.Exec("DELETE FROM projections WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
