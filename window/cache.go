package window

import (
	"context"
	"sync"

	"github.com/skaldic/schemanav/schema"
)

// SchemaLoader is the schema-loading collaborator: a connected database
// handle that can produce the full table snapshot and the database's own
// grouping of table and view names.
type SchemaLoader interface {
	LoadTables(ctx context.Context) ([]schema.Table, error)
	GroupedTableNames(ctx context.Context) ([]schema.TableGroup, error)
}

// Cache memoizes loaded tables and derived windows per connection
// identity so the classification pass runs at most once per connection
// for the lifetime of the cache. Construct one per process and inject it
// into callers.
//
// The mutex is held across the whole check-and-populate, including the
// derivation pass, so callers for different identities serialize on it
// too. Accepted simplification.
type Cache struct {
	mu      sync.Mutex
	deriver *Deriver
	tables  map[string][]schema.Table
	windows map[string][]Window
}

// NewCache creates an empty cache that derives windows with the given
// deriver.
func NewCache(deriver *Deriver) *Cache {
	return &Cache{
		deriver: deriver,
		tables:  make(map[string][]schema.Table),
		windows: make(map[string][]Window),
	}
}

// Tables returns the cached table set for the identity, loading it on
// first use. A load failure is returned as-is and nothing is cached, so
// the next call retries.
func (c *Cache) Tables(ctx context.Context, loader SchemaLoader, identity string) ([]schema.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tablesLocked(ctx, loader, identity)
}

// Windows returns the cached windows for the identity, loading tables and
// deriving windows on first use. Tables and windows are cached together:
// the windows stored for an identity are always derived from the tables
// stored for it.
func (c *Cache) Windows(ctx context.Context, loader SchemaLoader, identity string) ([]Window, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if windows, ok := c.windows[identity]; ok {
		return windows, nil
	}
	tables, err := c.tablesLocked(ctx, loader, identity)
	if err != nil {
		return nil, err
	}
	windows := c.deriver.DeriveAll(tables)
	c.windows[identity] = windows
	return windows, nil
}

func (c *Cache) tablesLocked(ctx context.Context, loader SchemaLoader, identity string) ([]schema.Table, error) {
	if tables, ok := c.tables[identity]; ok {
		return tables, nil
	}
	tables, err := loader.LoadTables(ctx)
	if err != nil {
		return nil, err
	}
	c.tables[identity] = tables
	return tables, nil
}
