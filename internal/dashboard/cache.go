package dashboard

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KaramelBytes/paperlens/internal/dataset"
)

// Dataset is one cleaned source as held by the cache. It is shared between
// sessions and must be treated as read-only; sessions work on Table.Clone().
type Dataset struct {
	Path     string
	Frame    *dataset.Frame
	Table    *dataset.Table
	Stats    dataset.CleanStats
	LoadedAt time.Time
}

type cacheKey struct {
	path    string
	maxRows int
}

func (k cacheKey) String() string { return fmt.Sprintf("%s#%d", k.path, k.maxRows) }

// LoadFunc reads and cleans a source. It is swappable for tests.
type LoadFunc func(path string, opt dataset.LoadOptions) (*dataset.Frame, *dataset.Table, dataset.CleanStats, error)

// Cache memoizes Load+Clean per (absolute source path, row cap) for the
// lifetime of the process. Failed loads are not cached.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*Dataset
	group   singleflight.Group
	load    LoadFunc
	log     *slog.Logger
	metrics *Metrics
}

// NewCache returns an empty cache backed by dataset.LoadAndClean.
func NewCache(log *slog.Logger, m *Metrics) *Cache {
	return &Cache{
		entries: make(map[cacheKey]*Dataset),
		load:    dataset.LoadAndClean,
		log:     log,
		metrics: m,
	}
}

// Get returns the cleaned dataset for path, loading it at most once per key
// even under concurrent callers.
func (c *Cache) Get(path string, opt dataset.LoadOptions) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if opt.MaxRows <= 0 {
		opt.MaxRows = dataset.DefaultMaxRows
	}
	key := cacheKey{path: abs, maxRows: opt.MaxRows}

	c.mu.RLock()
	ds, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return ds, nil
	}

	v, err, shared := c.group.Do(key.String(), func() (interface{}, error) {
		c.mu.RLock()
		ds, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return ds, nil
		}
		if c.metrics != nil {
			c.metrics.CacheMisses.Inc()
		}
		start := time.Now()
		f, tbl, st, err := c.load(abs, opt)
		if c.metrics != nil {
			c.metrics.LoadSeconds.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			return nil, err
		}
		ds = &Dataset{Path: abs, Frame: f, Table: tbl, Stats: st, LoadedAt: time.Now()}
		c.mu.Lock()
		c.entries[key] = ds
		c.mu.Unlock()
		c.log.Info("dataset loaded", "path", abs, "max_rows", opt.MaxRows,
			"rows", st.Input, "kept", st.Output, "took", time.Since(start).Round(time.Millisecond))
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug("load shared with concurrent caller", "path", abs)
	}
	return v.(*Dataset), nil
}

// Len reports how many datasets are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
