package scenario

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// CurveCache is a bounded read cache for parsed curve files, keyed by path
// and modification time so an overwritten file is re-read. It is an
// explicit injectable component rather than a process-wide singleton.
type CurveCache struct {
	mu      sync.Mutex
	max     int
	entries map[curveCacheKey][]float64
	order   []curveCacheKey
}

type curveCacheKey struct {
	path  string
	mtime int64
}

// NewCurveCache creates a cache holding at most max parsed files. A max of
// zero or less disables caching.
func NewCurveCache(max int) *CurveCache {
	return &CurveCache{max: max, entries: make(map[curveCacheKey][]float64)}
}

// Load reads and parses a curve file (one value per line), serving repeat
// reads of an unchanged file from the cache.
func (c *CurveCache) Load(path string) ([]float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := curveCacheKey{path: path, mtime: info.ModTime().UnixNano()}

	c.mu.Lock()
	if values, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return values, nil
	}
	c.mu.Unlock()

	values, err := readCurveFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.max > 0 {
		if _, ok := c.entries[key]; !ok {
			for len(c.order) >= c.max {
				oldest := c.order[0]
				c.order = c.order[1:]
				delete(c.entries, oldest)
			}
			c.entries[key] = values
			c.order = append(c.order, key)
		}
	}
	return values, nil
}

func readCurveFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("curve file %s: %w", path, err)
		}
		values = append(values, v)
	}
	return values, scanner.Err()
}

// CurveStore caches downloaded curve data on disk, one file per
// (scenario id, curve key) pair. Concurrent writers to the same pair are
// not locked; the last writer wins.
type CurveStore struct {
	dir   string
	cache *CurveCache
}

// NewCurveStore creates a store rooted at dir, reading through cache.
// A nil cache disables read caching.
func NewCurveStore(dir string, cache *CurveCache) *CurveStore {
	if cache == nil {
		cache = NewCurveCache(0)
	}
	return &CurveStore{dir: dir, cache: cache}
}

// Path returns the file path for one scenario's curve.
func (cs *CurveStore) Path(scenarioID int, curveKey string) string {
	return filepath.Join(cs.dir, fmt.Sprintf("%d_%s.csv", scenarioID, curveKey))
}

// Write stores curve values for a (scenario id, curve key) pair.
func (cs *CurveStore) Write(scenarioID int, curveKey string, values []float64) error {
	if err := os.MkdirAll(cs.dir, 0o755); err != nil {
		return err
	}
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		sb.WriteByte('\n')
	}
	return os.WriteFile(cs.Path(scenarioID, curveKey), []byte(sb.String()), 0o644)
}

// Read loads curve values for a pair through the cache.
func (cs *CurveStore) Read(scenarioID int, curveKey string) ([]float64, error) {
	return cs.cache.Load(cs.Path(scenarioID, curveKey))
}
