package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// DefaultCacheSubdir is the cache folder created inside the data folder.
const DefaultCacheSubdir = ".cache"

const cacheExt = ".parquet"

// Record kinds stored in a cache file, in file order.
const (
	recordMeta int32 = iota
	recordHeader
	recordRow
)

// record is one parquet row of a cached frame.
type record struct {
	Kind  int32    `parquet:"kind"`
	Cells []string `parquet:"cells,list"`
}

// ParseFunc parses one sheet of a file.
type ParseFunc func(ctx context.Context, path, sheet string) (models.Frame, error)

// Cache memoizes parsed sheets as parquet files and in memory.
// The key covers the source path, size and modification time, so an edited
// workbook is never served from a stale entry.
type Cache struct {
	dir    string
	logger *zap.Logger

	group singleflight.Group

	mu   sync.RWMutex
	memo map[string]models.Frame
}

// NewCache returns a cache rooted at dir. A nil logger discards warnings.
func NewCache(dir string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		dir:    dir,
		logger: logger,
		memo:   make(map[string]models.Frame),
	}
}

// Dir returns the cache folder.
func (c *Cache) Dir() string {
	return c.dir
}

// Load returns the cached frame for (path, sheet), or parses it with parse and
// writes it through. Concurrent loads of the same entry share one parse.
// A failed cache write is logged and the parsed frame is still returned.
func (c *Cache) Load(ctx context.Context, path, sheet string, parse ParseFunc) (models.Frame, error) {
	key, err := c.key(path, sheet)
	if err != nil {
		return models.Frame{}, err
	}
	if f, ok := c.memoGet(key); ok {
		return f, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if f, ok := c.memoGet(key); ok {
			return f, nil
		}

		entry := filepath.Join(c.dir, key)
		f, err := readEntry(entry)
		if err == nil {
			c.logger.Debug("cache hit", zap.String("file", path), zap.String("sheet", sheet))
			c.memoPut(key, f)
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("cache entry unreadable, reparsing", zap.String("entry", entry), zap.Error(err))
		}

		f, err = parse(ctx, path, sheet)
		if err != nil {
			return nil, err
		}
		if err := c.writeEntry(key, f); err != nil {
			c.logger.Warn("cache write failed", zap.String("entry", entry), zap.Error(err))
		} else {
			c.logger.Debug("cache stored", zap.String("entry", entry), zap.Int("rows", f.Len()))
		}
		c.memoPut(key, f)
		return f, nil
	})
	if err != nil {
		return models.Frame{}, err
	}
	return v.(models.Frame), nil
}

// Entry describes one cache file.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Entries lists cache files sorted by name.
func (c *Cache) Entries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []Entry
	for _, e := range dirEntries {
		if e.IsDir() || filepath.Ext(e.Name()) != cacheExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Clear removes every cache file and forgets memoized frames.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.memo = make(map[string]models.Frame)
	c.mu.Unlock()

	entries, err := c.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// key names the cache file of (path, sheet): "<file>__<sheet>__<hash>.parquet".
func (c *Cache) key(path, sheet string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d", abs, NormalizeName(sheet), info.Size(), info.ModTime().UnixNano())
	return entryPrefix(path, sheet) + hex.EncodeToString(h.Sum(nil))[:16] + cacheExt, nil
}

func entryPrefix(path, sheet string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if sheet == "" {
		sheet = "first"
	}
	return Slug(base) + "__" + Slug(sheet) + "__"
}

func (c *Cache) memoGet(key string) (models.Frame, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.memo[key]
	return f, ok
}

func (c *Cache) memoPut(key string, f models.Frame) {
	c.mu.Lock()
	c.memo[key] = f
	c.mu.Unlock()
}

func (c *Cache) writeEntry(key string, f models.Frame) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}

	records := make([]record, 0, len(f.Rows)+2)
	records = append(records,
		record{Kind: recordMeta, Cells: []string{f.Source, f.Sheet, strconv.Itoa(len(f.Columns))}},
		record{Kind: recordHeader, Cells: f.Columns},
	)
	for _, row := range f.Rows {
		records = append(records, record{Kind: recordRow, Cells: row})
	}

	entry := filepath.Join(c.dir, key)
	pf, err := renameio.NewPendingFile(entry, renameio.WithPermissions(0644))
	if err != nil {
		return err
	}
	defer pf.Cleanup()
	if err := parquet.Write(pf, records); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return err
	}

	c.removeStale(key)
	return nil
}

// removeStale deletes older versions of the same file/sheet entry.
func (c *Cache) removeStale(key string) {
	prefix := key[:strings.LastIndex(key, "__")+2]
	matches, err := filepath.Glob(filepath.Join(c.dir, prefix+"*"+cacheExt))
	if err != nil {
		return
	}
	for _, m := range matches {
		if filepath.Base(m) == key {
			continue
		}
		if err := os.Remove(m); err != nil {
			c.logger.Debug("stale cache entry not removed", zap.String("entry", m), zap.Error(err))
		}
	}
}

func readEntry(entry string) (models.Frame, error) {
	if _, err := os.Stat(entry); err != nil {
		return models.Frame{}, err
	}
	records, err := parquet.ReadFile[record](entry)
	if err != nil {
		return models.Frame{}, err
	}
	if len(records) < 2 || records[0].Kind != recordMeta || records[1].Kind != recordHeader {
		return models.Frame{}, fmt.Errorf("malformed cache entry %s", entry)
	}

	meta := records[0].Cells
	f := models.Frame{Columns: records[1].Cells}
	if len(meta) > 0 {
		f.Source = meta[0]
	}
	if len(meta) > 1 {
		f.Sheet = meta[1]
	}
	if len(f.Columns) == 0 {
		f.Columns = nil
	}
	for _, r := range records[2:] {
		if r.Kind != recordRow {
			continue
		}
		row := make([]string, len(f.Columns))
		copy(row, r.Cells)
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}
