package source

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// Loader resolves report workbooks in a data folder and loads their sheets
// through the cache.
type Loader struct {
	Resolver Resolver
	// Cache may be nil, in which case every load parses the workbook.
	Cache  *Cache
	Logger *zap.Logger
}

// NewLoader returns a loader for dataDir. An empty cacheSubdir disables caching.
func NewLoader(dataDir, cacheSubdir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		Resolver: Resolver{Dir: dataDir},
		Logger:   logger,
	}
	if cacheSubdir != "" {
		l.Cache = NewCache(filepath.Join(dataDir, cacheSubdir), logger)
	}
	return l
}

// Resolve locates the workbook for keyword, or validates explicit.
func (l *Loader) Resolve(explicit, keyword string) (string, error) {
	path, err := l.Resolver.Resolve(explicit, keyword)
	if err != nil {
		return "", err
	}
	l.Logger.Debug("resolved workbook", zap.String("keyword", keyword), zap.String("path", path))
	return path, nil
}

// Read loads one sheet of path.
func (l *Loader) Read(ctx context.Context, path, sheet string) (models.Frame, error) {
	if l.Cache == nil {
		return ReadAny(ctx, path, sheet)
	}
	return l.Cache.Load(ctx, path, sheet, ReadAny)
}

// Load resolves the workbook for keyword (or explicit) and reads sheet from it.
func (l *Loader) Load(ctx context.Context, explicit, keyword, sheet string) (models.Frame, error) {
	path, err := l.Resolve(explicit, keyword)
	if err != nil {
		return models.Frame{}, err
	}
	return l.Read(ctx, path, sheet)
}
