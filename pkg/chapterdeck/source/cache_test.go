package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

func countingParse(calls *int32) ParseFunc {
	return func(_ context.Context, path, sheet string) (models.Frame, error) {
		atomic.AddInt32(calls, 1)
		return models.Frame{
			Source:  path,
			Sheet:   sheet,
			Columns: []string{"Nombres", "Dedicación"},
			Rows:    [][]string{{"Ana", "0.5"}, {"Luis", ""}},
		}, nil
	}
}

func TestCacheLoad(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "DR__Reporte.xlsx", time.Now().Add(-time.Hour))
	cacheDir := filepath.Join(dir, DefaultCacheSubdir)
	ctx := context.Background()

	var calls int32
	c := NewCache(cacheDir, nil)
	first, err := c.Load(ctx, src, "Hoja1", countingParse(&calls))
	require.NoError(t, err)
	second, err := c.Load(ctx, src, "Hoja1", countingParse(&calls))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, calls)

	entries, err := c.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name, "dr_reporte__hoja1__")

	// A fresh cache reads the parquet entry back instead of parsing.
	fresh := NewCache(cacheDir, nil)
	third, err := fresh.Load(ctx, src, "Hoja1", countingParse(&calls))
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls)
	assert.Equal(t, first, third)
}

func TestCacheInvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "TMD__BD.xlsx", time.Now().Add(-2*time.Hour))
	ctx := context.Background()

	var calls int32
	c := NewCache(filepath.Join(dir, DefaultCacheSubdir), nil)
	_, err := c.Load(ctx, src, "", countingParse(&calls))
	require.NoError(t, err)

	later := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, later, later))
	_, err = c.Load(ctx, src, "", countingParse(&calls))
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls)

	entries, err := c.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1, "stale entry should be replaced")

	require.NoError(t, c.Clear())
	entries, err = c.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = c.Load(ctx, src, "", countingParse(&calls))
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls)
}

func TestCacheConcurrentLoads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	src := touch(t, dir, "NivelesMadurez.xlsx", time.Now())
	c := NewCache(filepath.Join(dir, DefaultCacheSubdir), nil)

	var calls int32
	parse := countingParse(&calls)
	slow := func(ctx context.Context, path, sheet string) (models.Frame, error) {
		time.Sleep(20 * time.Millisecond)
		return parse(ctx, path, sheet)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := c.Load(context.Background(), src, "NM", slow)
			assert.NoError(t, err)
			assert.Equal(t, 2, f.Len())
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, calls)
}

func TestCacheParseError(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "Calidad.xlsx", time.Now())
	c := NewCache(filepath.Join(dir, DefaultCacheSubdir), nil)

	boom := errors.New("boom")
	_, err := c.Load(context.Background(), src, "", func(context.Context, string, string) (models.Frame, error) {
		return models.Frame{}, boom
	})
	assert.ErrorIs(t, err, boom)

	entries, err := c.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = c.Load(context.Background(), filepath.Join(dir, "missing.xlsx"), "", countingParse(new(int32)))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DR__Reporte.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nombre CL,Nombres,Dedicación\nANA,Luis,1\n"), 0644))

	l := NewLoader(dir, DefaultCacheSubdir, nil)
	require.NotNil(t, l.Cache)

	f, err := l.Load(context.Background(), "", "dedicacion", "")
	require.NoError(t, err)
	assert.Equal(t, path, f.Source)
	assert.Equal(t, []string{"Nombre CL", "Nombres", "Dedicación"}, f.Columns)
	assert.Equal(t, 1, f.Len())

	entries, err := l.Cache.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// The cache folder is not mistaken for a workbook on the next lookup.
	got, err := l.Resolve("", "dedicacion")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	assert.Nil(t, NewLoader(dir, "", nil).Cache)
}
