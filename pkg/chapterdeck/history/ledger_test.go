package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "chapterdeck.db")

	l, err := Open(path)
	require.NoError(t, err)

	base := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	first, err := l.Record(ctx, Run{
		Leader:   "Anthony Jaesson Rojas",
		Month:    "2025 04",
		DeckPath: "outputs/2025-05-02_Presentation.pptx",
		Figures:  6,
		Started:  base,
		Finished: base.Add(3 * time.Second),
	})
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)

	_, err = l.Record(ctx, Run{
		Leader:   "Maria Lopez",
		Skipped:  []string{"dedicacion", "madurez"},
		Warnings: []string{"section dedicacion (load): file not found", "section madurez (metrics): no data for chapter leader"},
		Error:    "write deck: disk full",
		Started:  base.Add(time.Hour),
		Finished: base.Add(time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	// reopen to read what was persisted
	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	runs, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Maria Lopez", runs[0].Leader)
	assert.Equal(t, []string{"dedicacion", "madurez"}, runs[0].Skipped)
	assert.Len(t, runs[0].Warnings, 2)
	assert.Equal(t, "write deck: disk full", runs[0].Error)

	assert.Equal(t, first.ID, runs[1].ID)
	assert.Equal(t, 6, runs[1].Figures)
	assert.Nil(t, runs[1].Warnings)
	assert.True(t, runs[1].Started.Equal(base))
	assert.Equal(t, 3*time.Second, runs[1].Duration())

	runs, err = l.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestLedgerSubsecondOrder(t *testing.T) {
	ctx := context.Background()
	l, err := Open(filepath.Join(t.TempDir(), "chapterdeck.db"))
	require.NoError(t, err)
	defer l.Close()

	base := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	for _, r := range []Run{
		{Leader: "whole", Started: base, Finished: base},
		{Leader: "later", Started: base.Add(500 * time.Millisecond), Finished: base.Add(time.Second)},
		{Leader: "tenth", Started: base.Add(100 * time.Millisecond), Finished: base.Add(time.Second)},
		{Leader: "twelve", Started: base.Add(120 * time.Millisecond), Finished: base.Add(time.Second)},
	} {
		_, err := l.Record(ctx, r)
		require.NoError(t, err)
	}

	runs, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	var leaders []string
	for _, r := range runs {
		leaders = append(leaders, r.Leader)
	}
	assert.Equal(t, []string{"later", "twelve", "tenth", "whole"}, leaders)
	assert.True(t, runs[0].Started.Equal(base.Add(500*time.Millisecond)))
}

func TestLedgerMultilineWarning(t *testing.T) {
	ctx := context.Background()
	l, err := Open(filepath.Join(t.TempDir(), "chapterdeck.db"))
	require.NoError(t, err)
	defer l.Close()

	warnings := []string{"section madurez (load): bad header\nrow 3", "template missing"}
	now := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	_, err = l.Record(ctx, Run{Leader: "Ana", Warnings: warnings, Started: now, Finished: now})
	require.NoError(t, err)

	runs, err := l.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, warnings, runs[0].Warnings)
	assert.Nil(t, runs[0].Skipped)
}

func TestNewRun(t *testing.T) {
	opts := chapterdeck.Options{Leader: "Ana", DataDir: "/data/2025 04"}
	started := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	res := &chapterdeck.Result{
		DeckPath: "out.pptx",
		Skipped:  []chapterdeck.Section{chapterdeck.SectionMaturity},
		Warnings: []string{"w"},
		Started:  started,
		Finished: started.Add(time.Second),
	}

	r := NewRun(opts, "2025 04", res, nil)
	assert.Equal(t, "Ana", r.Leader)
	assert.Equal(t, "2025 04", r.Month)
	assert.Equal(t, []string{"madurez"}, r.Skipped)
	assert.Empty(t, r.Error)

	r = NewRun(opts, "", nil, errors.New("boom"))
	assert.Equal(t, "boom", r.Error)
	assert.False(t, r.Started.IsZero())
	assert.Equal(t, r.Started, r.Finished)
}
