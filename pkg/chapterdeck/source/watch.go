package source

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultQuiet is how long a workbook must stay untouched before a change is reported.
const DefaultQuiet = 2 * time.Second

// Watcher reports workbook changes in a data folder once they settle.
// Saving a workbook from a spreadsheet program produces bursts of events
// (temp file, rename, write); they are collapsed into one report.
type Watcher struct {
	Dir   string
	Quiet time.Duration
	// Tick is how often settled changes are checked; defaults to Quiet/4.
	Tick   time.Duration
	Logger *zap.Logger
}

// Run calls onChange with the workbooks changed since the previous call.
// It blocks until ctx is done and returns nil then.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	quiet := w.Quiet
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	tick := w.Tick
	if tick <= 0 {
		tick = quiet / 4
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(w.Dir); err != nil {
		return err
	}
	logger.Info("watching data folder", zap.String("dir", w.Dir))

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("workbook event", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			pending[event.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			var settled []string
			for path, at := range pending {
				if now.Sub(at) >= quiet {
					settled = append(settled, path)
					delete(pending, path)
				}
			}
			if len(settled) > 0 {
				sort.Strings(settled)
				onChange(settled)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if skipName(name) || !IsSpreadsheet(name) {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
