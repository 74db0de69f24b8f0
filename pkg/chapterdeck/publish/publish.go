// Package publish copies generated decks to the shared month folder.
package publish

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

// Pattern selects the files CopyDecks copies.
const Pattern = "*.pptx"

// CopyDecks copies every deck in src into dst, creating dst as needed, and
// returns the written paths. A file that cannot be copied is logged and
// skipped. A missing src copies nothing.
func CopyDecks(src, dst string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(src, Pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, err
	}

	var copied []string
	for _, m := range matches {
		target := filepath.Join(dst, filepath.Base(m))
		if err := copyFile(m, target); err != nil {
			logger.Warn("deck not copied", zap.String("file", m), zap.Error(err))
			continue
		}
		copied = append(copied, target)
	}
	return copied, nil
}

// copyFile replaces dst with the contents of src, keeping its mode and
// modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &os.PathError{Op: "copy", Path: src, Err: os.ErrInvalid}
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
