package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// KeywordAliases lists the file-name fragments each report keyword answers to,
// most specific first.
var KeywordAliases = map[string][]string{
	"calidad":    {"calidad", "pases", "reversiones"},
	"dedicacion": {"dr", "dedicacion"},
	"madurez":    {"nivelesmadurez", "niveles madurez", "madurez", "nm"},
	"tiempo":     {"tmd", "tiempo desarrollo", "tiempo"},
}

const (
	matchNone = iota
	matchSubstring
	matchTokenPrefix
	matchPrefix
)

// Resolver finds report workbooks inside one data folder.
type Resolver struct {
	// Dir is the folder scanned for workbooks; sub-folders (the cache among them) are ignored.
	Dir string
}

// Resolve returns explicit when it names an existing file (relative paths are
// tried as given, then under Dir); otherwise it searches Dir for keyword.
func (r *Resolver) Resolve(explicit, keyword string) (string, error) {
	if explicit != "" {
		candidates := []string{explicit}
		if !filepath.IsAbs(explicit) {
			candidates = append(candidates, filepath.Join(r.Dir, explicit))
		}
		for _, p := range candidates {
			if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
				return p, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, explicit)
	}
	return r.FindFileByKeyword(keyword)
}

type candidate struct {
	path  string
	score int
	mtime time.Time
}

// FindFileByKeyword returns the spreadsheet in Dir that best matches keyword.
// A "KEYWORD__" file-name prefix beats a whole-word match, which beats a plain
// substring; ties go to the most recently modified file.
func (r *Resolver) FindFileByKeyword(keyword string) (string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFileNotFound, r.Dir, err)
	}

	aliases := aliasesFor(keyword)
	var found []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || skipName(name) || !IsSpreadsheet(name) {
			continue
		}
		score := matchScore(name, aliases)
		if score == matchNone {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{
			path:  filepath.Join(r.Dir, name),
			score: score,
			mtime: info.ModTime(),
		})
	}

	if len(found) == 0 {
		return "", fmt.Errorf("%w: no workbook for %q in %s", ErrFileNotFound, keyword, r.Dir)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		if !found[i].mtime.Equal(found[j].mtime) {
			return found[i].mtime.After(found[j].mtime)
		}
		return found[i].path < found[j].path
	})
	return found[0].path, nil
}

func aliasesFor(keyword string) []string {
	key := NormalizeKeyword(keyword)
	if aliases, ok := KeywordAliases[key]; ok {
		return aliases
	}
	return []string{key}
}

// skipName filters Office lock files and hidden files.
func skipName(name string) bool {
	return strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".")
}

// matchScore ranks fileName against aliases: an ALIAS__ prefix beats an alias
// that starts a word of the name, which beats a plain substring. Aliases
// shorter than three letters only match the first two ways.
func matchScore(fileName string, aliases []string) int {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	raw := strings.ToLower(stripMarks(base))
	words := " " + NormalizeKeyword(base) + " "

	best := matchNone
	for _, alias := range aliases {
		alias = NormalizeKeyword(alias)
		if alias == "" {
			continue
		}
		score := matchNone
		switch {
		case strings.HasPrefix(raw, strings.ReplaceAll(alias, " ", "")+"__"):
			score = matchPrefix
		case strings.Contains(words, " "+alias):
			score = matchTokenPrefix
		case len(alias) >= 3 && strings.Contains(words, alias):
			score = matchSubstring
		}
		if score > best {
			best = score
		}
	}
	return best
}
