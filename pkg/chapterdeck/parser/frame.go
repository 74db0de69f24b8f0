package parser

import (
	"fmt"
	"strings"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// ToFrame converts a raw grid into a frame.
// The table region is detected first, then its header row; rows below the header
// that are entirely empty are dropped.
func ToFrame(rows [][]string, source, sheet string, params TableDetectionParams) models.Frame {
	frame := models.Frame{Source: source, Sheet: sheet}

	b, ok := DetectTable(rows, params)
	if !ok {
		minRow, maxRow, minCol, maxCol := findDataBounds(rows)
		if minRow < 0 {
			return frame
		}
		b = Bounds{MinRow: minRow, MaxRow: maxRow, MinCol: minCol, MaxCol: maxCol}
	}

	headerRow := DetectHeaderRow(rows, b, params)
	frame.Columns = headerNames(sliceRow(rows[headerRow], b.MinCol, b.MaxCol))

	for r := headerRow + 1; r <= b.MaxRow && r < len(rows); r++ {
		cells := sliceRow(rows[r], b.MinCol, b.MaxCol)
		if isBlank(cells) {
			continue
		}
		frame.Rows = append(frame.Rows, cells)
	}
	return frame
}

// sliceRow returns cells [minCol, maxCol] of row, padded with empty strings.
func sliceRow(row []string, minCol, maxCol int) []string {
	out := make([]string, maxCol-minCol+1)
	for c := minCol; c <= maxCol && c < len(row); c++ {
		out[c-minCol] = row[c]
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// headerNames trims header cells, names blank ones "Unnamed: N" and
// suffixes repeated names with ".1", ".2", ...
func headerNames(cells []string) []string {
	names := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, c := range cells {
		name := strings.TrimSpace(c)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}
