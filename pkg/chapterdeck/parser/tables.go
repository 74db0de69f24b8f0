package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
	// HeaderCoverageMin is the share of the table width a row must fill to be taken as header.
	HeaderCoverageMin float64
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:        0.04,
		MinNonemptyCells:  3,
		HeaderCoverageMin: 0.5,
	}
}

// Bounds is a 0-based inclusive cell region.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Width returns the number of columns in the region.
func (b Bounds) Width() int {
	return b.MaxCol - b.MinCol + 1
}

// Range returns the region in Excel notation (e.g. "A1:D10").
func (b Bounds) Range() string {
	startCell, _ := excelize.CoordinatesToCellName(b.MinCol+1, b.MinRow+1)
	endCell, _ := excelize.CoordinatesToCellName(b.MaxCol+1, b.MaxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// DetectTable finds the table-like region of a grid.
// It reports false when the grid is too sparse to hold a table.
func DetectTable(rows [][]string, params TableDetectionParams) (Bounds, bool) {
	if len(rows) == 0 {
		return Bounds{}, false
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return Bounds{}, false
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)

	if nonEmptyCells < params.MinNonemptyCells {
		return Bounds{}, false
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return Bounds{}, false
	}

	return Bounds{MinRow: minRow, MaxRow: maxRow, MinCol: minCol, MaxCol: maxCol}, true
}

// DetectHeaderRow returns the row index holding the column headers.
// Title rows above the table (a single merged caption, a report date) are skipped:
// the header is the first row that fills at least HeaderCoverageMin of the table width.
func DetectHeaderRow(rows [][]string, b Bounds, params TableDetectionParams) int {
	width := b.Width()
	need := int(float64(width)*params.HeaderCoverageMin + 0.5)
	if need < 1 {
		need = 1
	}
	for r := b.MinRow; r <= b.MaxRow && r < len(rows); r++ {
		if countNonEmptyCells(rows, r, r, b.MinCol, b.MaxCol) >= need {
			return r
		}
	}
	return b.MinRow
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
