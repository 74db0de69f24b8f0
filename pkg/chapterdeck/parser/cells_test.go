package parser

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractRows(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	// Empty sheet name selects the first sheet
	name, rows, err := ExtractRows(f2, "")
	if err != nil {
		t.Fatalf("ExtractRows failed: %v", err)
	}
	if name != sheetName {
		t.Errorf("Expected sheet %q, got %q", sheetName, name)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Header1" {
		t.Errorf("Expected 'Header1', got %v", rows[0][0])
	}
	if rows[1][1] != "200.5" {
		t.Errorf("Expected raw '200.5', got %v", rows[1][1])
	}

	if _, _, err := ExtractRows(f2, "Missing"); err == nil {
		t.Error("Expected error for missing sheet")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"123", 123, true},
		{"123.45", 123.45, true},
		{"-100", -100, true},
		{" 7 ", 7, true},
		{"4,5", 4.5, true},
		{"1,234.5", 0, false},
		{"NaN", 0, false},
		{"hello", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = (%v, %v), expected (%v, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
