package parser

import (
	"reflect"
	"testing"
)

func TestDetectTable(t *testing.T) {
	rows := [][]string{
		{},
		{"", "Squad", "Mes"},
		{"", "Alpha", "Ene"},
		{"", "Beta", "Feb"},
	}

	b, ok := DetectTable(rows, DefaultTableParams())
	if !ok {
		t.Fatal("Expected a table")
	}
	if b.Range() != "B2:C4" {
		t.Errorf("Range() = %q, expected B2:C4", b.Range())
	}

	if _, ok := DetectTable([][]string{{"only"}}, DefaultTableParams()); ok {
		t.Error("Expected no table for a single cell")
	}
	if _, ok := DetectTable(nil, DefaultTableParams()); ok {
		t.Error("Expected no table for an empty grid")
	}
}

func TestDetectHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Reporte NM 25/04/25"},
		{"Chapter Leader", "SQUAD", "LEP_1", "LEP_2"},
		{"ANA", "Alpha", "3", "4"},
	}
	b, ok := DetectTable(rows, DefaultTableParams())
	if !ok {
		t.Fatal("Expected a table")
	}
	if got := DetectHeaderRow(rows, b, DefaultTableParams()); got != 1 {
		t.Errorf("DetectHeaderRow() = %d, expected 1", got)
	}
}

func TestToFrame(t *testing.T) {
	rows := [][]string{
		{"Titulo"},
		{"Nombres", "", "Nombres", "Dedicación"},
		{"Ana", "x", "Ana", "0.5"},
		{"", "", "", ""},
		{"Luis"},
	}

	frame := ToFrame(rows, "dr.xlsx", "Hoja1", DefaultTableParams())

	wantCols := []string{"Nombres", "Unnamed: 1", "Nombres.1", "Dedicación"}
	if !reflect.DeepEqual(frame.Columns, wantCols) {
		t.Errorf("Columns = %v, expected %v", frame.Columns, wantCols)
	}
	if frame.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", frame.Len())
	}
	if !reflect.DeepEqual(frame.Rows[1], []string{"Luis", "", "", ""}) {
		t.Errorf("Expected padded row, got %v", frame.Rows[1])
	}
	if frame.Sheet != "Hoja1" || frame.Source != "dr.xlsx" {
		t.Errorf("Unexpected frame origin %q/%q", frame.Source, frame.Sheet)
	}
}

func TestToFrameEmpty(t *testing.T) {
	frame := ToFrame(nil, "empty.csv", "", DefaultTableParams())
	if len(frame.Columns) != 0 || !frame.Empty() {
		t.Errorf("Expected empty frame, got %+v", frame)
	}
}
