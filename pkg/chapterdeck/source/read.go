package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/parser"
)

// LegacyCharset decodes csv files that are not valid UTF-8 and names the
// charset handed to the xls reader.
var LegacyCharset = "windows-1252"

// ReadAny parses one sheet of a csv, xls or xlsx file into a frame.
// An empty sheet selects the first one; sheet names match case-insensitively.
// csv files have a single unnamed sheet and ignore the argument.
func ReadAny(ctx context.Context, path, sheet string) (models.Frame, error) {
	if err := ctx.Err(); err != nil {
		return models.Frame{}, err
	}

	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Frame{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return models.Frame{}, err
	}
	kind, err := DetectKind(fh, path)
	fh.Close()
	if err != nil {
		return models.Frame{}, fmt.Errorf("detect %q: %w", path, err)
	}

	var (
		sheetName string
		rows      [][]string
	)
	switch kind {
	case KindXLSX:
		sheetName, rows, err = readXLSX(path, sheet)
	case KindXLS:
		sheetName, rows, err = readXLS(ctx, path, sheet)
	default:
		rows, err = readCSV(ctx, path)
	}
	if err != nil {
		return models.Frame{}, err
	}
	return parser.ToFrame(rows, path, sheetName, parser.DefaultTableParams()), nil
}

func readXLSX(path, sheet string) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	if sheet != "" {
		name, ok := matchSheet(f.GetSheetList(), sheet)
		if !ok {
			return "", nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, path)
		}
		sheet = name
	}
	name, rows, err := parser.ExtractRows(f, sheet)
	if err != nil {
		return name, nil, fmt.Errorf("read %q!%s: %w", path, name, err)
	}
	return name, rows, nil
}

func readXLS(ctx context.Context, path, sheet string) (string, [][]string, error) {
	wb, err := xls.Open(path, LegacyCharset)
	if err != nil {
		return "", nil, fmt.Errorf("open %q: %w", path, err)
	}

	var ws *xls.WorkSheet
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	if len(names) == 0 {
		return "", nil, nil
	}
	want := names[0]
	if sheet != "" {
		name, ok := matchSheet(names, sheet)
		if !ok {
			return "", nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, path)
		}
		want = name
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == want {
			ws = s
			break
		}
	}

	rows, err := xlsRows(ctx, ws)
	if err != nil {
		return want, nil, err
	}
	return want, rows, nil
}

// xlsRows lists every row up to MaxRow; rows the sheet does not store come
// back nil.
func xlsRows(ctx context.Context, ws *xls.WorkSheet) ([][]string, error) {
	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for n := 0; n <= int(ws.MaxRow); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := xlsRow(ws, n)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		vals := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			vals[j] = row.Col(j)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// xlsRow returns row n or nil when the sheet has no record for it.
// WorkSheet.Row dereferences the missing entry, so the fault is absorbed here.
func xlsRow(ws *xls.WorkSheet, n int) (row *xls.Row) {
	defer func() {
		if r := recover(); r != nil {
			row = nil
		}
	}()
	return ws.Row(n)
}

func readCSV(ctx context.Context, path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		enc, err := htmlindex.Get(LegacyCharset)
		if err != nil {
			return nil, fmt.Errorf("charset %q: %w", LegacyCharset, err)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of , ; tab | on the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

func matchSheet(names []string, want string) (string, bool) {
	for _, n := range names {
		if n == want {
			return n, true
		}
	}
	folded := NormalizeName(want)
	for _, n := range names {
		if NormalizeName(n) == folded {
			return n, true
		}
	}
	return "", false
}
