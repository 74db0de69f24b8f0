package source

import "errors"

// ErrFileNotFound indicates no workbook matched the requested keyword or path.
var ErrFileNotFound = errors.New("file not found")

// ErrSheetNotFound indicates the workbook has no sheet with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")
