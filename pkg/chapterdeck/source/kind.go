package source

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Kind is a spreadsheet container format.
type Kind string

const (
	KindUnknown = Kind("")
	KindCSV     = Kind("csv")
	KindXLS     = Kind("xls")
	KindXLSX    = Kind("xlsx")
)

var (
	magicOLE2 = []byte{0xd0, 0xcf, 0x11, 0xe0}
	magicZip  = []byte{0x50, 0x4b, 0x03, 0x04}
)

// DetectKind sniffs the first bytes of r, falling back to the file extension.
func DetectKind(r io.Reader, fileName string) (Kind, error) {
	var b [4]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}
	switch {
	case n == 4 && bytes.Equal(b[:], magicOLE2):
		return KindXLS, nil
	case n == 4 && bytes.Equal(b[:], magicZip):
		return KindXLSX, nil
	}
	return kindFromExt(fileName), nil
}

func kindFromExt(fileName string) Kind {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xls":
		return KindXLS
	case ".xlsx", ".xlsm":
		return KindXLSX
	default:
		return KindCSV
	}
}

// IsSpreadsheet reports whether a file name has a supported extension.
func IsSpreadsheet(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}
