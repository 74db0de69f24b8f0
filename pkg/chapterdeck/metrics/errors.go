package metrics

import "errors"

var (
	// ErrNoData is returned when no rows remain after filtering by chapter leader.
	ErrNoData = errors.New("no data for chapter leader")

	// ErrMissingColumn is returned when a required column is absent from the sheet.
	ErrMissingColumn = errors.New("missing column")
)
