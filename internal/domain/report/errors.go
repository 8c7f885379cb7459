package report

import "errors"

var (
	ErrWorkReportNotFound = errors.New("work report not found")
	ErrInvalidPeriod      = errors.New("from must be on or before to")
)
