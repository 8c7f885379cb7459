package report

import (
	"context"
	"time"
)

// WorkReportFilter narrows list and count queries.
type WorkReportFilter struct {
	UserID     *string
	Department *string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// WorkReportRepository - interface for work_reports table
type WorkReportRepository interface {
	// Upsert inserts the report or replaces the one already stored for the
	// same user and date.
	Upsert(ctx context.Context, r WorkReport) (WorkReport, error)
	List(ctx context.Context, filter WorkReportFilter) ([]WorkReport, error)
	Count(ctx context.Context, filter WorkReportFilter) (int64, error)
}
