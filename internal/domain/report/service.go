package report

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type WorkReportService interface {
	SubmitWorkReport(ctx context.Context, actor user.Actor, req SubmitWorkReportRequest) (WorkReportResponse, error)
	ListMyWorkReports(ctx context.Context, actor user.Actor, filter WorkReportFilter) (ListWorkReportResponse, error)
	ListWorkReports(ctx context.Context, actor user.Actor, filter WorkReportFilter) (ListWorkReportResponse, error)
	// ExportWorkReports renders the scoped reports of a period as a spreadsheet.
	ExportWorkReports(ctx context.Context, actor user.Actor, filter WorkReportFilter) ([]byte, error)
}
