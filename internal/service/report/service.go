package report

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/export"
)

// exportLimit caps the rows of a single spreadsheet export.
const exportLimit = 5000

type WorkReportServiceImpl struct {
	reportRepo report.WorkReportRepository
}

func NewWorkReportService(reportRepo report.WorkReportRepository) report.WorkReportService {
	return &WorkReportServiceImpl{reportRepo: reportRepo}
}

// SubmitWorkReport implements report.WorkReportService. A second submission
// for the same date replaces the first.
func (s *WorkReportServiceImpl) SubmitWorkReport(ctx context.Context, actor user.Actor, req report.SubmitWorkReportRequest) (report.WorkReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.WorkReportResponse{}, err
	}

	saved, err := s.reportRepo.Upsert(ctx, report.WorkReport{
		UserID:         actor.ID,
		Date:           req.ParsedDate(),
		HoursWorked:    req.HoursWorked,
		TasksCompleted: req.TasksCompleted,
		Achievements:   req.Achievements,
		Challenges:     req.Challenges,
		NextDayPlan:    req.NextDayPlan,
	})
	if err != nil {
		return report.WorkReportResponse{}, err
	}

	return report.NewWorkReportResponse(saved), nil
}

// ListMyWorkReports implements report.WorkReportService.
func (s *WorkReportServiceImpl) ListMyWorkReports(ctx context.Context, actor user.Actor, filter report.WorkReportFilter) (report.ListWorkReportResponse, error) {
	filter.UserID = &actor.ID
	filter.Department = nil
	return s.list(ctx, filter)
}

// ListWorkReports implements report.WorkReportService.
func (s *WorkReportServiceImpl) ListWorkReports(ctx context.Context, actor user.Actor, filter report.WorkReportFilter) (report.ListWorkReportResponse, error) {
	if !actor.IsManager() {
		return report.ListWorkReportResponse{}, user.ErrManagerAccessRequired
	}
	filter.Department = actor.TeamScope()
	return s.list(ctx, filter)
}

// ExportWorkReports implements report.WorkReportService.
func (s *WorkReportServiceImpl) ExportWorkReports(ctx context.Context, actor user.Actor, filter report.WorkReportFilter) ([]byte, error) {
	if !actor.IsManager() {
		return nil, user.ErrManagerAccessRequired
	}
	filter.Department = actor.TeamScope()
	filter.Limit = exportLimit
	filter.Offset = 0

	items, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return export.WorkReports(items)
}

func (s *WorkReportServiceImpl) list(ctx context.Context, filter report.WorkReportFilter) (report.ListWorkReportResponse, error) {
	items, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return report.ListWorkReportResponse{}, err
	}
	total, err := s.reportRepo.Count(ctx, filter)
	if err != nil {
		return report.ListWorkReportResponse{}, err
	}
	return report.ListWorkReportResponse{
		WorkReports: report.NewWorkReportResponses(items),
		Total:       total,
	}, nil
}
