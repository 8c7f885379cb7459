package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workReportRepositoryImpl struct {
	db *database.DB
}

func NewWorkReportRepository(db *database.DB) report.WorkReportRepository {
	return &workReportRepositoryImpl{db: db}
}

func scanWorkReport(row pgx.Row) (report.WorkReport, error) {
	var wr report.WorkReport
	var employeeName string
	err := row.Scan(
		&wr.ID,
		&wr.UserID,
		&wr.Date,
		&wr.HoursWorked,
		&wr.TasksCompleted,
		&wr.Achievements,
		&wr.Challenges,
		&wr.NextDayPlan,
		&wr.CreatedAt,
		&wr.UpdatedAt,
		&employeeName,
	)
	if err != nil {
		return report.WorkReport{}, err
	}
	wr.EmployeeName = &employeeName
	return wr, nil
}

// Upsert implements report.WorkReportRepository.
func (r *workReportRepositoryImpl) Upsert(ctx context.Context, wr report.WorkReport) (report.WorkReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH upserted AS (
			INSERT INTO work_reports (
				id, user_id, date, hours_worked, tasks_completed, achievements, challenges, next_day_plan, created_at, updated_at
			) VALUES (
				gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
			)
			ON CONFLICT (user_id, date) DO UPDATE SET
				hours_worked = EXCLUDED.hours_worked,
				tasks_completed = EXCLUDED.tasks_completed,
				achievements = EXCLUDED.achievements,
				challenges = EXCLUDED.challenges,
				next_day_plan = EXCLUDED.next_day_plan,
				updated_at = NOW()
			RETURNING *
		)
		SELECT u.id, u.user_id, u.date, u.hours_worked, u.tasks_completed, u.achievements, u.challenges,
			   u.next_day_plan, u.created_at, u.updated_at, p.name
		FROM upserted u
		JOIN profiles p ON u.user_id = p.id
	`

	saved, err := scanWorkReport(q.QueryRow(ctx, query,
		wr.UserID, wr.Date, wr.HoursWorked, wr.TasksCompleted, wr.Achievements, wr.Challenges, wr.NextDayPlan,
	))
	if err != nil {
		return report.WorkReport{}, fmt.Errorf("failed to upsert work report: %w", err)
	}
	return saved, nil
}

func buildWorkReportWhere(filter report.WorkReportFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("wr.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("p.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("wr.date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("wr.date <= $%d", argIdx))
		args = append(args, *filter.To)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List implements report.WorkReportRepository.
func (r *workReportRepositoryImpl) List(ctx context.Context, filter report.WorkReportFilter) ([]report.WorkReport, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildWorkReportWhere(filter)
	query := `
		SELECT wr.id, wr.user_id, wr.date, wr.hours_worked, wr.tasks_completed, wr.achievements, wr.challenges,
			   wr.next_day_plan, wr.created_at, wr.updated_at, p.name
		FROM work_reports wr
		JOIN profiles p ON wr.user_id = p.id
	` + whereClause + ` ORDER BY wr.date DESC, p.name ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work reports: %w", err)
	}
	defer rows.Close()

	reports := make([]report.WorkReport, 0)
	for rows.Next() {
		wr, err := scanWorkReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work report: %w", err)
		}
		reports = append(reports, wr)
	}
	return reports, rows.Err()
}

// Count implements report.WorkReportRepository.
func (r *workReportRepositoryImpl) Count(ctx context.Context, filter report.WorkReportFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildWorkReportWhere(filter)
	query := `SELECT COUNT(*) FROM work_reports wr JOIN profiles p ON wr.user_id = p.id ` + whereClause

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count work reports: %w", err)
	}
	return total, nil
}
