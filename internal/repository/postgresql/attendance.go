package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.status, a.notes, a.created_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Date,
		&a.CheckInTime,
		&a.CheckOutTime,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
	)
	return a, err
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.user_id = $1 AND a.date = $2`
	a, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// CheckIn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CheckIn(ctx context.Context, userID string, date time.Time, at time.Time, notes *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance AS a (id, user_id, date, check_in_time, status, notes, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, 'checked_in', $4, NOW())
		ON CONFLICT (user_id, date) DO UPDATE SET
			check_in_time = COALESCE(a.check_in_time, EXCLUDED.check_in_time),
			check_out_time = NULL,
			status = 'checked_in',
			notes = COALESCE(EXCLUDED.notes, a.notes)
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query, userID, date, at, notes))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to check in: %w", err)
	}
	return a, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CheckOut(ctx context.Context, id string, at time.Time, notes *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance AS a
		SET check_out_time = $2, status = 'checked_out', notes = COALESCE($3, a.notes)
		WHERE a.id = $1 AND a.status = 'checked_in' AND a.check_out_time IS NULL
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query, id, at, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check out: %w", err)
	}
	return a, nil
}

func buildAttendanceWhere(filter attendance.AttendanceFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("p.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *filter.To)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildAttendanceWhere(filter)
	query := `SELECT ` + attendanceColumns + `, p.name FROM attendance a JOIN profiles p ON a.user_id = p.id ` +
		whereClause + ` ORDER BY a.date DESC, p.name ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var a attendance.Attendance
		var employeeName string
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Date, &a.CheckInTime, &a.CheckOutTime, &a.Status, &a.Notes, &a.CreatedAt,
			&employeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		a.EmployeeName = &employeeName
		records = append(records, a)
	}
	return records, rows.Err()
}

// Count implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Count(ctx context.Context, filter attendance.AttendanceFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildAttendanceWhere(filter)
	query := `SELECT COUNT(*) FROM attendance a JOIN profiles p ON a.user_id = p.id ` + whereClause

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return total, nil
}

// CloseStale implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CloseStale(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance AS a
		SET status = 'incomplete'
		WHERE a.date < $1 AND a.status = 'checked_in' AND a.check_out_time IS NULL
		RETURNING ` + attendanceColumns

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to close stale attendance: %w", err)
	}
	defer rows.Close()

	closed := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		closed = append(closed, a)
	}
	return closed, rows.Err()
}
