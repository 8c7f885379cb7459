package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.user_id, lr.type, lr.start_date, lr.end_date, lr.reason, lr.emergency_contact,
		   lr.status, lr.approved_by, lr.approved_at, lr.created_at,
		   p.name AS employee_name, p.department AS employee_department
	FROM leave_requests lr
	JOIN profiles p ON lr.user_id = p.id
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var employeeName string
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.Type,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&lr.EmergencyContact,
		&lr.Status,
		&lr.ApprovedBy,
		&lr.ApprovedAt,
		&lr.CreatedAt,
		&employeeName,
		&lr.EmployeeDepartment,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.EmployeeName = &employeeName
	return lr, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, user_id, type, start_date, end_date, reason, emergency_contact, status, created_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW()
		) RETURNING id, created_at
	`

	if request.Status == "" {
		request.Status = leave.LeaveRequestStatusPending
	}

	err := q.QueryRow(ctx, query,
		request.UserID, request.Type, request.StartDate, request.EndDate,
		request.Reason, request.EmergencyContact, request.Status,
	).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+` WHERE lr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

func buildLeaveRequestWhere(filter leave.LeaveRequestFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Department != nil && filter.IncludeUnassigned {
		conditions = append(conditions, fmt.Sprintf("(p.department = $%d OR p.department IS NULL)", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	} else if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("p.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("lr.end_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("lr.start_date <= $%d", argIdx))
		args = append(args, *filter.To)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildLeaveRequestWhere(filter)
	query := leaveRequestSelect + whereClause + ` ORDER BY lr.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Count implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Count(ctx context.Context, filter leave.LeaveRequestFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildLeaveRequestWhere(filter)
	query := `SELECT COUNT(*) FROM leave_requests lr JOIN profiles p ON lr.user_id = p.id ` + whereClause

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return total, nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, status leave.LeaveRequestStatus, approverID string, at time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by = $3, approved_at = $4
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := q.Exec(ctx, query, id, status, approverID, at)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either gone or already decided.
		if _, err := r.GetByID(ctx, id); err != nil {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	return r.GetByID(ctx, id)
}
