package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.assignee_id, t.assigned_by, t.priority, t.status,
		   t.due_date, t.category, t.created_at, t.updated_at,
		   p.name AS assignee_name, p.department AS assignee_department
	FROM tasks t
	JOIN profiles p ON t.assignee_id = p.id
`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var assigneeName string
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.AssigneeID,
		&t.AssignedBy,
		&t.Priority,
		&t.Status,
		&t.DueDate,
		&t.Category,
		&t.CreatedAt,
		&t.UpdatedAt,
		&assigneeName,
		&t.AssigneeDepartment,
	)
	if err != nil {
		return task.Task{}, err
	}
	t.AssigneeName = &assigneeName
	return t, nil
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (
			id, title, description, assignee_id, assigned_by, priority, status, due_date, category, created_at, updated_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	if t.Status == "" {
		t.Status = task.StatusPending
	}

	err := q.QueryRow(ctx, query,
		t.Title, t.Description, t.AssigneeID, t.AssignedBy, t.Priority, t.Status, t.DueDate, t.Category,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTask(q.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func buildTaskWhere(filter task.TaskFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf("t.assignee_id = $%d", argIdx))
		args = append(args, *filter.AssigneeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.ExcludeStatus != nil {
		conditions = append(conditions, fmt.Sprintf("t.status <> $%d", argIdx))
		args = append(args, *filter.ExcludeStatus)
		argIdx++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("p.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.UpdatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("t.updated_at >= $%d", argIdx))
		args = append(args, *filter.UpdatedFrom)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List implements task.TaskRepository.
func (r *taskRepositoryImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildTaskWhere(filter)

	orderBy := "t.created_at DESC"
	if filter.OrderBy == "due_date" {
		orderBy = "t.due_date ASC NULLS LAST, t.created_at DESC"
	}

	query := taskSelect + whereClause + ` ORDER BY ` + orderBy
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Count implements task.TaskRepository.
func (r *taskRepositoryImpl) Count(ctx context.Context, filter task.TaskFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildTaskWhere(filter)
	query := `SELECT COUNT(*) FROM tasks t JOIN profiles p ON t.assignee_id = p.id ` + whereClause

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, nil
}

// AdvanceStatus implements task.TaskRepository.
func (r *taskRepositoryImpl) AdvanceStatus(ctx context.Context, id string, from []task.Status, to task.Status) (bool, error) {
	q := GetQuerier(ctx, r.db)

	fromValues := make([]string, 0, len(from))
	for _, s := range from {
		fromValues = append(fromValues, string(s))
	}

	query := `
		UPDATE tasks
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`
	tag, err := q.Exec(ctx, query, id, to, fromValues)
	if err != nil {
		return false, fmt.Errorf("failed to update task status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
