package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, name, email, role, department, join_date, password_hash, google_id, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.Department,
		&u.JoinDate,
		&u.PasswordHash,
		&u.GoogleID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (id, name, email, role, department, join_date, password_hash, google_id, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		u.Name, normalizeEmail(u.Email), u.Role, u.Department, u.JoinDate, u.PasswordHash, u.GoogleID,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "profiles_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM profiles WHERE ` + where
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", strings.TrimSpace(email))
}

// GetByGoogleID implements user.UserRepository.
func (r *userRepositoryImpl) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	return r.getOne(ctx, "google_id = $1", googleID)
}

func buildUserWhere(filter user.UserFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.JoinedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("join_date >= $%d", argIdx))
		args = append(args, *filter.JoinedFrom)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildUserWhere(filter)

	orderBy := "name ASC"
	if filter.OrderBy == "join_date" {
		orderBy = "join_date DESC, created_at DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles %s ORDER BY %s`, userColumns, whereClause, orderBy)
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count implements user.UserRepository.
func (r *userRepositoryImpl) Count(ctx context.Context, filter user.UserFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args := buildUserWhere(filter)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM profiles `+whereClause, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return total, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, id string, req user.UpdateProfileRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, strings.TrimSpace(*req.Name))
		argIdx++
	}
	if req.Department != nil {
		updates = append(updates, fmt.Sprintf("department = NULLIF($%d, '')", argIdx))
		args = append(args, strings.TrimSpace(*req.Department))
		argIdx++
	}
	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d`, strings.Join(updates, ", "), argIdx)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// LinkGoogle implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogle(ctx context.Context, id string, googleID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE profiles SET google_id = $1, updated_at = NOW() WHERE id = $2`, googleID, id)
	if err != nil {
		if database.IsUniqueViolation(err, "profiles_google_id_key") {
			return user.ErrGoogleIDExists
		}
		return fmt.Errorf("failed to link google account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Emails are stored lowercased so lookups and the LOWER(email) index agree.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
