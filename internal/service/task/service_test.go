package task

import (
	"context"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store    *fixtures.Store
	svc      task.TaskService
	owner    user.Actor
	admin    user.Actor
	employee user.Actor
	outsider user.Actor
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()
	store := fixtures.NewStore()

	mk := func(name, email string, role user.Role, dept *string) user.Actor {
		u, err := store.Users().Create(ctx, user.User{Name: name, Email: email, Role: role, Department: dept})
		require.NoError(t, err)
		return user.Actor{ID: u.ID, Role: u.Role, Department: u.Department}
	}

	return testEnv{
		store:    store,
		svc:      NewTaskService(store.Tasks(), store.Users()),
		owner:    mk("Olga Owner", "olga@example.com", user.RoleOwner, nil),
		admin:    mk("Ada Admin", "ada@example.com", user.RoleAdmin, fixtures.StrPtr("Engineering")),
		employee: mk("Eve Employee", "eve@example.com", user.RoleEmployee, fixtures.StrPtr("Engineering")),
		outsider: mk("Sam Sales", "sam@example.com", user.RoleEmployee, fixtures.StrPtr("Sales")),
	}
}

func (e testEnv) assign(t *testing.T, by user.Actor, to user.Actor) task.TaskResponse {
	t.Helper()
	created, err := e.svc.AssignTask(context.Background(), by, task.AssignTaskRequest{
		Title:      "Write release notes",
		AssigneeID: to.ID,
		Priority:   task.PriorityHigh,
	})
	require.NoError(t, err)
	return created
}

func TestAssignTask(t *testing.T) {
	env := newTestEnv(t)

	created := env.assign(t, env.admin, env.employee)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Equal(t, "red", created.PriorityColor)
	assert.Equal(t, "gray", created.StatusColor)
	assert.True(t, created.CanComplete)
	assert.Equal(t, env.admin.ID, created.AssignedBy)
	require.NotNil(t, created.AssigneeName)
	assert.Equal(t, "Eve Employee", *created.AssigneeName)
}

func TestAssignTask_Guards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name  string
		actor user.Actor
		req   task.AssignTaskRequest
		want  error
	}{
		{
			name:  "employee cannot assign",
			actor: env.employee,
			req:   task.AssignTaskRequest{Title: "x", AssigneeID: env.outsider.ID},
			want:  user.ErrManagerAccessRequired,
		},
		{
			name:  "admin limited to department",
			actor: env.admin,
			req:   task.AssignTaskRequest{Title: "x", AssigneeID: env.outsider.ID},
			want:  user.ErrOutsideTeam,
		},
		{
			name:  "unknown assignee",
			actor: env.owner,
			req:   task.AssignTaskRequest{Title: "x", AssigneeID: "00000000-0000-0000-0000-000000000000"},
			want:  task.ErrAssigneeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.AssignTask(ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	total, err := env.store.Tasks().Count(ctx, task.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestTaskStatusOnlyAdvances(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	created := env.assign(t, env.owner, env.employee)

	started, err := env.svc.StartTask(ctx, env.employee, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, started.Status)

	_, err = env.svc.StartTask(ctx, env.employee, created.ID)
	assert.ErrorIs(t, err, task.ErrInvalidTransition)

	done, err := env.svc.CompleteTask(ctx, env.employee, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, done.Status)
	assert.False(t, done.CanComplete)

	_, err = env.svc.CompleteTask(ctx, env.employee, created.ID)
	assert.ErrorIs(t, err, task.ErrTaskAlreadyCompleted)

	_, err = env.svc.StartTask(ctx, env.employee, created.ID)
	assert.ErrorIs(t, err, task.ErrTaskAlreadyCompleted)

	stored, err := env.store.Tasks().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, stored.Status)
}

func TestCompleteTask_FromPending(t *testing.T) {
	env := newTestEnv(t)
	created := env.assign(t, env.admin, env.employee)

	done, err := env.svc.CompleteTask(context.Background(), env.employee, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, done.Status)
}

func TestCompleteTask_Permissions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	created := env.assign(t, env.owner, env.employee)

	_, err := env.svc.CompleteTask(ctx, env.outsider, created.ID)
	assert.ErrorIs(t, err, task.ErrNotTaskAssignee)

	_, err = env.svc.CompleteTask(ctx, env.admin, created.ID)
	assert.NoError(t, err)

	_, err = env.svc.CompleteTask(ctx, env.employee, "missing")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestListTasks_Scope(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.assign(t, env.owner, env.employee)
	env.assign(t, env.owner, env.outsider)

	team, err := env.svc.ListTasks(ctx, env.admin, task.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), team.Total)

	all, err := env.svc.ListTasks(ctx, env.owner, task.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	mine, err := env.svc.ListMyTasks(ctx, env.outsider, task.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, mine.Tasks, 1)
	assert.Equal(t, env.outsider.ID, mine.Tasks[0].AssigneeID)

	_, err = env.svc.ListTasks(ctx, env.employee, task.TaskFilter{})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

// uuidColumnTasks fails the way a uuid column does on malformed input.
type uuidColumnTasks struct {
	task.TaskRepository
}

func (r uuidColumnTasks) GetByID(ctx context.Context, id string) (task.Task, error) {
	if !validator.IsValidUUID(id) {
		return task.Task{}, fmt.Errorf("failed to get task: invalid input syntax for type uuid: %q", id)
	}
	return r.TaskRepository.GetByID(ctx, id)
}

func TestAdvanceTask_MalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewTaskService(uuidColumnTasks{env.store.Tasks()}, env.store.Users())

	_, err := svc.StartTask(ctx, env.employee, "abc")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	_, err = svc.CompleteTask(ctx, env.employee, "not-a-uuid")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}
