package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leaveRepo leave.LeaveRequestRepository
	now       func() time.Time
}

func NewLeaveService(leaveRepo leave.LeaveRequestRepository) leave.LeaveService {
	return &LeaveServiceImpl{
		leaveRepo: leaveRepo,
		now:       time.Now,
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, actor user.Actor, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	start, end := req.Dates()

	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		UserID:           actor.ID,
		Type:             req.Type,
		StartDate:        start,
		EndDate:          end,
		Reason:           req.Reason,
		EmergencyContact: req.EmergencyContact,
		Status:           leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(created), nil
}

// DecideLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) DecideLeaveRequest(ctx context.Context, actor user.Actor, requestID string, approved bool) (leave.LeaveRequestResponse, error) {
	if !actor.IsManager() {
		return leave.LeaveRequestResponse{}, user.ErrManagerAccessRequired
	}
	if !validator.IsValidUUID(requestID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	existing, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if existing.UserID == actor.ID {
		return leave.LeaveRequestResponse{}, leave.ErrSelfApproval
	}
	if !actor.CanApproveFor(existing.EmployeeDepartment) {
		return leave.LeaveRequestResponse{}, user.ErrOutsideTeam
	}
	if !existing.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	status := leave.LeaveRequestStatusRejected
	if approved {
		status = leave.LeaveRequestStatusApproved
	}

	// The repository re-checks pending inside the UPDATE, so a concurrent
	// decision still loses with ErrLeaveRequestAlreadyProcessed.
	decided, err := s.leaveRepo.Decide(ctx, requestID, status, actor.ID, s.now().UTC())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(decided), nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, actor user.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(requestID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	lr, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if lr.UserID != actor.ID {
		if !actor.IsManager() {
			return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
		}
		if !actor.CanApproveFor(lr.EmployeeDepartment) {
			return leave.LeaveRequestResponse{}, user.ErrOutsideTeam
		}
	}

	return leave.NewLeaveRequestResponse(lr), nil
}

// ListMyLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMyLeaveRequests(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	filter.UserID = &actor.ID
	filter.Department = nil
	return s.list(ctx, filter)
}

// ListLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if !actor.IsManager() {
		return leave.ListLeaveRequestResponse{}, user.ErrManagerAccessRequired
	}
	filter.Department = actor.TeamScope()
	filter.IncludeUnassigned = true
	return s.list(ctx, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	items, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	total, err := s.leaveRepo.Count(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	return leave.ListLeaveRequestResponse{
		LeaveRequests: leave.NewLeaveRequestResponses(items),
		Total:         total,
	}, nil
}
