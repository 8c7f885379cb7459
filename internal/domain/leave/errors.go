package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrSelfApproval                 = errors.New("Cannot decide on your own leave request")
	ErrInvalidDateRange             = errors.New("End date must be on or after start date")
)
