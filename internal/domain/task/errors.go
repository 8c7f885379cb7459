package task

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrInvalidTransition    = errors.New("task status can only move forward")
	ErrNotTaskAssignee      = errors.New("task is not assigned to you")
	ErrAssigneeNotFound     = errors.New("assignee not found")
)
