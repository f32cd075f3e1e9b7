package domain

import "errors"

var (
	ErrSlotNotFound     = errors.New("slot not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrBoardNotFound    = errors.New("board mapping not found")
	ErrSecretNotFound   = errors.New("secret not found")

	// ErrInvalidSession marks a captured bundle that failed the acceptance
	// contract or a slot whose cookies no longer allow replay.
	ErrInvalidSession = errors.New("session data is not a valid signed-in session")

	// ErrIdentityUnknown marks an operation that needs a real user id but
	// only has the identity-unknown sentinel.
	ErrIdentityUnknown = errors.New("account identity is unknown")

	// ErrMissingSchedule rejects starting a task without a scheduled time
	// or article count.
	ErrMissingSchedule = errors.New("task has no scheduled time or article count")

	// ErrNotPending rejects starting a task that already left pending.
	ErrNotPending = errors.New("task is not pending")

	// ErrNoContent marks a generation call that produced nothing usable.
	ErrNoContent = errors.New("content generator returned nothing")
)
