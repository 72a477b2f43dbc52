package aferrors

import "errors"

var (
	ErrAlertNotActive     = errors.New("alert is not in the active set")
	ErrSilenceNotFound    = errors.New("silence not found")
	ErrInvalidPayload     = errors.New("invalid alert payload")
	ErrInvalidToken       = errors.New("invalid token")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrChannelUnavailable = errors.New("notification channel unavailable")
	ErrSnapshotNotFound   = errors.New("active snapshot not found")
)
