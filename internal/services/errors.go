package services

import "errors"

var (
	// ErrPaymentPostingFailed wraps transactional failures while posting a
	// payment. The posting left no partial state; callers may retry.
	ErrPaymentPostingFailed = errors.New("payment posting failed")
)
