package service

import (
	"errors"

	"auraverse/internal/store"
)

// failureReason maps a business failure to a stable metric label.
func failureReason(err error) string {
	var fundsErr *store.InsufficientFundsError
	var stockErr *store.InsufficientStockError

	switch {
	case errors.As(err, &fundsErr):
		return "insufficient_funds"
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.Is(err, store.ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, store.ErrReceiverNotFound):
		return "receiver_not_found"
	case errors.Is(err, store.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, store.ErrInvalidAmount), errors.Is(err, store.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
