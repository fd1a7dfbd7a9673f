package store

import (
	"errors"
	"fmt"

	"auraverse/internal/models"
)

// Business-rule failures. Operations report these as values; callers
// distinguish them with errors.Is/As. Anything else coming out of the
// store is a fault (corrupt row, failed statement) and propagates as-is.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrSelfTransfer       = errors.New("cannot transfer to yourself")
	ErrBrandNotFound      = errors.New("brand not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrDesignNotFound     = errors.New("design not found")
	ErrDesignNotForSale   = errors.New("design is not for sale")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidInput       = errors.New("invalid input")
)

// InsufficientFundsError reports which balance fell short, with enough
// detail for the caller to render an actionable message.
type InsufficientFundsError struct {
	UserID    string
	Currency  models.Currency
	Available int64
	Requested int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s balance for user %s: available=%d, requested=%d",
		e.Currency, e.UserID, e.Available, e.Requested)
}

// InsufficientStockError reports a per-item stock failure during a
// strict-mode checkout.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}
