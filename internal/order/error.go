package order

import "errors"

var (
	// -- Validation & Input --
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingAddress = errors.New("delivery address is required")
	ErrMissingPhone   = errors.New("contact phone is required")
	ErrInvalidStatus  = errors.New("invalid order status")

	// -- Resource State --
	ErrOrderNotFound  = errors.New("order not found")
	ErrSubmitInFlight = errors.New("order submission already in progress")

	// -- Database & Operation Failures --
	ErrOrderPersistFailed = errors.New("failed to persist order")
	ErrFailedListOrders   = errors.New("failed to list orders")
)
