package order

import (
	"errors"
	"fmt"

	"gourmet/internal/models"
)

// ErrInvalidTransition is matched by every rejected status change
var ErrInvalidTransition = errors.New("invalid order status transition")

var (
	// ErrNoActiveOrder is returned when a status change is requested with no tracked order
	ErrNoActiveOrder = fmt.Errorf("%w: no active order", ErrInvalidTransition)
	// ErrStaleOrder is returned when a status change targets an order that has been replaced
	ErrStaleOrder = fmt.Errorf("%w: order is no longer current", ErrInvalidTransition)
)

// TransitionError describes a status change that would not move the order forward
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %q to %q", e.From, e.To)
}

// Is lets errors.Is match a TransitionError against ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
