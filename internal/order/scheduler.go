package order

import (
	"errors"
	"sync"
	"time"

	"gourmet/internal/models"

	"go.uber.org/zap"
)

// Step is a single scheduled status change, relative to when it was scheduled
type Step struct {
	After  time.Duration      `yaml:"after"`
	Status models.OrderStatus `yaml:"status"`
}

// DefaultSteps is the scripted progression applied after checkout
var DefaultSteps = []Step{
	{After: 3 * time.Second, Status: models.OrderStatusConfirmed},
	{After: 6 * time.Second, Status: models.OrderStatusPreparing},
	{After: 9 * time.Second, Status: models.OrderStatusOutForDelivery},
	{After: 12 * time.Second, Status: models.OrderStatusDelivered},
}

// AdvanceFunc applies a status change to the order with the given id
type AdvanceFunc func(orderID string, to models.OrderStatus) (models.Order, error)

// Scheduler fires delayed status changes keyed by order id
type Scheduler struct {
	mu      sync.Mutex
	pending map[string][]*pendingStep
	advance AdvanceFunc
	logger  *zap.SugaredLogger
}

// pendingStep is allocated before its timer is armed so the callback never
// reads a variable written by the scheduling goroutine.
type pendingStep struct {
	status models.OrderStatus
	timer  *time.Timer
}

// NewScheduler creates a scheduler that applies steps through advance
func NewScheduler(advance AdvanceFunc, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		pending: make(map[string][]*pendingStep),
		advance: advance,
		logger:  logger,
	}
}

// Schedule arms one timer per step for orderID
func (s *Scheduler) Schedule(orderID string, steps []Step) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, step := range steps {
		e := &pendingStep{status: step.Status}
		s.pending[orderID] = append(s.pending[orderID], e)
		e.timer = time.AfterFunc(step.After, func() {
			s.fire(orderID, e)
		})
	}
}

// Cancel stops the pending steps of orderID. A step whose timer already
// fired but has not run yet is discarded as well.
func (s *Scheduler) Cancel(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.pending[orderID] {
		e.timer.Stop()
	}
	delete(s.pending, orderID)
}

// CancelAll stops every pending step
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, steps := range s.pending {
		for _, e := range steps {
			e.timer.Stop()
		}
		delete(s.pending, id)
	}
}

// Pending returns how many steps are still waiting for orderID
func (s *Scheduler) Pending(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[orderID])
}

func (s *Scheduler) fire(orderID string, e *pendingStep) {
	s.mu.Lock()
	steps := s.pending[orderID]
	idx := -1
	for i, candidate := range steps {
		if candidate == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	steps = append(steps[:idx], steps[idx+1:]...)
	if len(steps) == 0 {
		delete(s.pending, orderID)
	} else {
		s.pending[orderID] = steps
	}
	s.mu.Unlock()

	status := e.status
	if _, err := s.advance(orderID, status); err != nil {
		if errors.Is(err, ErrStaleOrder) {
			s.logger.Debugw("Discarded scheduled advance", "order_id", orderID, "status", status)
			return
		}
		s.logger.Warnw("Scheduled advance rejected", "order_id", orderID, "status", status, "error", err)
	}
}
