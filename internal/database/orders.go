package database

import (
	"errors"
	"fmt"
	"time"

	"gourmet/internal/models"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when no stored order has the requested id
var ErrOrderNotFound = errors.New("order not found")

// OrderStore keeps an audit trail of placed orders and their status changes
type OrderStore struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewOrderStore creates a store on an open, migrated database
func NewOrderStore(db *gorm.DB, logger *zap.SugaredLogger) *OrderStore {
	return &OrderStore{db: db, logger: logger}
}

// SaveOrder stores o with its items and its initial status transition
func (s *OrderStore) SaveOrder(sessionID string, o models.Order) error {
	record := models.NewOrderRecord(sessionID, o)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&models.StatusTransition{
			OrderID:   o.ID,
			ToStatus:  string(o.Status),
			ChangedAt: o.CreatedAt,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("save order %s: %w", o.ID, err)
	}
	return nil
}

// RecordTransition stores a status change and updates the order row
func (s *OrderStore) RecordTransition(o models.Order, from models.OrderStatus) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderRecord{}).
			Where("order_id = ?", o.ID).
			Update("status", string(o.Status))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		changedAt := o.UpdatedAt
		if changedAt.IsZero() {
			changedAt = time.Now()
		}
		return tx.Create(&models.StatusTransition{
			OrderID:    o.ID,
			FromStatus: string(from),
			ToStatus:   string(o.Status),
			ChangedAt:  changedAt,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("record transition for %s: %w", o.ID, err)
	}
	return nil
}

// GetOrder loads a stored order with its items
func (s *OrderStore) GetOrder(orderID string) (models.Order, error) {
	var record models.OrderRecord
	err := s.db.Preload("Items").Where("order_id = ?", orderID).First(&record).Error
	if gorm.IsRecordNotFoundError(err) {
		return models.Order{}, fmt.Errorf("%s: %w", orderID, ErrOrderNotFound)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("load order %s: %w", orderID, err)
	}
	return record.ToOrder(), nil
}

// ListTransitions returns the status history of an order, oldest first
func (s *OrderStore) ListTransitions(orderID string) ([]models.StatusTransition, error) {
	var transitions []models.StatusTransition
	if err := s.db.Where("order_id = ?", orderID).Order("id asc").Find(&transitions).Error; err != nil {
		return nil, fmt.Errorf("list transitions for %s: %w", orderID, err)
	}
	return transitions, nil
}

// ListBySession returns the orders placed in a session, newest first
func (s *OrderStore) ListBySession(sessionID string) ([]models.Order, error) {
	var records []models.OrderRecord
	if err := s.db.Preload("Items").Where("session_id = ?", sessionID).Order("id desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list orders for session %s: %w", sessionID, err)
	}
	orders := make([]models.Order, len(records))
	for i, r := range records {
		orders[i] = r.ToOrder()
	}
	return orders, nil
}

// OrderCreated stores a new order. Failures are logged; the audit trail never
// blocks ordering.
func (s *OrderStore) OrderCreated(sessionID string, o models.Order) {
	if err := s.SaveOrder(sessionID, o); err != nil {
		s.logger.Errorw("Failed to store order", "order_id", o.ID, "error", err)
	}
}

// OrderStatusChanged stores a status transition
func (s *OrderStore) OrderStatusChanged(_ string, o models.Order, from models.OrderStatus) {
	if err := s.RecordTransition(o, from); err != nil {
		s.logger.Errorw("Failed to store status transition", "order_id", o.ID, "error", err)
	}
}
