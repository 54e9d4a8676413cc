package persistence

import (
	"context"
	"fmt"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/cortecaja/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderReader reads delivered orders from the order service tables
type GormOrderReader struct {
	db *gorm.DB
}

// NewGormOrderReader creates a new GormOrderReader
func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

// ListDeliveredOrders returns the worker's delivered orders whose delivery
// instant falls inside the bounds (both ends inclusive)
func (r *GormOrderReader) ListDeliveredOrders(ctx context.Context, workerID uuid.UUID, bounds settlement.DayBounds) ([]settlement.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("worker_id = ? AND status = ?", workerID, models.OrderStatusDelivered).
		Where("delivered_at BETWEEN ? AND ?", bounds.Start.UTC(), bounds.End.UTC()).
		Order("delivered_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query delivered orders: %w", err)
	}

	orders := make([]settlement.Order, len(rows))
	for i := range rows {
		orders[i] = rows[i].ToDomain()
	}
	return orders, nil
}

var _ settlement.OrderReader = (*GormOrderReader)(nil)
