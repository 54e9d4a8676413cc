package models

import (
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The models below map tables owned by other services. This service only
// reads them; they are migrated here for tests and local development.

// OrderStatusDelivered is the only order status that counts towards a settlement
const OrderStatusDelivered = "delivered"

// WorkerModel maps the workers table
type WorkerModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	Name            string     `gorm:"type:varchar(200);not null"`
	SiteID          *uuid.UUID `gorm:"type:uuid;index"`
	ServiceCategory string     `gorm:"type:varchar(64);index"`
}

// TableName returns the table name for GORM
func (WorkerModel) TableName() string {
	return "workers"
}

// ToDomain converts the persistence model to a domain Worker
func (m *WorkerModel) ToDomain() *settlement.Worker {
	return &settlement.Worker{
		ID:              m.ID,
		Name:            m.Name,
		SiteID:          m.SiteID,
		ServiceCategory: m.ServiceCategory,
	}
}

// OrderModel maps the orders table. payment_breakdown is kept as raw text
// because historical rows hold several shapes, some not even valid JSON.
type OrderModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	WorkerID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_worker_delivered,priority:1"`
	Status           string          `gorm:"type:varchar(32);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentBreakdown *string         `gorm:"type:text"`
	PaymentMethodID  *string         `gorm:"type:varchar(64)"`
	DeliveredAt      *time.Time      `gorm:"index:idx_orders_worker_delivered,priority:2"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() settlement.Order {
	o := settlement.Order{
		ID:       m.ID,
		WorkerID: m.WorkerID,
		Total:    m.Total,
	}
	if m.PaymentBreakdown != nil {
		o.PaymentBreakdown = []byte(*m.PaymentBreakdown)
	}
	if m.PaymentMethodID != nil {
		o.MethodRef = *m.PaymentMethodID
	}
	if m.DeliveredAt != nil {
		o.OccurredAt = *m.DeliveredAt
	}
	return o
}

// CreditPaymentModel maps the credit_payments table
type CreditPaymentModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	WorkerID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_credit_payments_worker_paid,priority:1"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethodID *string         `gorm:"type:varchar(64)"`
	PaidAt          time.Time       `gorm:"not null;index:idx_credit_payments_worker_paid,priority:2"`
}

// TableName returns the table name for GORM
func (CreditPaymentModel) TableName() string {
	return "credit_payments"
}

// PaymentMethodModel maps the payment_methods catalog
type PaymentMethodModel struct {
	ID       string `gorm:"type:varchar(64);primary_key"`
	Name     string `gorm:"type:varchar(100);not null"`
	Category string `gorm:"type:varchar(32)"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a catalog entry
func (m *PaymentMethodModel) ToDomain() settlement.MethodInfo {
	return settlement.MethodInfo{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
	}
}
