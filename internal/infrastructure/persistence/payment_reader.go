package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentReader reads credit payments joined to the payment-method catalog
type GormPaymentReader struct {
	db *gorm.DB
}

// NewGormPaymentReader creates a new GormPaymentReader
func NewGormPaymentReader(db *gorm.DB) *GormPaymentReader {
	return &GormPaymentReader{db: db}
}

type creditPaymentRow struct {
	ID              uuid.UUID
	WorkerID        uuid.UUID
	Amount          decimal.Decimal
	PaymentMethodID *string
	PaidAt          time.Time
	MethodName      *string
}

// ListPayments returns the credit payments the worker registered inside the bounds
func (r *GormPaymentReader) ListPayments(ctx context.Context, workerID uuid.UUID, bounds settlement.DayBounds) ([]settlement.CreditPayment, error) {
	var rows []creditPaymentRow
	if err := r.db.WithContext(ctx).
		Table("credit_payments").
		Select("credit_payments.id, credit_payments.worker_id, credit_payments.amount, " +
			"credit_payments.payment_method_id, credit_payments.paid_at, payment_methods.name AS method_name").
		Joins("LEFT JOIN payment_methods ON payment_methods.id = credit_payments.payment_method_id").
		Where("credit_payments.worker_id = ?", workerID).
		Where("credit_payments.paid_at BETWEEN ? AND ?", bounds.Start.UTC(), bounds.End.UTC()).
		Order("credit_payments.paid_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query credit payments: %w", err)
	}

	payments := make([]settlement.CreditPayment, len(rows))
	for i, row := range rows {
		p := settlement.CreditPayment{
			ID:         row.ID,
			WorkerID:   row.WorkerID,
			Amount:     row.Amount,
			OccurredAt: row.PaidAt,
		}
		if row.PaymentMethodID != nil {
			p.MethodRef = *row.PaymentMethodID
		}
		if row.MethodName != nil {
			p.MethodName = *row.MethodName
		}
		payments[i] = p
	}
	return payments, nil
}

var _ settlement.PaymentReader = (*GormPaymentReader)(nil)
