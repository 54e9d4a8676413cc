package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/cortecaja/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMethodCatalog resolves payment-method references against payment_methods
type GormMethodCatalog struct {
	db *gorm.DB
}

// NewGormMethodCatalog creates a new GormMethodCatalog
func NewGormMethodCatalog(db *gorm.DB) *GormMethodCatalog {
	return &GormMethodCatalog{db: db}
}

// Resolve looks up one catalog entry. An unknown reference is not an error.
func (c *GormMethodCatalog) Resolve(ctx context.Context, ref string) (settlement.MethodInfo, bool, error) {
	var model models.PaymentMethodModel
	if err := c.db.WithContext(ctx).Where("id = ?", ref).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settlement.MethodInfo{}, false, nil
		}
		return settlement.MethodInfo{}, false, fmt.Errorf("query payment_methods: %w", err)
	}
	return model.ToDomain(), true, nil
}

var _ settlement.MethodCatalog = (*GormMethodCatalog)(nil)
