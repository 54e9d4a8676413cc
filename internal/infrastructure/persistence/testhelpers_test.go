package persistence

import (
	"testing"
	"time"

	"github.com/cortecaja/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSettlementTestDB creates an in-memory SQLite database with every table
// the settlement adapters touch.
func setupSettlementTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// one connection, otherwise every new connection sees an empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.WorkerModel{},
		&models.PaymentMethodModel{},
		&models.OrderModel{},
		&models.CreditPaymentModel{},
		&models.SettlementModel{},
		&models.SettlementLineItemModel{},
		&models.SettlementDepositModel{},
	)
	require.NoError(t, err)

	return db
}

func seedWorker(t *testing.T, db *gorm.DB, name, category string, siteID *uuid.UUID) uuid.UUID {
	w := models.WorkerModel{ID: uuid.New(), Name: name, ServiceCategory: category, SiteID: siteID}
	require.NoError(t, db.Create(&w).Error)
	return w.ID
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}
