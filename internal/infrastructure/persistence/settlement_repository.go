package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/cortecaja/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCreateAttempts bounds the inserts tried when a generated id collides
const DefaultCreateAttempts = 3

// pgUniqueViolation is the SQLSTATE of unique_violation
const pgUniqueViolation = "23505"

// GormSettlementRepository implements settlement.SettlementRepository using GORM
type GormSettlementRepository struct {
	db          *gorm.DB
	maxAttempts int
}

// SettlementRepositoryOption configures a GormSettlementRepository
type SettlementRepositoryOption func(*GormSettlementRepository)

// WithCreateAttempts sets how many inserts CreateIfAbsent tries before giving up
func WithCreateAttempts(n int) SettlementRepositoryOption {
	return func(r *GormSettlementRepository) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB, opts ...SettlementRepositoryOption) *GormSettlementRepository {
	r := &GormSettlementRepository{
		db:          db,
		maxAttempts: DefaultCreateAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateIfAbsent inserts the settlement, its line items and its deposits in
// one transaction. A unique violation is resolved by looking at the slot: an
// occupied slot is a conflict, a free one means a generated id collided and
// the insert is retried with fresh ids.
func (r *GormSettlementRepository) CreateIfAbsent(ctx context.Context, s *settlement.Settlement) error {
	for attempt := 1; ; attempt++ {
		err := r.insert(ctx, s)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("create settlement: %w", err)
		}

		existing, findErr := r.FindByWorkerTypeDay(ctx, s.WorkerID, s.Type, s.Day)
		if findErr != nil {
			return fmt.Errorf("check settlement slot: %w", findErr)
		}
		if existing != nil {
			return settlement.ConflictError(s.Type, s.Day)
		}
		if attempt >= r.maxAttempts {
			return fmt.Errorf("create settlement after %d attempts: %w", attempt, err)
		}
		s.RegenerateIDs()
	}
}

func (r *GormSettlementRepository) insert(ctx context.Context, s *settlement.Settlement) error {
	model := models.SettlementModelFromDomain(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.LineItems) > 0 {
			if err := tx.Create(&model.LineItems).Error; err != nil {
				return err
			}
		}
		if len(model.Deposits) > 0 {
			if err := tx.Create(&model.Deposits).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite only reports it through the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *GormSettlementRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Worker").
		Preload("LineItems").
		Preload("Deposits")
}

// FindByID loads a settlement with worker, line items and deposits
func (r *GormSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Settlement, error) {
	var model models.SettlementModel
	if err := r.withAssociations(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settlement.NotFoundError(id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForWorker loads a settlement only if it belongs to the worker
func (r *GormSettlementRepository) FindByIDForWorker(ctx context.Context, id, workerID uuid.UUID) (*settlement.Settlement, error) {
	var model models.SettlementModel
	if err := r.withAssociations(ctx).
		Where("id = ? AND worker_id = ?", id, workerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settlement.NotFoundError(id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByWorkerTypeDay returns the settlement occupying the slot, or nil
func (r *GormSettlementRepository) FindByWorkerTypeDay(ctx context.Context, workerID uuid.UUID, t settlement.Type, day settlement.CivilDate) (*settlement.Settlement, error) {
	var found []models.SettlementModel
	if err := r.withAssociations(ctx).
		Where("worker_id = ? AND type = ? AND civil_day = ?", workerID, string(t), day.Time()).
		Limit(1).
		Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0].ToDomain(), nil
}

// FindAll lists settlements matching the filter, newest civil day first
func (r *GormSettlementRepository) FindAll(ctx context.Context, filter settlement.Filter) ([]settlement.Settlement, error) {
	query := r.withAssociations(ctx).Model(&models.SettlementModel{})

	if filter.WorkerID != nil {
		query = query.Where("worker_id = ?", *filter.WorkerID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.State != nil {
		query = query.Where("state = ?", string(*filter.State))
	}
	if filter.From != nil {
		query = query.Where("civil_day >= ?", filter.From.Time())
	}
	if filter.To != nil {
		query = query.Where("civil_day <= ?", filter.To.Time())
	}

	var rows []models.SettlementModel
	if err := query.Order("civil_day DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]settlement.Settlement, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// UpdateReview writes the review state and notes. Nothing else is touched.
func (r *GormSettlementRepository) UpdateReview(ctx context.Context, id uuid.UUID, state settlement.State, notes string) error {
	result := r.db.WithContext(ctx).
		Model(&models.SettlementModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"state":      string(state),
			"notes":      notes,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return settlement.NotFoundError(id)
	}
	return nil
}

type serviceCategorySummaryRow struct {
	Total            int64
	Pending          int64
	Validated        int64
	Rejected         int64
	TotalSales       decimal.Decimal
	TotalCollections decimal.Decimal
}

// GetServiceCategorySummary rolls up the day's settlements of the workers in
// a service category, optionally narrowed to one site.
func (r *GormSettlementRepository) GetServiceCategorySummary(ctx context.Context, category string, siteID *uuid.UUID, day settlement.CivilDate) (*settlement.ServiceCategorySummary, error) {
	query := r.db.WithContext(ctx).
		Table("settlements").
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN settlements.state = ? THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN settlements.state = ? THEN 1 ELSE 0 END), 0) AS validated,
			COALESCE(SUM(CASE WHEN settlements.state = ? THEN 1 ELSE 0 END), 0) AS rejected,
			COALESCE(SUM(settlements.total_sales), 0) AS total_sales,
			COALESCE(SUM(settlements.total_collections), 0) AS total_collections`,
			string(settlement.StatePending), string(settlement.StateValidated), string(settlement.StateRejected)).
		Joins("JOIN workers ON workers.id = settlements.worker_id").
		Where("workers.service_category = ? AND settlements.civil_day = ?", category, day.Time())
	if siteID != nil {
		query = query.Where("workers.site_id = ?", *siteID)
	}

	var row serviceCategorySummaryRow
	if err := query.Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("summarize service category %q: %w", category, err)
	}

	return &settlement.ServiceCategorySummary{
		Category:         category,
		SiteID:           siteID,
		Day:              day,
		Total:            row.Total,
		Pending:          row.Pending,
		Validated:        row.Validated,
		Rejected:         row.Rejected,
		TotalSales:       row.TotalSales,
		TotalCollections: row.TotalCollections,
	}, nil
}

var _ settlement.SettlementRepository = (*GormSettlementRepository)(nil)
