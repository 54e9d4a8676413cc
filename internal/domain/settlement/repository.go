package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a delivered order as exposed by the order service (read-only)
type Order struct {
	ID               uuid.UUID
	WorkerID         uuid.UUID
	Total            decimal.Decimal
	PaymentBreakdown []byte
	MethodRef        string
	OccurredAt       time.Time
}

// CreditPayment is a credit payment ("abono") registered by a worker (read-only)
type CreditPayment struct {
	ID         uuid.UUID
	WorkerID   uuid.UUID
	Amount     decimal.Decimal
	MethodRef  string
	MethodName string
	OccurredAt time.Time
}

// OrderReader lists orders from the order service
type OrderReader interface {
	// ListDeliveredOrders returns the worker's delivered orders inside the bounds
	ListDeliveredOrders(ctx context.Context, workerID uuid.UUID, bounds DayBounds) ([]Order, error)
}

// PaymentReader lists credit payments from the credit-payment service
type PaymentReader interface {
	// ListPayments returns the credit payments registered by the worker inside the bounds
	ListPayments(ctx context.Context, workerID uuid.UUID, bounds DayBounds) ([]CreditPayment, error)
}

// MethodCatalog resolves payment-method references
type MethodCatalog interface {
	// Resolve returns the catalog entry for ref; found is false for unknown refs
	Resolve(ctx context.Context, ref string) (info MethodInfo, found bool, err error)
}

// Filter narrows settlement listings. Zero values mean no restriction.
type Filter struct {
	WorkerID *uuid.UUID
	Type     *Type
	State    *State
	From     *CivilDate
	To       *CivilDate
}

// ServiceCategorySummary is the dashboard rollup of one day's settlements for
// the workers of a service category
type ServiceCategorySummary struct {
	Category         string
	SiteID           *uuid.UUID
	Day              CivilDate
	Total            int64
	Pending          int64
	Validated        int64
	Rejected         int64
	TotalSales       decimal.Decimal
	TotalCollections decimal.Decimal
}

// SettlementRepository defines the persistence contract for settlements
type SettlementRepository interface {
	// CreateIfAbsent stores the settlement with its line items and deposits
	// in one transaction. A settlement already occupying the same
	// (worker, type, day) slot yields a CONFLICT domain error.
	CreateIfAbsent(ctx context.Context, s *Settlement) error

	// FindByID loads a settlement with worker, line items and deposits
	FindByID(ctx context.Context, id uuid.UUID) (*Settlement, error)

	// FindByIDForWorker loads a settlement only if it belongs to the worker
	FindByIDForWorker(ctx context.Context, id, workerID uuid.UUID) (*Settlement, error)

	// FindByWorkerTypeDay returns the settlement in a slot, or nil
	FindByWorkerTypeDay(ctx context.Context, workerID uuid.UUID, t Type, day CivilDate) (*Settlement, error)

	// FindAll lists settlements with worker, line items and deposits
	FindAll(ctx context.Context, filter Filter) ([]Settlement, error)

	// UpdateReview writes state and notes only
	UpdateReview(ctx context.Context, id uuid.UUID, state State, notes string) error

	// GetServiceCategorySummary rolls up the day's settlements of a service category
	GetServiceCategorySummary(ctx context.Context, category string, siteID *uuid.UUID, day CivilDate) (*ServiceCategorySummary, error)
}

// SubmissionGuard serializes concurrent creates for the same slot
type SubmissionGuard interface {
	// Acquire takes the key for ttl and returns the token identifying this
	// hold. false means another submission holds the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)

	// Release frees the key if it is still held under token
	Release(ctx context.Context, key, token string) error
}
