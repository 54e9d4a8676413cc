package settlement

import (
	"encoding/json"
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// CreateSettlementRequest represents a worker closing a settlement for today.
// total_sales is required for daily-sales, total_collections for
// credit-collection.
type CreateSettlementRequest struct {
	WorkerID         uuid.UUID             `json:"worker_id" binding:"required"`
	Type             string                `json:"type" binding:"required,oneof=daily-sales credit-collection"`
	TotalSales       *decimal.Decimal      `json:"total_sales" binding:"omitempty,money" swaggertype:"number"`
	TotalCollections *decimal.Decimal      `json:"total_collections" binding:"omitempty,money" swaggertype:"number"`
	TotalCash        decimal.Decimal       `json:"total_cash" binding:"money"`
	TotalOther       decimal.Decimal       `json:"total_other" binding:"money"`
	Stats            *StatsInput           `json:"stats"`
	CategorySnapshot json.RawMessage       `json:"category_snapshot" swaggertype:"object"`
	SalesSnapshot    json.RawMessage       `json:"sales_snapshot" swaggertype:"object"`
	Notes            string                `json:"notes" binding:"max=2000"`
	LineItems        []CreateLineItemInput `json:"line_items" binding:"dive"`
	Deposits         []CreateDepositInput  `json:"deposits" binding:"dive"`
}

// StatsInput carries the optional volume and unit counters of the day
type StatsInput struct {
	Volume decimal.Decimal `json:"volume" binding:"money"`
	Units  int64           `json:"units" binding:"min=0"`
}

// CreateLineItemInput links the settlement to one contributing order or payment
type CreateLineItemInput struct {
	ReferenceID   string          `json:"reference_id" binding:"required,max=64"`
	ReferenceKind string          `json:"reference_kind" binding:"required,max=32"`
	Amount        decimal.Decimal `json:"amount" binding:"money"`
	Method        string          `json:"method" binding:"max=100"`
}

// CreateDepositInput represents one cash drop-off
type CreateDepositInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"money"`
	Folio         string          `json:"folio" binding:"max=64"`
	RejectedBills decimal.Decimal `json:"rejected_bills" binding:"money"`
	Coins         decimal.Decimal `json:"coins" binding:"money"`
	Total         decimal.Decimal `json:"total" binding:"money"` // Optional: computed from the parts when zero
}

// ValidateSettlementRequest represents a supervisor review of a settlement
type ValidateSettlementRequest struct {
	State     string          `json:"state"` // Optional: defaults to validated
	Notes     string          `json:"notes" binding:"max=2000"`
	Checklist map[string]bool `json:"checklist"`
}

// ListFilter narrows the settlement listing. Empty fields mean no restriction.
type ListFilter struct {
	WorkerID *uuid.UUID `form:"worker"`
	Type     string     `form:"type"`
	State    string     `form:"state"`
	From     string     `form:"from"`
	To       string     `form:"to"`
}

// ==================== Response DTOs ====================

// OrderSummary is a delivered order in the day preview
type OrderSummary struct {
	ID          uuid.UUID       `json:"id"`
	Total       decimal.Decimal `json:"total"`
	MethodRef   string          `json:"method_ref,omitempty"`
	DeliveredAt time.Time       `json:"delivered_at"`
}

// PaymentSummary is a credit payment in the day preview
type PaymentSummary struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	MethodName string          `json:"method_name"`
	PaidAt     time.Time       `json:"paid_at"`
}

// DaySummaryResponse is the not-persisted preview of a worker's day
type DaySummaryResponse struct {
	WorkerID          uuid.UUID                 `json:"worker_id"`
	Day               settlement.CivilDate      `json:"day" swaggertype:"string"`
	From              time.Time                 `json:"from"`
	To                time.Time                 `json:"to"`
	Orders            []OrderSummary            `json:"orders"`
	Payments          []PaymentSummary          `json:"payments"`
	Totals            settlement.CategoryTotals `json:"totals"`
	SalesTotals       settlement.CategoryTotals `json:"sales_totals"`
	CollectionTotals  settlement.CategoryTotals `json:"collection_totals"`
	SalesCount        int                       `json:"sales_count"`
	PaymentCount      int                       `json:"payment_count"`
	SalesTotal        decimal.Decimal           `json:"sales_total"`
	PaymentTotal      decimal.Decimal           `json:"payment_total"`
	UnclassifiedSales decimal.Decimal           `json:"unclassified_sales"`
	SkippedOrders     []string                  `json:"skipped_orders"`
}

// ExistingResponse answers whether today's slot is taken
type ExistingResponse struct {
	Exists     bool                `json:"exists"`
	Settlement *SettlementResponse `json:"settlement"`
}

// WorkerResponse is the worker embedded in a settlement
type WorkerResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	SiteID          *uuid.UUID `json:"site_id,omitempty"`
	ServiceCategory string     `json:"service_category"`
}

// LineItemResponse represents a persisted line item
type LineItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReferenceID   string          `json:"reference_id"`
	ReferenceKind string          `json:"reference_kind"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
}

// DepositResponse represents a persisted deposit
type DepositResponse struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Folio         string          `json:"folio"`
	RejectedBills decimal.Decimal `json:"rejected_bills"`
	Coins         decimal.Decimal `json:"coins"`
	Total         decimal.Decimal `json:"total"`
}

// DeclaredTotalsResponse are the amounts declared at creation
type DeclaredTotalsResponse struct {
	Sales       decimal.Decimal `json:"sales"`
	Collections decimal.Decimal `json:"collections"`
	Cash        decimal.Decimal `json:"cash"`
	Other       decimal.Decimal `json:"other"`
	Volume      decimal.Decimal `json:"volume"`
	Units       int64           `json:"units"`
}

// SettlementResponse represents a settlement with its recomputed breakdown
type SettlementResponse struct {
	ID              uuid.UUID                 `json:"id"`
	WorkerID        uuid.UUID                 `json:"worker_id"`
	Worker          *WorkerResponse           `json:"worker,omitempty"`
	Type            string                    `json:"type"`
	Day             settlement.CivilDate      `json:"day" swaggertype:"string"`
	State           string                    `json:"state"`
	Notes           string                    `json:"notes"`
	Declared        DeclaredTotalsResponse    `json:"declared"`
	Breakdown       settlement.CategoryTotals `json:"breakdown"`
	BreakdownSource string                    `json:"breakdown_source"`
	BreakdownTotal  decimal.Decimal           `json:"breakdown_total"`
	DepositTotal    decimal.Decimal           `json:"deposit_total"`
	LineItems       []LineItemResponse        `json:"line_items"`
	Deposits        []DepositResponse         `json:"deposits"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// ServiceCategorySummaryResponse is the dashboard rollup of a service category
type ServiceCategorySummaryResponse struct {
	Category         string               `json:"category"`
	SiteID           *uuid.UUID           `json:"site_id,omitempty"`
	Day              settlement.CivilDate `json:"day" swaggertype:"string"`
	Total            int64                `json:"total"`
	Pending          int64                `json:"pending"`
	Validated        int64                `json:"validated"`
	Rejected         int64                `json:"rejected"`
	TotalSales       decimal.Decimal      `json:"total_sales"`
	TotalCollections decimal.Decimal      `json:"total_collections"`
}

// ==================== Converters ====================

// ToDaySummaryResponse converts an aggregate into the preview response
func ToDaySummaryResponse(agg *settlement.Aggregate) DaySummaryResponse {
	orders := make([]OrderSummary, len(agg.Orders))
	for i, o := range agg.Orders {
		orders[i] = OrderSummary{
			ID:          o.ID,
			Total:       o.Total,
			MethodRef:   o.MethodRef,
			DeliveredAt: o.OccurredAt,
		}
	}
	payments := make([]PaymentSummary, len(agg.Payments))
	for i, p := range agg.Payments {
		payments[i] = PaymentSummary{
			ID:         p.ID,
			Amount:     p.Amount,
			MethodName: p.MethodName,
			PaidAt:     p.OccurredAt,
		}
	}
	skipped := make([]string, len(agg.Skipped))
	for i, s := range agg.Skipped {
		skipped[i] = s.RecordID
	}

	return DaySummaryResponse{
		WorkerID:          agg.WorkerID,
		Day:               agg.Day,
		From:              agg.Bounds.Start,
		To:                agg.Bounds.End,
		Orders:            orders,
		Payments:          payments,
		Totals:            agg.Totals,
		SalesTotals:       agg.OrderTotals,
		CollectionTotals:  agg.PaymentTotals,
		SalesCount:        agg.SalesCount,
		PaymentCount:      agg.PaymentCount,
		SalesTotal:        agg.SalesTotal,
		PaymentTotal:      agg.PaymentTotal,
		UnclassifiedSales: agg.UnclassifiedSales(),
		SkippedOrders:     skipped,
	}
}

// ToSettlementResponse converts a settlement and its chosen breakdown
func ToSettlementResponse(s *settlement.Settlement, res settlement.Resolution) SettlementResponse {
	resp := SettlementResponse{
		ID:       s.ID,
		WorkerID: s.WorkerID,
		Type:     string(s.Type),
		Day:      s.Day,
		State:    string(s.State),
		Notes:    s.Notes,
		Declared: DeclaredTotalsResponse{
			Sales:       s.Totals.Sales,
			Collections: s.Totals.Collections,
			Cash:        s.Totals.Cash,
			Other:       s.Totals.Other,
			Volume:      s.Totals.Volume,
			Units:       s.Totals.Units,
		},
		Breakdown:       res.Totals,
		BreakdownSource: string(res.Tier),
		BreakdownTotal:  res.Totals.Sum(),
		DepositTotal:    s.DepositTotal(),
		LineItems:       make([]LineItemResponse, len(s.LineItems)),
		Deposits:        make([]DepositResponse, len(s.Deposits)),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.Worker != nil {
		resp.Worker = &WorkerResponse{
			ID:              s.Worker.ID,
			Name:            s.Worker.Name,
			SiteID:          s.Worker.SiteID,
			ServiceCategory: s.Worker.ServiceCategory,
		}
	}
	for i, item := range s.LineItems {
		resp.LineItems[i] = LineItemResponse{
			ID:            item.ID,
			ReferenceID:   item.ReferenceID,
			ReferenceKind: string(item.ReferenceKind),
			Amount:        item.Amount,
			Method:        item.Method,
		}
	}
	for i, d := range s.Deposits {
		resp.Deposits[i] = DepositResponse{
			ID:            d.ID,
			Amount:        d.Amount,
			Folio:         d.Folio,
			RejectedBills: d.RejectedBills,
			Coins:         d.Coins,
			Total:         d.Total,
		}
	}
	return resp
}

// ToServiceCategorySummaryResponse converts the domain rollup
func ToServiceCategorySummaryResponse(s *settlement.ServiceCategorySummary) ServiceCategorySummaryResponse {
	return ServiceCategorySummaryResponse{
		Category:         s.Category,
		SiteID:           s.SiteID,
		Day:              s.Day,
		Total:            s.Total,
		Pending:          s.Pending,
		Validated:        s.Validated,
		Rejected:         s.Rejected,
		TotalSales:       s.TotalSales,
		TotalCollections: s.TotalCollections,
	}
}
