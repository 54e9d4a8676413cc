package settlement

import (
	"context"
	"fmt"

	"github.com/cortecaja/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate is the category breakdown of one worker's day computed from the
// live order and credit-payment data.
type Aggregate struct {
	WorkerID uuid.UUID
	Day      CivilDate
	Bounds   DayBounds

	Orders   []Order
	Payments []CreditPayment

	// Totals covers both sources; OrderTotals and PaymentTotals split it.
	Totals        CategoryTotals
	OrderTotals   CategoryTotals
	PaymentTotals CategoryTotals

	SalesCount   int
	PaymentCount int
	SalesTotal   decimal.Decimal
	PaymentTotal decimal.Decimal

	// Skipped holds orders whose breakdown could not be parsed. They are
	// counted in SalesCount and SalesTotal but contribute to no category.
	Skipped []*shared.PartialDataError
}

// UnclassifiedSales is the part of SalesTotal that reached no category
// because of skipped breakdowns.
func (a *Aggregate) UnclassifiedSales() decimal.Decimal {
	return a.SalesTotal.Sub(a.OrderTotals.Sum())
}

// TotalsFor returns the source matching a settlement type
func (a *Aggregate) TotalsFor(t Type) CategoryTotals {
	if t == TypeCreditCollection {
		return a.PaymentTotals
	}
	return a.OrderTotals
}

// Aggregator computes day aggregates from the order and payment services
type Aggregator struct {
	orders   OrderReader
	payments PaymentReader
	catalog  MethodCatalog
}

// NewAggregator creates an aggregator over the given read-only ports
func NewAggregator(orders OrderReader, payments PaymentReader, catalog MethodCatalog) *Aggregator {
	return &Aggregator{
		orders:   orders,
		payments: payments,
		catalog:  catalog,
	}
}

// Aggregate reads the worker's delivered orders and credit payments of the
// civil day and classifies every amount.
func (a *Aggregator) Aggregate(ctx context.Context, workerID uuid.UUID, day CivilDate) (*Aggregate, error) {
	bounds := day.Bounds()

	orders, err := a.orders.ListDeliveredOrders(ctx, workerID, bounds)
	if err != nil {
		return nil, fmt.Errorf("list delivered orders: %w", err)
	}
	payments, err := a.payments.ListPayments(ctx, workerID, bounds)
	if err != nil {
		return nil, fmt.Errorf("list credit payments: %w", err)
	}

	parsed := parseOrders(orders)

	idx, err := a.buildIndex(ctx, parsed, payments)
	if err != nil {
		return nil, err
	}

	agg := Reconcile(orders, payments, idx)
	agg.WorkerID = workerID
	agg.Day = day
	agg.Bounds = bounds
	return agg, nil
}

// buildIndex resolves every method reference the classification may need,
// once per distinct reference.
func (a *Aggregator) buildIndex(ctx context.Context, parsed map[uuid.UUID][]BreakdownEntry, payments []CreditPayment) (MapCatalogIndex, error) {
	idx := MapCatalogIndex{}
	if a.catalog == nil {
		return idx, nil
	}
	seen := map[string]bool{}
	resolve := func(ref string) error {
		if ref == "" || seen[ref] {
			return nil
		}
		seen[ref] = true
		info, found, err := a.catalog.Resolve(ctx, ref)
		if err != nil {
			return fmt.Errorf("resolve payment method %s: %w", ref, err)
		}
		if found {
			idx[ref] = info
		}
		return nil
	}

	for _, entries := range parsed {
		for _, e := range entries {
			if _, ok := MatchCategory(e.Label); ok {
				continue
			}
			if err := resolve(e.MethodRef); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range payments {
		if _, ok := MatchCategory(p.MethodName); ok {
			continue
		}
		if err := resolve(p.MethodRef); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Reconcile classifies already loaded orders and payments. Orders with an
// unparsable breakdown are counted but skipped.
func Reconcile(orders []Order, payments []CreditPayment, idx CatalogIndex) *Aggregate {
	agg := &Aggregate{
		Orders:       orders,
		Payments:     payments,
		SalesTotal:   decimal.Zero,
		PaymentTotal: decimal.Zero,
	}

	for _, o := range orders {
		agg.SalesCount++
		agg.SalesTotal = agg.SalesTotal.Add(o.Total)

		entries, err := OrderEntries(o)
		if err != nil {
			agg.Skipped = append(agg.Skipped, shared.NewPartialDataError("order", o.ID.String(), err))
			continue
		}
		for _, e := range entries {
			agg.OrderTotals.Add(Classify(e, idx), e.Amount)
		}
	}

	for _, p := range payments {
		agg.PaymentCount++
		agg.PaymentTotal = agg.PaymentTotal.Add(p.Amount)
		entry := BreakdownEntry{Label: p.MethodName, MethodRef: p.MethodRef, Amount: p.Amount}
		agg.PaymentTotals.Add(Classify(entry, idx), p.Amount)
	}

	agg.Totals = agg.OrderTotals.Merge(agg.PaymentTotals)
	return agg
}

// OrderEntries returns the breakdown entries of an order. An order without a
// stored breakdown is one entry of its total under its single method reference.
func OrderEntries(o Order) ([]BreakdownEntry, error) {
	entries, err := ParseBreakdown(o.PaymentBreakdown)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []BreakdownEntry{{MethodRef: o.MethodRef, Amount: o.Total}}, nil
	}
	return entries, nil
}

// parseOrders keeps the entries of parsable orders; Reconcile reports the rest
func parseOrders(orders []Order) map[uuid.UUID][]BreakdownEntry {
	parsed := make(map[uuid.UUID][]BreakdownEntry, len(orders))
	for _, o := range orders {
		if entries, err := OrderEntries(o); err == nil {
			parsed[o.ID] = entries
		}
	}
	return parsed
}
