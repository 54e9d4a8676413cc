package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/cortecaja/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type distinguishes the two settlements a worker can close per day
type Type string

const (
	TypeDailySales       Type = "daily-sales"
	TypeCreditCollection Type = "credit-collection"
)

// IsValid checks if the settlement type is valid
func (t Type) IsValid() bool {
	return t == TypeDailySales || t == TypeCreditCollection
}

// String returns the string representation
func (t Type) String() string {
	return string(t)
}

// State is the review state of a settlement
type State string

const (
	StatePending   State = "pending"
	StateValidated State = "validated"
	StateRejected  State = "rejected"
)

// IsValid checks if the state is valid
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateValidated, StateRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s State) String() string {
	return string(s)
}

// ReferenceKind tags what a line item points at
type ReferenceKind string

const (
	ReferenceOrder         ReferenceKind = "order"
	ReferenceCreditPayment ReferenceKind = "credit-payment"
)

// creditCollectionTags are the tags, current and legacy, that mark a
// credit-payment line item. Separators are normalised to "-" before lookup.
var creditCollectionTags = map[string]bool{
	"credit-payment":    true,
	"credit-payments":   true,
	"credit-collection": true,
	"credit":            true,
	"abono":             true,
	"abonos":            true,
	"pago-credito":      true,
	"pago-de-credito":   true,
}

var tagSeparators = strings.NewReplacer("_", "-", " ", "-")

// IsCreditCollection reports whether the tag marks a credit-payment item.
// Older rows used free-form tags such as "abono" or "credit_payment"; any
// other tag, "order-payment" included, is an order item.
func (k ReferenceKind) IsCreditCollection() bool {
	return creditCollectionTags[tagSeparators.Replace(foldLabel(string(k)))]
}

// LineItem links a settlement to one contributing order or payment
type LineItem struct {
	ID            uuid.UUID
	SettlementID  uuid.UUID
	ReferenceID   string
	ReferenceKind ReferenceKind
	Amount        decimal.Decimal
	Method        string
}

// Deposit is a cash drop-off attached to a settlement
type Deposit struct {
	ID            uuid.UUID
	SettlementID  uuid.UUID
	Amount        decimal.Decimal
	Folio         string
	RejectedBills decimal.Decimal
	Coins         decimal.Decimal
	Total         decimal.Decimal
}

// Worker is the delivery worker owning a settlement (read-only here)
type Worker struct {
	ID              uuid.UUID
	Name            string
	SiteID          *uuid.UUID
	ServiceCategory string
}

// DeclaredTotals are the amounts the worker declared when closing the day.
// They are never patched after creation.
type DeclaredTotals struct {
	Sales       decimal.Decimal
	Collections decimal.Decimal
	Cash        decimal.Decimal
	Other       decimal.Decimal
	Volume      decimal.Decimal
	Units       int64
}

// Settlement is one worker's closed-day cash reconciliation record for a type
type Settlement struct {
	shared.BaseEntity
	WorkerID         uuid.UUID
	Type             Type
	Day              CivilDate
	Totals           DeclaredTotals
	CategorySnapshot []byte
	SalesSnapshot    []byte
	State            State
	Notes            string
	Worker           *Worker
	LineItems        []LineItem
	Deposits         []Deposit
}

// NewSettlementParams carries everything needed to open a settlement
type NewSettlementParams struct {
	WorkerID         uuid.UUID
	Type             Type
	Day              CivilDate
	Totals           DeclaredTotals
	CategorySnapshot []byte
	SalesSnapshot    []byte
	Notes            string
	LineItems        []LineItem
	Deposits         []Deposit
}

// NewSettlement validates the params and builds a pending settlement whose
// line items and deposits point back at it.
func NewSettlement(p NewSettlementParams, now time.Time) (*Settlement, error) {
	if p.WorkerID == uuid.Nil {
		return nil, shared.NewValidationError("worker is required")
	}
	if !p.Type.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("invalid settlement type %q", p.Type))
	}
	if p.Day.IsZero() {
		return nil, shared.NewValidationError("civil day is required")
	}
	if p.Totals.Sales.IsNegative() || p.Totals.Collections.IsNegative() ||
		p.Totals.Cash.IsNegative() || p.Totals.Other.IsNegative() ||
		p.Totals.Volume.IsNegative() || p.Totals.Units < 0 {
		return nil, shared.NewValidationError("declared totals cannot be negative")
	}
	for i, item := range p.LineItems {
		if strings.TrimSpace(item.ReferenceID) == "" {
			return nil, shared.NewValidationError(fmt.Sprintf("line item %d: reference is required", i))
		}
		if item.Amount.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("line item %d: amount cannot be negative", i))
		}
	}
	for i, dep := range p.Deposits {
		if dep.Amount.IsNegative() || dep.Total.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("deposit %d: amounts cannot be negative", i))
		}
	}

	s := &Settlement{
		BaseEntity:       shared.NewBaseEntityAt(now),
		WorkerID:         p.WorkerID,
		Type:             p.Type,
		Day:              p.Day,
		Totals:           p.Totals,
		CategorySnapshot: p.CategorySnapshot,
		SalesSnapshot:    p.SalesSnapshot,
		State:            StatePending,
		Notes:            p.Notes,
	}
	s.LineItems = make([]LineItem, len(p.LineItems))
	for i, item := range p.LineItems {
		item.ID = uuid.New()
		item.SettlementID = s.ID
		s.LineItems[i] = item
	}
	s.Deposits = make([]Deposit, len(p.Deposits))
	for i, dep := range p.Deposits {
		dep.ID = uuid.New()
		dep.SettlementID = s.ID
		if dep.Total.IsZero() {
			dep.Total = dep.Amount.Add(dep.RejectedBills).Add(dep.Coins)
		}
		s.Deposits[i] = dep
	}
	return s, nil
}

// RegenerateIDs assigns fresh ids to the settlement and its children. Used
// when an insert collides on a generated key rather than on the day key.
func (s *Settlement) RegenerateIDs() {
	s.Reidentify()
	for i := range s.LineItems {
		s.LineItems[i].ID = uuid.New()
		s.LineItems[i].SettlementID = s.ID
	}
	for i := range s.Deposits {
		s.Deposits[i].ID = uuid.New()
		s.Deposits[i].SettlementID = s.ID
	}
}

// Review applies the validation transition. Only state and notes change.
func (s *Settlement) Review(state State, notes string, now time.Time) error {
	if state == "" {
		state = StateValidated
	}
	if !state.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid settlement state %q", state))
	}
	s.State = state
	s.Notes = notes
	s.Touch(now)
	return nil
}

// DayKey identifies the (worker, type, day) slot a settlement occupies
func (s *Settlement) DayKey() string {
	return DayKey(s.WorkerID, s.Type, s.Day)
}

// DayKey builds the slot key for a worker, type and civil day
func DayKey(workerID uuid.UUID, t Type, day CivilDate) string {
	return workerID.String() + ":" + string(t) + ":" + day.String()
}

// ConflictError is the error returned when the slot is already taken
func ConflictError(t Type, day CivilDate) error {
	return shared.NewConflictError(fmt.Sprintf("a %s settlement was already created for %s", t, day))
}

// NotFoundError is the error returned for an unknown settlement id
func NotFoundError(id uuid.UUID) error {
	return shared.NewNotFoundError(fmt.Sprintf("settlement %s not found", id))
}

// DepositTotal sums the totals of all deposits
func (s *Settlement) DepositTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range s.Deposits {
		total = total.Add(d.Total)
	}
	return total
}
