package settlement

import (
	"github.com/shopspring/decimal"
)

// Category is one of the fixed reconciliation buckets
type Category string

const (
	CategoryCash         Category = "cash"
	CategoryWireTransfer Category = "wire-transfer"
	CategoryCard         Category = "card"
	CategoryCheck        Category = "check"
	CategoryStoreCredit  Category = "store-credit"
	CategoryOther        Category = "other"
)

// AllCategories lists the buckets in display order
func AllCategories() []Category {
	return []Category{
		CategoryCash,
		CategoryWireTransfer,
		CategoryCard,
		CategoryCheck,
		CategoryStoreCredit,
		CategoryOther,
	}
}

// IsValid checks if the category is one of the fixed buckets
func (c Category) IsValid() bool {
	switch c {
	case CategoryCash, CategoryWireTransfer, CategoryCard, CategoryCheck, CategoryStoreCredit, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// CategoryTotals is the money breakdown of a day over the six buckets
type CategoryTotals struct {
	Cash         decimal.Decimal `json:"cash"`
	WireTransfer decimal.Decimal `json:"wire_transfer"`
	Card         decimal.Decimal `json:"card"`
	Check        decimal.Decimal `json:"check"`
	StoreCredit  decimal.Decimal `json:"store_credit"`
	Other        decimal.Decimal `json:"other"`
}

// Add accumulates amount into the bucket of c. Unknown categories land in Other.
func (t *CategoryTotals) Add(c Category, amount decimal.Decimal) {
	switch c {
	case CategoryCash:
		t.Cash = t.Cash.Add(amount)
	case CategoryWireTransfer:
		t.WireTransfer = t.WireTransfer.Add(amount)
	case CategoryCard:
		t.Card = t.Card.Add(amount)
	case CategoryCheck:
		t.Check = t.Check.Add(amount)
	case CategoryStoreCredit:
		t.StoreCredit = t.StoreCredit.Add(amount)
	default:
		t.Other = t.Other.Add(amount)
	}
}

// Get returns the amount of a single bucket
func (t CategoryTotals) Get(c Category) decimal.Decimal {
	switch c {
	case CategoryCash:
		return t.Cash
	case CategoryWireTransfer:
		return t.WireTransfer
	case CategoryCard:
		return t.Card
	case CategoryCheck:
		return t.Check
	case CategoryStoreCredit:
		return t.StoreCredit
	default:
		return t.Other
	}
}

// Merge returns the bucket-wise sum of t and other
func (t CategoryTotals) Merge(other CategoryTotals) CategoryTotals {
	out := t
	for _, c := range AllCategories() {
		out.Add(c, other.Get(c))
	}
	return out
}

// Sum returns the total over all buckets
func (t CategoryTotals) Sum() decimal.Decimal {
	return t.Cash.Add(t.WireTransfer).Add(t.Card).Add(t.Check).Add(t.StoreCredit).Add(t.Other)
}

// IsZero reports whether every bucket sums to zero
func (t CategoryTotals) IsZero() bool {
	return t.Sum().IsZero()
}

// NonCash returns everything that is not cash
func (t CategoryTotals) NonCash() decimal.Decimal {
	return t.Sum().Sub(t.Cash)
}
