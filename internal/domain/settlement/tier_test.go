package settlement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedSettlement(t Type, items []LineItem, snapshot string) *Settlement {
	s := &Settlement{
		WorkerID:  uuid.New(),
		Type:      t,
		Day:       NewCivilDate(2025, time.January, 15),
		State:     StatePending,
		LineItems: items,
	}
	if snapshot != "" {
		s.CategorySnapshot = []byte(snapshot)
	}
	return s
}

func TestResolveBreakdown_LiveWins(t *testing.T) {
	s := storedSettlement(TypeDailySales,
		[]LineItem{{ReferenceID: "o1", ReferenceKind: ReferenceOrder, Amount: decimal.NewFromInt(500), Method: "cash"}},
		`{"cash":900}`)
	var live CategoryTotals
	live.Add(CategoryCard, decimal.RequireFromString("0.01"))

	res := ResolveBreakdown(s, live)
	assert.Equal(t, TierLive, res.Tier)
	assert.True(t, decimal.RequireFromString("0.01").Equal(res.Totals.Card))
	assert.False(t, res.Tier.IsLowTrust())
}

func TestResolveBreakdown_LineItemsBeatStaleSnapshot(t *testing.T) {
	s := storedSettlement(TypeDailySales,
		[]LineItem{
			{ReferenceID: "o1", ReferenceKind: ReferenceOrder, Amount: decimal.NewFromInt(100), Method: "Efectivo"},
			{ReferenceID: "o2", ReferenceKind: ReferenceOrder, Amount: decimal.NewFromInt(40), Method: "transferencia"},
		},
		`{"cash":999,"card":1}`)

	res := ResolveBreakdown(s, CategoryTotals{})
	require.Equal(t, TierLineItems, res.Tier)
	assert.True(t, decimal.NewFromInt(100).Equal(res.Totals.Cash))
	assert.True(t, decimal.NewFromInt(40).Equal(res.Totals.WireTransfer))
	assert.True(t, res.Totals.Card.IsZero())
}

func TestResolveBreakdown_SnapshotWhenEarlierTiersAreZero(t *testing.T) {
	s := storedSettlement(TypeDailySales, nil, `{"efectivo":250,"tarjeta":"50.5"}`)

	res := ResolveBreakdown(s, CategoryTotals{})
	require.Equal(t, TierSnapshot, res.Tier)
	assert.True(t, res.Tier.IsLowTrust())
	assert.True(t, decimal.NewFromInt(250).Equal(res.Totals.Cash))
	assert.True(t, decimal.RequireFromString("50.5").Equal(res.Totals.Card))
}

func TestResolveBreakdown_None(t *testing.T) {
	res := ResolveBreakdown(storedSettlement(TypeDailySales, nil, ""), CategoryTotals{})
	assert.Equal(t, TierNone, res.Tier)
	assert.True(t, res.Totals.IsZero())
	assert.NoError(t, res.SnapshotErr)

	res = ResolveBreakdown(storedSettlement(TypeDailySales, nil, `{"cash":0}`), CategoryTotals{})
	assert.Equal(t, TierNone, res.Tier)

	res = ResolveBreakdown(storedSettlement(TypeDailySales, nil, `{"cash":`), CategoryTotals{})
	assert.Equal(t, TierNone, res.Tier)
	assert.Error(t, res.SnapshotErr)
}

func TestLineItemTotals_PartitionsByKind(t *testing.T) {
	items := []LineItem{
		{ReferenceID: "o1", ReferenceKind: ReferenceOrder, Amount: decimal.NewFromInt(100), Method: "cash"},
		{ReferenceID: "p1", ReferenceKind: ReferenceCreditPayment, Amount: decimal.NewFromInt(30), Method: "cash"},
		{ReferenceID: "p2", ReferenceKind: "abono", Amount: decimal.NewFromInt(20), Method: "cheque"},
		{ReferenceID: "o2", ReferenceKind: "", Amount: decimal.NewFromInt(5), Method: "tarjeta"},
	}

	sales := LineItemTotals(storedSettlement(TypeDailySales, items, ""))
	assert.True(t, decimal.NewFromInt(105).Equal(sales.Sum()))
	assert.True(t, decimal.NewFromInt(100).Equal(sales.Cash))
	assert.True(t, decimal.NewFromInt(5).Equal(sales.Card))

	collections := LineItemTotals(storedSettlement(TypeCreditCollection, items, ""))
	assert.True(t, decimal.NewFromInt(50).Equal(collections.Sum()))
	assert.True(t, decimal.NewFromInt(30).Equal(collections.Cash))
	assert.True(t, decimal.NewFromInt(20).Equal(collections.Check))
}

func TestReferenceKind_IsCreditCollection(t *testing.T) {
	assert.True(t, ReferenceCreditPayment.IsCreditCollection())
	assert.True(t, ReferenceKind("Abono").IsCreditCollection())
	assert.True(t, ReferenceKind("credit_payment").IsCreditCollection())
	assert.False(t, ReferenceOrder.IsCreditCollection())
	assert.False(t, ReferenceKind("").IsCreditCollection())
	assert.True(t, ReferenceKind("Pago de crédito").IsCreditCollection())
	assert.True(t, ReferenceKind(" ABONOS ").IsCreditCollection())
	assert.False(t, ReferenceKind("order-payment").IsCreditCollection())
	assert.False(t, ReferenceKind("pago").IsCreditCollection())
	assert.False(t, ReferenceKind("payment").IsCreditCollection())
}
