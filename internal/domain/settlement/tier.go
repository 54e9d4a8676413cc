package settlement

// Tier names the data source a displayed breakdown came from
type Tier string

const (
	// TierLive is the breakdown recomputed from current orders/payments
	TierLive Tier = "live"
	// TierLineItems is the breakdown rebuilt from the settlement's own line items
	TierLineItems Tier = "line-items"
	// TierSnapshot is the frozen category snapshot; it may mix both
	// settlement types and predates classification fixes
	TierSnapshot Tier = "legacy-snapshot"
	// TierNone means every tier summed to zero
	TierNone Tier = "none"
)

// IsLowTrust reports whether the tier must be flagged in the audit trail
func (t Tier) IsLowTrust() bool {
	return t == TierSnapshot
}

// Resolution is the breakdown chosen for a stored settlement
type Resolution struct {
	Tier   Tier
	Totals CategoryTotals
	// SnapshotErr is set when a snapshot existed but could not be parsed
	SnapshotErr error
}

// LineItemTotals classifies the settlement's line items that belong to its
// type: credit-payment items for credit-collection, everything else for
// daily-sales.
func LineItemTotals(s *Settlement) CategoryTotals {
	var totals CategoryTotals
	wantCredit := s.Type == TypeCreditCollection
	for _, item := range s.LineItems {
		if item.ReferenceKind.IsCreditCollection() != wantCredit {
			continue
		}
		totals.Add(ClassifyLabel(item.Method), item.Amount)
	}
	return totals
}

// ResolveBreakdown picks the breakdown of a stored settlement. live is the
// recomputation for the settlement's worker and day already filtered to its
// type. A tier is used only when every earlier tier sums to zero; a small but
// non-zero total is real data and never falls through.
func ResolveBreakdown(s *Settlement, live CategoryTotals) Resolution {
	if !live.IsZero() {
		return Resolution{Tier: TierLive, Totals: live}
	}

	if items := LineItemTotals(s); !items.IsZero() {
		return Resolution{Tier: TierLineItems, Totals: items}
	}

	if len(s.CategorySnapshot) > 0 {
		snap, err := ParseCategorySnapshot(s.CategorySnapshot)
		if err != nil {
			return Resolution{Tier: TierNone, SnapshotErr: err}
		}
		if !snap.IsZero() {
			return Resolution{Tier: TierSnapshot, Totals: snap}
		}
	}

	return Resolution{Tier: TierNone}
}
