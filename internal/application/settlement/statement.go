package settlement

import (
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/cortecaja/backend/internal/infrastructure/export"
)

// ToStatement builds the printable statement of an enriched settlement
func ToStatement(resp *SettlementResponse, generatedAt time.Time) *export.Statement {
	st := &export.Statement{
		SettlementID:        resp.ID.String(),
		WorkerID:            resp.WorkerID.String(),
		Type:                resp.Type,
		Day:                 resp.Day.String(),
		State:               resp.State,
		Notes:               resp.Notes,
		DeclaredSales:       resp.Declared.Sales,
		DeclaredCollections: resp.Declared.Collections,
		DeclaredCash:        resp.Declared.Cash,
		DeclaredOther:       resp.Declared.Other,
		Volume:              resp.Declared.Volume,
		Units:               resp.Declared.Units,
		BreakdownSource:     resp.BreakdownSource,
		DepositTotal:        resp.DepositTotal,
		GeneratedAt:         generatedAt,
	}
	if resp.Worker != nil {
		st.WorkerName = resp.Worker.Name
	}
	for _, c := range settlement.AllCategories() {
		st.Breakdown = append(st.Breakdown, export.Line{
			Label:  string(c),
			Amount: resp.Breakdown.Get(c),
		})
	}
	for _, item := range resp.LineItems {
		st.LineItems = append(st.LineItems, export.LineItem{
			Reference: item.ReferenceID,
			Kind:      item.ReferenceKind,
			Method:    item.Method,
			Amount:    item.Amount,
		})
	}
	for _, d := range resp.Deposits {
		st.Deposits = append(st.Deposits, export.Deposit{
			Folio:         d.Folio,
			Amount:        d.Amount,
			RejectedBills: d.RejectedBills,
			Coins:         d.Coins,
			Total:         d.Total,
		})
	}
	return st
}
