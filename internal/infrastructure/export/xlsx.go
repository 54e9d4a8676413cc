package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "corte"
	lineItemsSheet = "partidas"
	depositsSheet  = "depositos"
)

// BuildStatementXLSX renders the statement as a workbook with a summary
// sheet, a line item sheet and a deposit sheet.
func BuildStatementXLSX(st *Statement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(lineItemsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(depositsSheet); err != nil {
		return nil, err
	}

	summary := [][2]any{
		{"Corte de caja", ""},
		{"", ""},
		{"Settlement", st.SettlementID},
		{"Worker", st.WorkerName},
		{"Type", st.Type},
		{"Day", st.Day},
		{"State", st.State},
		{"Declared sales", st.DeclaredSales.InexactFloat64()},
		{"Declared collections", st.DeclaredCollections.InexactFloat64()},
		{"Declared cash", st.DeclaredCash.InexactFloat64()},
		{"Declared other", st.DeclaredOther.InexactFloat64()},
		{"Volume", st.Volume.InexactFloat64()},
		{"Units", st.Units},
		{"Notes", st.Notes},
		{"", ""},
		{"Breakdown source", st.BreakdownSource},
	}
	row := 1
	for _, pair := range summary {
		if err := setRow(f, summarySheet, row, pair[0], pair[1]); err != nil {
			return nil, err
		}
		row++
	}
	for _, line := range st.Breakdown {
		if err := setRow(f, summarySheet, row, line.Label, line.Amount.InexactFloat64()); err != nil {
			return nil, err
		}
		row++
	}
	if err := setRow(f, summarySheet, row, "Breakdown total", st.BreakdownTotal().InexactFloat64()); err != nil {
		return nil, err
	}

	if err := setRow(f, lineItemsSheet, 1, "Reference", "Kind", "Method", "Amount"); err != nil {
		return nil, err
	}
	for i, item := range st.LineItems {
		if err := setRow(f, lineItemsSheet, i+2, item.Reference, item.Kind, item.Method, item.Amount.InexactFloat64()); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, depositsSheet, 1, "Folio", "Amount", "Rejected bills", "Coins", "Total"); err != nil {
		return nil, err
	}
	for i, d := range st.Deposits {
		if err := setRow(f, depositsSheet, i+2, d.Folio,
			d.Amount.InexactFloat64(), d.RejectedBills.InexactFloat64(),
			d.Coins.InexactFloat64(), d.Total.InexactFloat64()); err != nil {
			return nil, err
		}
	}
	if err := setRow(f, depositsSheet, len(st.Deposits)+2, "Total", "", "", "", st.DepositTotal.InexactFloat64()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
