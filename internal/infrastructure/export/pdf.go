package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BuildStatementPDF renders the statement as a single A4 page report
func BuildStatementPDF(st *Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; worker names and notes are UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()
	pdf.Cell(0, 8, "Corte de caja")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	header := []string{
		fmt.Sprintf("Settlement: %s", st.SettlementID),
		fmt.Sprintf("Worker: %s", tr(st.WorkerName)),
		fmt.Sprintf("Type: %s", st.Type),
		fmt.Sprintf("Day: %s", st.Day),
		fmt.Sprintf("State: %s", st.State),
		fmt.Sprintf("Generated: %s", st.GeneratedAt.Format(time.RFC3339)),
	}
	for _, line := range header {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Declared totals")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	declared := [][2]string{
		{"Sales", st.DeclaredSales.StringFixed(2)},
		{"Collections", st.DeclaredCollections.StringFixed(2)},
		{"Cash", st.DeclaredCash.StringFixed(2)},
		{"Other", st.DeclaredOther.StringFixed(2)},
		{"Volume", st.Volume.String()},
		{"Units", fmt.Sprintf("%d", st.Units)},
	}
	for _, row := range declared {
		pdf.CellFormat(60, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Breakdown (%s)", st.BreakdownSource))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, line := range st.Breakdown {
		pdf.CellFormat(60, 6, line.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, line.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, st.BreakdownTotal().StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	if len(st.Deposits) > 0 {
		pdf.Ln(4)
		pdf.Cell(0, 6, "Deposits")
		pdf.Ln(6)
		for _, h := range []string{"Folio", "Amount", "Rejected", "Coins", "Total"} {
			pdf.CellFormat(34, 6, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, d := range st.Deposits {
			pdf.CellFormat(34, 6, tr(d.Folio), "1", 0, "L", false, 0, "")
			pdf.CellFormat(34, 6, d.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(34, 6, d.RejectedBills.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(34, 6, d.Coins.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(34, 6, d.Total.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	if st.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, "Notes: "+tr(st.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
