package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleStatement() *Statement {
	return &Statement{
		SettlementID:        "3f1c2a9e-0000-4000-8000-000000000001",
		WorkerName:          "José Núñez",
		Type:                "daily-sales",
		Day:                 "2025-01-15",
		State:               "pending",
		Notes:               "faltó un billete",
		DeclaredSales:       decimal.NewFromInt(150),
		DeclaredCash:        decimal.NewFromInt(100),
		DeclaredOther:       decimal.NewFromInt(50),
		Units:               3,
		BreakdownSource:     "live",
		Breakdown: []Line{
			{Label: "cash", Amount: decimal.NewFromInt(100)},
			{Label: "wire-transfer", Amount: decimal.NewFromInt(50)},
		},
		LineItems: []LineItem{
			{Reference: "o-1", Kind: "order", Method: "cash", Amount: decimal.NewFromInt(100)},
		},
		Deposits: []Deposit{
			{Folio: "F-1", Amount: decimal.NewFromInt(95), Coins: decimal.NewFromInt(5), Total: decimal.NewFromInt(100)},
		},
		DepositTotal: decimal.NewFromInt(100),
		GeneratedAt:  time.Date(2025, 1, 16, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestStatement_Filename(t *testing.T) {
	st := sampleStatement()
	assert.Equal(t, "corte-2025-01-15-daily-sales-3f1c2a9e.pdf", st.Filename(FormatPDF))
	assert.True(t, decimal.NewFromInt(150).Equal(st.BreakdownTotal()))
}

func TestRenderer_XLSX(t *testing.T) {
	doc, err := NewRenderer().Render(sampleStatement(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX.ContentType(), doc.ContentType)
	assert.Equal(t, "corte-2025-01-15-daily-sales-3f1c2a9e.xlsx", doc.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, lineItemsSheet, depositsSheet}, f.GetSheetList())

	worker, err := f.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "José Núñez", worker)

	source, err := f.GetCellValue(summarySheet, "B16")
	require.NoError(t, err)
	assert.Equal(t, "live", source)

	label, err := f.GetCellValue(summarySheet, "A17")
	require.NoError(t, err)
	assert.Equal(t, "cash", label)

	ref, err := f.GetCellValue(lineItemsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "o-1", ref)

	folio, err := f.GetCellValue(depositsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "F-1", folio)
	total, err := f.GetCellValue(depositsSheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "100", total)
}

func TestRenderer_PDF(t *testing.T) {
	doc, err := NewRenderer().Render(sampleStatement(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF-")))
}

func TestRenderer_Errors(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(nil, FormatPDF)
	assert.Error(t, err)

	_, err = r.Render(sampleStatement(), Format("csv"))
	assert.Error(t, err)
}
