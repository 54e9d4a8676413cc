// Package export renders settlement statements as downloadable documents.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Format is a supported statement document format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// ParseFormat parses a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Line is one category row of the statement breakdown
type Line struct {
	Label  string
	Amount decimal.Decimal
}

// LineItem is one contributing order or payment
type LineItem struct {
	Reference string
	Kind      string
	Method    string
	Amount    decimal.Decimal
}

// Deposit is one cash drop-off
type Deposit struct {
	Folio         string
	Amount        decimal.Decimal
	RejectedBills decimal.Decimal
	Coins         decimal.Decimal
	Total         decimal.Decimal
}

// Statement is the printable view of one settlement
type Statement struct {
	SettlementID string
	WorkerID     string
	WorkerName   string
	Type         string
	Day          string
	State        string
	Notes        string

	DeclaredSales       decimal.Decimal
	DeclaredCollections decimal.Decimal
	DeclaredCash        decimal.Decimal
	DeclaredOther       decimal.Decimal
	Volume              decimal.Decimal
	Units               int64

	BreakdownSource string
	Breakdown       []Line
	LineItems       []LineItem
	Deposits        []Deposit
	DepositTotal    decimal.Decimal

	GeneratedAt time.Time
}

// BreakdownTotal sums the breakdown lines
func (s *Statement) BreakdownTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Breakdown {
		total = total.Add(l.Amount)
	}
	return total
}

// Filename returns the download name for the statement in the given format
func (s *Statement) Filename(f Format) string {
	return fmt.Sprintf("corte-%s-%s-%s.%s", s.Day, s.Type, shortID(s.SettlementID), f)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Document is a rendered statement
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Renderer renders statements in the supported formats
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render renders the statement in the given format
func (r *Renderer) Render(st *Statement, format Format) (*Document, error) {
	if st == nil {
		return nil, fmt.Errorf("statement is required")
	}

	var (
		body []byte
		err  error
	)
	switch format {
	case FormatXLSX:
		body, err = BuildStatementXLSX(st)
	case FormatPDF:
		body, err = BuildStatementPDF(st)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s statement: %w", format, err)
	}

	return &Document{
		Filename:    st.Filename(format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}
