package settlement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedBreakdown is returned for JSON that is neither a list of
// entries nor an object with an items list.
var ErrUnsupportedBreakdown = errors.New("unsupported breakdown shape")

// BreakdownEntry is the canonical form of one {method, amount} pair of a
// payment breakdown. Label is an inline category or method name; MethodRef is
// a catalog id used when the label is missing.
type BreakdownEntry struct {
	Label     string
	MethodRef string
	Amount    decimal.Decimal
}

// flexString accepts both JSON strings and numbers (catalog ids were written
// both ways).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("method reference must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

type rawBreakdownEntry struct {
	Category        string              `json:"category"`
	Type            string              `json:"type"`
	Method          string              `json:"method"`
	MethodName      string              `json:"methodName"`
	MethodID        flexString          `json:"methodId"`
	MethodIDSnake   flexString          `json:"method_id"`
	PaymentMethodID flexString          `json:"paymentMethodId"`
	Amount          decimal.NullDecimal `json:"amount"`
}

func (r rawBreakdownEntry) toEntry() (BreakdownEntry, error) {
	if !r.Amount.Valid {
		return BreakdownEntry{}, errors.New("breakdown entry without amount")
	}
	return BreakdownEntry{
		Label:     firstNonBlank(r.Category, r.Type, r.Method, r.MethodName),
		MethodRef: firstNonBlank(string(r.MethodID), string(r.MethodIDSnake), string(r.PaymentMethodID)),
		Amount:    r.Amount.Decimal,
	}, nil
}

// ParseBreakdown normalizes a stored payment breakdown into entries. It is the
// only place that knows the legacy shapes:
//
//	[{"category":"cash","amount":100}, ...]
//	{"items":[{"methodId":3,"amount":"50.00"}, ...]}
//
// A JSON string holding either shape (double-encoded column) is unwrapped once.
// Empty input yields no entries and no error.
func ParseBreakdown(raw []byte) ([]BreakdownEntry, error) {
	return parseBreakdown(raw, true)
}

func parseBreakdown(raw []byte, allowUnwrap bool) ([]BreakdownEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var items []rawBreakdownEntry
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode breakdown list: %w", err)
		}
	case '{':
		var wrapper struct {
			Items *[]rawBreakdownEntry `json:"items"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("decode breakdown object: %w", err)
		}
		if wrapper.Items == nil {
			return nil, ErrUnsupportedBreakdown
		}
		items = *wrapper.Items
	case '"':
		if !allowUnwrap {
			return nil, ErrUnsupportedBreakdown
		}
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode breakdown string: %w", err)
		}
		return parseBreakdown([]byte(inner), false)
	default:
		return nil, ErrUnsupportedBreakdown
	}

	entries := make([]BreakdownEntry, 0, len(items))
	for i, item := range items {
		entry, err := item.toEntry()
		if err != nil {
			return nil, fmt.Errorf("breakdown entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseCategorySnapshot reads the frozen category breakdown written at
// creation time. Old rows store an object keyed by label
// ({"efectivo":"120.50","transferencia":30}); some store a breakdown list.
// Keys starting with "total" are aggregates and are ignored.
func ParseCategorySnapshot(raw []byte) (CategoryTotals, error) {
	var totals CategoryTotals
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return totals, nil
	}

	if raw[0] == '{' {
		var byLabel map[string]json.RawMessage
		if err := json.Unmarshal(raw, &byLabel); err != nil {
			return totals, fmt.Errorf("decode snapshot: %w", err)
		}
		if _, hasItems := byLabel["items"]; !hasItems {
			for label, value := range byLabel {
				if strings.HasPrefix(foldLabel(label), "total") {
					continue
				}
				var amount decimal.Decimal
				if err := json.Unmarshal(value, &amount); err != nil {
					return CategoryTotals{}, fmt.Errorf("snapshot amount for %q: %w", label, err)
				}
				totals.Add(ClassifyLabel(label), amount)
			}
			return totals, nil
		}
	}

	entries, err := ParseBreakdown(raw)
	if err != nil {
		return totals, err
	}
	for _, e := range entries {
		totals.Add(ClassifyLabel(e.Label), e.Amount)
	}
	return totals, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
