package settlement

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// categoryKeywords is checked in order; the first bucket with a matching
// keyword wins, so "tarjeta de credito" is card and not store-credit.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryCard, []string{"card", "tarjeta", "terminal", "tpv", "debito", "debit"}},
	{CategoryWireTransfer, []string{"wire", "transfer", "spei"}},
	{CategoryCheck, []string{"check", "cheque"}},
	{CategoryStoreCredit, []string{"store-credit", "credit", "credito", "vale"}},
	{CategoryCash, []string{"cash", "efectivo", "contado"}},
}

// wholeWordKeywords only match a complete word of the label (or its plural),
// never a fragment: "equivalente" is not a vale and "checkout" is not a check.
var wholeWordKeywords = map[string]bool{
	"vale":  true,
	"check": true,
	"tpv":   true,
}

// MethodInfo is a payment-method catalog entry
type MethodInfo struct {
	ID       string
	Name     string
	Category string
}

// CatalogIndex resolves method references to catalog entries
type CatalogIndex interface {
	Lookup(ref string) (MethodInfo, bool)
}

// MapCatalogIndex is a CatalogIndex backed by a map keyed by method id
type MapCatalogIndex map[string]MethodInfo

// Lookup implements CatalogIndex
func (m MapCatalogIndex) Lookup(ref string) (MethodInfo, bool) {
	info, ok := m[strings.TrimSpace(ref)]
	return info, ok
}

// foldLabel lowercases and strips diacritics ("Crédito" -> "credito")
func foldLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// MatchCategory matches a free-form label against the category keywords.
// ok is false when the label is blank or matches nothing.
func MatchCategory(label string) (Category, bool) {
	folded := foldLabel(label)
	if folded == "" {
		return CategoryOther, false
	}
	if Category(folded) == CategoryOther {
		return CategoryOther, true
	}
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if wholeWordKeywords[kw] {
				if hasWord(words, kw) {
					return group.category, true
				}
				continue
			}
			if strings.Contains(folded, kw) {
				return group.category, true
			}
		}
	}
	return CategoryOther, false
}

func hasWord(words []string, kw string) bool {
	for _, w := range words {
		if w == kw || w == kw+"s" {
			return true
		}
	}
	return false
}

// ClassifyLabel maps a label straight to a category; unmatched labels are other
func ClassifyLabel(label string) Category {
	c, _ := MatchCategory(label)
	return c
}

// Classify maps a breakdown entry to exactly one category. The inline label
// wins; the catalog is consulted only when the label is blank or unmatched and
// the entry carries a method reference.
func Classify(entry BreakdownEntry, idx CatalogIndex) Category {
	if c, ok := MatchCategory(entry.Label); ok {
		return c
	}
	if entry.MethodRef == "" || idx == nil {
		return CategoryOther
	}
	info, found := idx.Lookup(entry.MethodRef)
	if !found {
		return CategoryOther
	}
	if c, ok := MatchCategory(info.Category); ok {
		return c
	}
	return ClassifyLabel(info.Name)
}
