// Package receipt turns a photographed purchase receipt into draft purchase
// lines. Nothing here persists; the client reviews the draft and posts it
// as a normal purchase.
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"costbook-backend/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrEmptyResponse = errors.New("scanner returned no content")

// minPartialMatch is the shortest folded name, on either side, accepted for
// a substring match.
const minPartialMatch = 3

// Scanner extracts receipt data from an image.
type Scanner interface {
	Scan(ctx context.Context, mimeType string, image []byte) (*ParsedReceipt, error)
}

type ParsedItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	TotalPrice float64 `json:"totalPrice"`
}

type ParsedReceipt struct {
	Date  string       `json:"date"` // YYYY-MM-DD when readable
	Total float64      `json:"total"`
	Items []ParsedItem `json:"items"`
}

// DraftItem keeps the scanned unit. UnitMismatch flags a matched line whose
// unit differs from the ingredient's, so quantity needs converting before
// the purchase is posted.
type DraftItem struct {
	models.PurchaseItem
	IngredientUnit models.Unit `json:"ingredient_unit,omitempty"`
	UnitMismatch   bool        `json:"unit_mismatch"`
}

type Draft struct {
	Date  string      `json:"date"`
	Total float64     `json:"total"`
	Items []DraftItem `json:"items"`
}

// Parse decodes the model's JSON answer. Missing or non-positive
// quantities default to 1.
func Parse(raw []byte) (*ParsedReceipt, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, ErrEmptyResponse
	}

	var r ParsedReceipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}

	items := r.Items[:0]
	for _, it := range r.Items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			continue
		}
		if it.Quantity <= 0 {
			it.Quantity = 1
		}
		it.Unit = strings.ToLower(strings.TrimSpace(it.Unit))
		items = append(items, it)
	}
	r.Items = items
	return &r, nil
}

// Match links every parsed item to an ingredient by folded name. Exact
// matches win; otherwise the longest ingredient name contained in the item
// name (or containing it) is used. Scanned units are never rewritten.
// Unmatched items stay expense lines.
func Match(r *ParsedReceipt, ingredients []models.Ingredient) Draft {
	folded := make([]string, len(ingredients))
	for i, ing := range ingredients {
		folded[i] = Fold(ing.Name)
	}

	draft := Draft{Date: r.Date, Total: r.Total, Items: make([]DraftItem, 0, len(r.Items))}
	for _, it := range r.Items {
		line := DraftItem{PurchaseItem: models.PurchaseItem{
			Name:       it.Name,
			Unit:       it.Unit,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		}}
		if pos := bestMatch(Fold(it.Name), folded); pos >= 0 {
			ing := ingredients[pos]
			line.IngredientID = ing.ID
			line.IngredientUnit = ing.Unit
			line.UnitMismatch = models.Unit(it.Unit) != ing.Unit
		}
		draft.Items = append(draft.Items, line)
	}
	return draft
}

func bestMatch(name string, candidates []string) int {
	if name == "" {
		return -1
	}
	for i, c := range candidates {
		if c == name {
			return i
		}
	}

	if len([]rune(name)) < minPartialMatch {
		return -1
	}
	best, bestLen := -1, 0
	for i, c := range candidates {
		if len([]rune(c)) < minPartialMatch {
			continue
		}
		if strings.Contains(name, c) || strings.Contains(c, name) {
			if l := len(c); l > bestLen {
				best, bestLen = i, l
			}
		}
	}
	return best
}

// Fold lowercases, strips diacritics and collapses whitespace, so
// "Açúcar  Refinado" and "acucar refinado" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
