package receipt

import (
	"testing"

	"costbook-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "acucar refinado", Fold("  Açúcar   Refinado "))
	assert.Equal(t, "pao frances", Fold("PÃO FRANCÊS"))
}

func TestParse(t *testing.T) {
	raw := []byte(`{"date":"2025-02-01","total":42.5,"items":[
		{"name":"Farinha de Trigo","quantity":5,"unit":"KG","totalPrice":25},
		{"name":"Detergente","unit":"un","totalPrice":4.5},
		{"name":"   ","quantity":1,"totalPrice":1}
	]}`)

	r, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, r.Items, 2, "blank names are dropped")

	assert.Equal(t, "2025-02-01", r.Date)
	assert.Equal(t, "kg", r.Items[0].Unit)
	assert.Equal(t, 1.0, r.Items[1].Quantity, "quantity defaults to 1")
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("  "))
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = Parse([]byte("not json"))
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	ings := []models.Ingredient{
		{ID: "flour", Name: "Farinha", Unit: models.UnitKilogram},
		{ID: "flour-special", Name: "Farinha de Trigo Especial", Unit: models.UnitKilogram},
		{ID: "sugar", Name: "Açúcar", Unit: models.UnitKilogram},
		{ID: "ov", Name: "Ov", Unit: models.UnitPiece},
	}
	r := &ParsedReceipt{Date: "2025-02-01", Total: 50, Items: []ParsedItem{
		{Name: "FARINHA DE TRIGO ESPECIAL", Quantity: 5, Unit: "kg", TotalPrice: 30},
		{Name: "Farinha integral 1kg", Quantity: 1, Unit: "un", TotalPrice: 8},
		{Name: "acucar", Quantity: 2, Unit: "kg", TotalPrice: 9},
		{Name: "Ovos brancos", Quantity: 12, Unit: "un", TotalPrice: 3},
	}}

	d := Match(r, ings)
	require.Len(t, d.Items, 4)

	assert.Equal(t, "flour-special", d.Items[0].IngredientID, "exact folded match")
	assert.Equal(t, "flour", d.Items[1].IngredientID, "partial match")
	assert.Equal(t, "un", d.Items[1].Unit, "scanned unit is kept")
	assert.True(t, d.Items[1].UnitMismatch)
	assert.Equal(t, models.UnitKilogram, d.Items[1].IngredientUnit)
	assert.False(t, d.Items[0].UnitMismatch)
	assert.Equal(t, "sugar", d.Items[2].IngredientID)
	assert.True(t, d.Items[3].IsExpense(), "names shorter than the partial threshold never match")
	assert.Equal(t, 50.0, d.Total)
}

func TestMatch_ShortScannedNames(t *testing.T) {
	ings := []models.Ingredient{
		{ID: "cocoa", Name: "Chocolate em pó", Unit: models.UnitGram},
		{ID: "yeast", Name: "Fermento Químico", Unit: models.UnitGram},
	}
	r := &ParsedReceipt{Items: []ParsedItem{
		{Name: "C", Quantity: 1, Unit: "un", TotalPrice: 2},
		{Name: "Fe", Quantity: 1, Unit: "un", TotalPrice: 2},
		{Name: "Fermento Quimico 500g", Quantity: 1, Unit: "un", TotalPrice: 18.99},
	}}

	d := Match(r, ings)
	require.Len(t, d.Items, 3)

	assert.True(t, d.Items[0].IsExpense(), "one letter never matches")
	assert.True(t, d.Items[1].IsExpense())

	yeast := d.Items[2]
	assert.Equal(t, "yeast", yeast.IngredientID)
	assert.Equal(t, "un", yeast.Unit)
	assert.Equal(t, 1.0, yeast.Quantity)
	assert.True(t, yeast.UnitMismatch, "un against g needs converting")
}
