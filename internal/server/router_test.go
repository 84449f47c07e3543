package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"costbook-backend/internal/config"
	"costbook-backend/internal/costing"
	"costbook-backend/internal/inventory"
	"costbook-backend/internal/models"
	"costbook-backend/internal/purchases"
	"costbook-backend/internal/receipt"
	"costbook-backend/internal/sales"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const ownerEmail = "owner@example.com"

type testEnv struct {
	t   *testing.T
	app *fiber.App
	st  *store.Memory
}

type fakeScanner struct {
	receipt *receipt.ParsedReceipt
	err     error
}

func (f fakeScanner) Scan(ctx context.Context, mimeType string, image []byte) (*receipt.ParsedReceipt, error) {
	return f.receipt, f.err
}

func newTestEnv(t *testing.T, scanner receipt.Scanner) *testEnv {
	t.Helper()
	cfg := &config.Config{
		AppEnv:      "test",
		JWTSecret:   strings.Repeat("k", 32),
		JWTTTLHours: 1,
		CORSOrigins: "http://localhost:5173",
		OwnerEmail:  ownerEmail,
		TrialDays:   7,
		MaxUploadMB: 1,
	}
	st := store.NewMemory()
	app := New(Deps{Config: cfg, Store: st, Logger: zap.NewNop(), Scanner: scanner})
	return &testEnv{t: t, app: app, st: st}
}

func (e *testEnv) do(method, path, token string, body any) (int, []byte) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, token)
}

func (e *testEnv) send(req *http.Request, token string) (int, []byte) {
	e.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp.StatusCode, raw
}

func (e *testEnv) decode(raw []byte, v any) {
	e.t.Helper()
	require.NoError(e.t, json.Unmarshal(raw, v), string(raw))
}

func (e *testEnv) register(email string) string {
	e.t.Helper()
	status, raw := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  "secret123",
		"full_name": "Test User",
	})
	require.Equal(e.t, fiber.StatusCreated, status, string(raw))

	var resp struct {
		Token string `json:"token"`
	}
	e.decode(raw, &resp)
	return resp.Token
}

func (e *testEnv) createIngredient(token string, body map[string]any) models.Ingredient {
	e.t.Helper()
	status, raw := e.do(http.MethodPost, "/api/ingredients", token, body)
	require.Equal(e.t, fiber.StatusCreated, status, string(raw))

	var ing models.Ingredient
	e.decode(raw, &ing)
	return ing
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	token := env.register("Maria@Example.com ")

	status, raw := env.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me struct {
		Email              string `json:"email"`
		IsAdmin            bool   `json:"is_admin"`
		SubscriptionStatus string `json:"subscription_status"`
	}
	env.decode(raw, &me)
	assert.Equal(t, "maria@example.com", me.Email)
	assert.False(t, me.IsAdmin)
	assert.Equal(t, "active", me.SubscriptionStatus)

	status, _ = env.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "maria@example.com", "password": "secret123"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "maria@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, raw = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "maria@example.com", "password": "secret123"})
	assert.Equal(t, fiber.StatusOK, status, string(raw))

	status, _ = env.do(http.MethodGet, "/api/ingredients", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = env.do(http.MethodGet, "/api/admin/profiles", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestPurchaseAndProduction(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register("baker@example.com")

	flour := env.createIngredient(token, map[string]any{
		"name": "Flour", "unit": "kg", "package_price": 10, "package_size": 2, "current_stock": 2, "min_stock_alert": 1,
	})
	assert.Equal(t, 5.0, flour.PricePerUnit)

	// weighted average: (2*5 + 20) / (2+3) = 6
	status, raw := env.do(http.MethodPost, "/api/purchases", token, map[string]any{
		"date": "2025-03-01",
		"items": []map[string]any{
			{"ingredient_id": flour.ID, "name": "Flour 3kg", "quantity": 3, "total_price": 20},
			{"name": "Gas", "quantity": 1, "total_price": 95.5},
			{"ingredient_id": "missing", "name": "Ghost", "quantity": 1, "total_price": 1},
		},
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	var purchase purchases.CreatePurchaseResponse
	env.decode(raw, &purchase)
	assert.Equal(t, 116.5, purchase.Purchase.Total)
	require.Len(t, purchase.Ingredients, 1)
	assert.Equal(t, 6.0, purchase.Ingredients[0].PricePerUnit)
	assert.Equal(t, 5.0, purchase.Ingredients[0].CurrentStock)
	require.Len(t, purchase.Lines, 3)
	assert.Equal(t, costing.LineApplied, purchase.Lines[0].Status)
	assert.Equal(t, costing.LineExpense, purchase.Lines[1].Status)
	assert.Equal(t, costing.LineUnmatched, purchase.Lines[2].Status)

	status, raw = env.do(http.MethodPost, "/api/recipes", token, map[string]any{
		"name": "Bread", "yield_amount": 10, "yield_unit": "un", "selling_price": 2,
		"items": []map[string]any{{"ingredient_id": flour.ID, "quantity": 2}},
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var bread models.Recipe
	env.decode(raw, &bread)

	status, raw = env.do(http.MethodGet, "/api/recipes/"+bread.ID+"/cost", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var cost costing.RecipeCost
	env.decode(raw, &cost)
	assert.InDelta(t, 12.0, cost.DirectCost, 1e-9)
	assert.InDelta(t, 1.2, cost.CostPerUnit, 1e-9)
	assert.InDelta(t, 40.0, cost.MarginPercent, 1e-9)

	status, raw = env.do(http.MethodPost, "/api/recipes/"+bread.ID+"/produce", token, map[string]any{"batch_count": 2})
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, raw = env.do(http.MethodGet, "/api/ingredients/"+flour.ID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	env.decode(raw, &flour)
	assert.InDelta(t, 1.0, flour.CurrentStock, 1e-9)

	// 2kg needed, 1kg left
	status, raw = env.do(http.MethodPost, "/api/recipes/"+bread.ID+"/produce", token, map[string]any{"batch_count": 1})
	require.Equal(t, fiber.StatusUnprocessableEntity, status, string(raw))
	var rejected struct {
		Shortages []costing.Shortage `json:"shortages"`
	}
	env.decode(raw, &rejected)
	require.Len(t, rejected.Shortages, 1)
	assert.Equal(t, flour.ID, rejected.Shortages[0].IngredientID)

	status, raw = env.do(http.MethodGet, "/api/ingredients/"+flour.ID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var after models.Ingredient
	env.decode(raw, &after)
	assert.Equal(t, flour.CurrentStock, after.CurrentStock, "rejected run leaves stock untouched")

	status, raw = env.do(http.MethodGet, "/api/ingredients/low-stock", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var low []models.Ingredient
	env.decode(raw, &low)
	assert.Len(t, low, 1)

	status, _ = env.do(http.MethodPost, "/api/recipes/"+bread.ID+"/produce", token, map[string]any{"batch_count": 0})
	assert.Equal(t, fiber.StatusBadRequest, status)

	logs, err := env.st.ListAuditLogs(context.Background(), after.OwnerID, store.AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 4, "ingredient, purchase, recipe and one production run")
}

func TestIngredientUpdate(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register("cook@example.com")

	ing := env.createIngredient(token, map[string]any{
		"name": "Milk", "unit": "l", "package_price": 5, "package_size": 1, "current_stock": 3,
	})

	status, raw := env.do(http.MethodPut, "/api/ingredients/"+ing.ID, token, map[string]any{
		"current_stock": 10, "version": ing.Version,
	})
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var updated models.Ingredient
	env.decode(raw, &updated)
	assert.Equal(t, 10.0, updated.CurrentStock)
	assert.Equal(t, 5.0, updated.PricePerUnit, "manual edits never touch the price")
	assert.Equal(t, ing.Version+1, updated.Version)

	status, _ = env.do(http.MethodPut, "/api/ingredients/"+ing.ID, token, map[string]any{
		"current_stock": 1, "version": ing.Version,
	})
	assert.Equal(t, fiber.StatusConflict, status, "stale version")

	status, _ = env.do(http.MethodPut, "/api/ingredients/"+ing.ID, token, map[string]any{"unit": "box"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	other := env.register("other@example.com")
	status, _ = env.do(http.MethodGet, "/api/ingredients/"+ing.ID, other, nil)
	assert.Equal(t, fiber.StatusNotFound, status, "owners are isolated")

	status, _ = env.do(http.MethodDelete, "/api/ingredients/"+ing.ID, token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = env.do(http.MethodGet, "/api/ingredients/"+ing.ID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestSalesAndCashier(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register("shop@example.com")

	chicken := env.createIngredient(token, map[string]any{
		"name": "Chicken", "unit": "kg", "package_price": 24, "package_size": 2, "current_stock": 5,
	})
	status, raw := env.do(http.MethodPost, "/api/recipes", token, map[string]any{
		"name": "Coxinha", "yield_amount": 10, "selling_price": 2,
		"items": []map[string]any{{"ingredient_id": chicken.ID, "quantity": 1}},
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var coxinha models.Recipe
	env.decode(raw, &coxinha)

	status, raw = env.do(http.MethodGet, "/api/cash-sessions/current", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "null", string(raw))

	status, raw = env.do(http.MethodPost, "/api/cash-sessions/open", token, map[string]any{"initial_balance": 50})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	status, _ = env.do(http.MethodPost, "/api/cash-sessions/open", token, map[string]any{"initial_balance": 10})
	assert.Equal(t, fiber.StatusConflict, status)

	status, raw = env.do(http.MethodPost, "/api/sales", token, map[string]any{
		"payment_method": "cash",
		"amount_given":   10,
		"items":          []map[string]any{{"recipe_id": coxinha.ID, "quantity": 3}},
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var sale sales.SaleResponse
	env.decode(raw, &sale)
	assert.Equal(t, 6.0, sale.Total)
	assert.Equal(t, 2.4, sale.Profit)
	assert.Equal(t, 1.2, sale.Items[0].CostPrice)
	require.NotNil(t, sale.Change)
	assert.Equal(t, 4.0, *sale.Change)
	assert.NotNil(t, sale.CashSessionID)

	status, _ = env.do(http.MethodPost, "/api/sales", token, map[string]any{
		"payment_method": "barter",
		"items":          []map[string]any{{"recipe_id": coxinha.ID, "quantity": 1}},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(http.MethodPost, "/api/sales", token, map[string]any{
		"payment_method": "cash",
		"amount_given":   5,
		"items":          []map[string]any{{"recipe_id": coxinha.ID, "quantity": 3}},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status, "cash short of the total")
	list, err := env.st.ListSales(context.Background(), coxinha.OwnerID, store.DateRange{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	status, raw = env.do(http.MethodPost, "/api/cash-sessions/close", token, map[string]any{"final_balance": 55})
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var closed models.CashSession
	env.decode(raw, &closed)
	assert.Equal(t, models.CashSessionClosed, closed.Status)
	assert.Equal(t, 56.0, closed.ExpectedBalance)
	assert.Equal(t, -1.0, closed.Difference)

	status, _ = env.do(http.MethodPost, "/api/cash-sessions/close", token, map[string]any{"final_balance": 55})
	assert.Equal(t, fiber.StatusConflict, status)

	status, raw = env.do(http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var stats struct {
		TotalSales  float64 `json:"total_sales"`
		TotalProfit float64 `json:"total_profit"`
	}
	env.decode(raw, &stats)
	assert.Equal(t, 6.0, stats.TotalSales)
	assert.Equal(t, 2.4, stats.TotalProfit)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/export", nil)
	status, raw = env.send(req, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "xlsx is a zip archive")

	status, _ = env.do(http.MethodGet, "/api/sales?from=2025-13-01", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// stock is only moved by production
	status, raw = env.do(http.MethodGet, "/api/ingredients/"+chicken.ID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var after models.Ingredient
	env.decode(raw, &after)
	assert.Equal(t, 5.0, after.CurrentStock)

}

func TestSubscriptionGate(t *testing.T) {
	env := newTestEnv(t, nil)
	adminToken := env.register(ownerEmail)
	userToken := env.register("late@example.com")

	ctx := context.Background()
	u, err := env.st.GetUserByEmail(ctx, "late@example.com")
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	u.SubscriptionExpiresAt = &past
	require.NoError(t, env.st.UpdateUser(ctx, u))

	status, _ := env.do(http.MethodGet, "/api/ingredients", userToken, nil)
	assert.Equal(t, fiber.StatusPaymentRequired, status)

	status, _ = env.do(http.MethodGet, "/api/auth/me", userToken, nil)
	assert.Equal(t, fiber.StatusOK, status, "me stays reachable")

	status, raw := env.do(http.MethodGet, "/api/admin/profiles?search=late", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var profiles []struct {
		ID    uint   `json:"id"`
		State string `json:"state"`
	}
	env.decode(raw, &profiles)
	require.Len(t, profiles, 1)
	assert.Equal(t, "expired", profiles[0].State)

	status, raw = env.do(http.MethodPost, "/api/admin/profiles/"+itoa(profiles[0].ID)+"/subscription/extend", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, _ = env.do(http.MethodGet, "/api/ingredients", userToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = env.do(http.MethodPut, "/api/admin/profiles/"+itoa(profiles[0].ID)+"/subscription", adminToken, map[string]any{"status": "blocked"})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = env.do(http.MethodGet, "/api/ingredients", userToken, nil)
	assert.Equal(t, fiber.StatusPaymentRequired, status)

	status, _ = env.do(http.MethodGet, "/api/ingredients", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestReceiptScan(t *testing.T) {
	scanner := fakeScanner{receipt: &receipt.ParsedReceipt{
		Date:  "2025-03-01",
		Total: 31,
		Items: []receipt.ParsedItem{
			{Name: "FARINHA", Quantity: 5, Unit: "kg", TotalPrice: 25},
			{Name: "Detergente", Quantity: 1, Unit: "un", TotalPrice: 6},
		},
	}}
	env := newTestEnv(t, scanner)
	token := env.register("scan@example.com")
	flour := env.createIngredient(token, map[string]any{"name": "Farinha", "unit": "kg"})

	status, raw := env.send(imageUpload(t, []byte("\x89PNG fake")), token)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	var draft receipt.Draft
	env.decode(raw, &draft)
	require.Len(t, draft.Items, 2)
	assert.Equal(t, flour.ID, draft.Items[0].IngredientID)
	assert.True(t, draft.Items[1].IsExpense())

	purchasesAfter, err := env.st.ListPurchases(context.Background(), flour.OwnerID, store.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, purchasesAfter, "scanning never stores a purchase")
}

func TestReceiptScan_Disabled(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register("noscan@example.com")

	status, _ := env.send(imageUpload(t, []byte("img")), token)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register("nf@example.com")

	status, raw := env.do(http.MethodGet, "/api/recipes/does-not-exist", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"not found"}`, string(raw))
}

func TestWasteAndImport(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register("stock@example.com")

	ing := env.createIngredient(token, map[string]any{
		"name": "Açúcar", "unit": "kg", "package_price": 10, "package_size": 2, "current_stock": 3,
	})

	status, raw := env.do(http.MethodPost, "/api/ingredients/"+ing.ID+"/waste", token, map[string]any{"quantity": 1, "note": "bag torn"})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var waste struct {
		Ingredient models.Ingredient `json:"ingredient"`
	}
	env.decode(raw, &waste)
	assert.Equal(t, 2.0, waste.Ingredient.CurrentStock)
	assert.Equal(t, 5.0, waste.Ingredient.PricePerUnit)

	status, _ = env.do(http.MethodPost, "/api/ingredients/"+ing.ID+"/waste", token, map[string]any{"quantity": 5, "note": "flood"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	status, _ = env.do(http.MethodPost, "/api/ingredients/"+ing.ID+"/waste", token, map[string]any{"quantity": 1})
	assert.Equal(t, fiber.StatusBadRequest, status, "note is required")

	status, raw = env.do(http.MethodGet, "/api/waste-entries", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var entries []models.WasteEntry
	env.decode(raw, &entries)
	assert.Len(t, entries, 1)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Unit", "Package price", "Package size", "Stock"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"acucar", "kg", 1, 1, 1}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Cocoa", "g", 40, 500, 250}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"Broken", "box"}))
	book, err := f.WriteToBuffer()
	require.NoError(t, err)

	status, raw = env.send(fileUpload(t, "/api/ingredients/import", "file", "ingredients.xlsx", "application/octet-stream", book.Bytes()), token)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var imported inventory.ImportResponse
	env.decode(raw, &imported)
	require.Len(t, imported.Created, 1)
	assert.Equal(t, "Cocoa", imported.Created[0].Name)
	assert.InDelta(t, 0.08, imported.Created[0].PricePerUnit, 1e-9)
	assert.Equal(t, []string{"acucar"}, imported.Existing)
	require.Len(t, imported.Errors, 1)
	assert.Equal(t, 4, imported.Errors[0].Row)
}

func imageUpload(t *testing.T, data []byte) *http.Request {
	return fileUpload(t, "/api/purchases/scan", "image", "receipt.png", "image/png", data)
}

func fileUpload(t *testing.T, path, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestEmptyListsAndAuditFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register("lists@example.com")

	for _, path := range []string{"/api/ingredients", "/api/audit-logs", "/api/recipes", "/api/waste-entries"} {
		status, raw := env.do(http.MethodGet, path, token, nil)
		require.Equal(t, fiber.StatusOK, status, path)
		assert.JSONEq(t, "[]", string(raw), path)
	}

	milk := env.createIngredient(token, map[string]any{"name": "Leite", "unit": "l"})
	status, raw := env.do(http.MethodPost, "/api/recipes", token, map[string]any{
		"name": "Pudim", "yield_amount": 8, "selling_price": 5,
		"items": []map[string]any{{"ingredient_id": milk.ID, "quantity": 1}},
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	env.createIngredient(token, map[string]any{"name": "Ovos", "unit": "un"})
	env.createIngredient(token, map[string]any{"name": "Açúcar", "unit": "kg"})

	status, raw = env.do(http.MethodGet, "/api/audit-logs?entity_type=recipe&limit=1", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var logs []models.AuditLog
	env.decode(raw, &logs)
	require.Len(t, logs, 1, "filter applies before the limit")
	assert.Equal(t, "recipe", logs[0].EntityType)

	status, _ = env.do(http.MethodGet, "/api/ingredients/not-a-uuid", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
