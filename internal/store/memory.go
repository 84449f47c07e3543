package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"costbook-backend/internal/models"

	"github.com/google/uuid"
)

// Memory keeps every table in maps behind one mutex. WithTx serializes
// transactions and restores a full copy of the data on error; writes made
// outside WithTx while a transaction runs are lost on rollback, which is
// acceptable for a single-process development store.
var _ Store = (*Memory)(nil)

type Memory struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    memData
	now  func() time.Time
}

type memData struct {
	nextUserID  uint
	nextAuditID uint
	users       map[uint]models.User
	ingredients map[string]models.Ingredient
	recipes     map[string]models.Recipe
	purchases   map[string]models.Purchase
	sales       map[string]models.Sale
	sessions    map[string]models.CashSession
	waste       []models.WasteEntry
	audit       []models.AuditLog
}

func NewMemory() *Memory {
	return &Memory{
		now: time.Now,
		d: memData{
			nextUserID:  1,
			nextAuditID: 1,
			users:       map[uint]models.User{},
			ingredients: map[string]models.Ingredient{},
			recipes:     map[string]models.Recipe{},
			purchases:   map[string]models.Purchase{},
			sales:       map[string]models.Sale{},
			sessions:    map[string]models.CashSession{},
		},
	}
}

func (d memData) clone() memData {
	c := d
	c.users = make(map[uint]models.User, len(d.users))
	for k, v := range d.users {
		c.users[k] = v
	}
	c.ingredients = make(map[string]models.Ingredient, len(d.ingredients))
	for k, v := range d.ingredients {
		c.ingredients[k] = v
	}
	c.recipes = make(map[string]models.Recipe, len(d.recipes))
	for k, v := range d.recipes {
		c.recipes[k] = copyRecipe(v)
	}
	c.purchases = make(map[string]models.Purchase, len(d.purchases))
	for k, v := range d.purchases {
		c.purchases[k] = copyPurchase(v)
	}
	c.sales = make(map[string]models.Sale, len(d.sales))
	for k, v := range d.sales {
		c.sales[k] = copySale(v)
	}
	c.sessions = make(map[string]models.CashSession, len(d.sessions))
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	c.waste = append([]models.WasteEntry(nil), d.waste...)
	c.audit = append([]models.AuditLog(nil), d.audit...)
	return c
}

func copyRecipe(r models.Recipe) models.Recipe {
	r.Items = append([]models.RecipeItem(nil), r.Items...)
	return r
}

func copyPurchase(p models.Purchase) models.Purchase {
	p.Items = append([]models.PurchaseItem(nil), p.Items...)
	return p
}

func copySale(s models.Sale) models.Sale {
	s.Items = append([]models.SaleItem(nil), s.Items...)
	return s
}

func (m *Memory) WithTx(ctx context.Context, fn func(tx Repo) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.d.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.d = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// ---------------------------------------------
// Users
// ---------------------------------------------

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.d.users {
		if existing.Email == u.Email {
			return ErrConflict
		}
	}
	u.ID = m.d.nextUserID
	m.d.nextUserID++
	u.CreatedAt = m.now()
	u.UpdatedAt = u.CreatedAt
	m.d.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListUsers(ctx context.Context, search string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search = strings.ToLower(search)
	users := make([]models.User, 0, len(m.d.users))
	for _, u := range m.d.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.FullName), search) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (m *Memory) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.d.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	cur.FullName = u.FullName
	cur.Phone = u.Phone
	cur.IsAdmin = u.IsAdmin
	cur.SubscriptionStatus = u.SubscriptionStatus
	cur.SubscriptionExpiresAt = u.SubscriptionExpiresAt
	cur.UpdatedAt = m.now()
	m.d.users[u.ID] = cur
	return nil
}

// ---------------------------------------------
// Ingredients
// ---------------------------------------------

func (m *Memory) ListIngredients(ctx context.Context, ownerID uint) ([]models.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ings []models.Ingredient
	for _, ing := range m.d.ingredients {
		if ing.OwnerID == ownerID {
			ings = append(ings, ing)
		}
	}
	sort.Slice(ings, func(i, j int) bool {
		if ings[i].Name != ings[j].Name {
			return ings[i].Name < ings[j].Name
		}
		return ings[i].ID < ings[j].ID
	})
	return ings, nil
}

func (m *Memory) GetIngredient(ctx context.Context, ownerID uint, id string) (*models.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ing, ok := m.d.ingredients[id]
	if !ok || ing.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &ing, nil
}

func (m *Memory) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if _, exists := m.d.ingredients[ing.ID]; exists {
		return ErrConflict
	}
	if ing.Version == 0 {
		ing.Version = 1
	}
	ing.CreatedAt = m.now()
	ing.UpdatedAt = ing.CreatedAt
	m.d.ingredients[ing.ID] = *ing
	return nil
}

func (m *Memory) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.checkVersion(ing)
	if err != nil {
		return err
	}
	next := *ing
	next.CreatedAt = cur.CreatedAt
	m.commitIngredient(ing, next)
	return nil
}

func (m *Memory) SaveIngredientStock(ctx context.Context, ownerID uint, ings []models.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range ings {
		if ings[i].OwnerID != ownerID {
			return fmt.Errorf("ingredient %s: %w", ings[i].ID, ErrNotFound)
		}
		if _, err := m.checkVersion(&ings[i]); err != nil {
			return fmt.Errorf("ingredient %s: %w", ings[i].ID, err)
		}
	}
	for i := range ings {
		next := m.d.ingredients[ings[i].ID]
		next.PricePerUnit = ings[i].PricePerUnit
		next.LastPackagePrice = ings[i].LastPackagePrice
		next.LastPackageSize = ings[i].LastPackageSize
		next.CurrentStock = ings[i].CurrentStock
		m.commitIngredient(&ings[i], next)
	}
	return nil
}

func (m *Memory) checkVersion(ing *models.Ingredient) (models.Ingredient, error) {
	cur, ok := m.d.ingredients[ing.ID]
	if !ok || cur.OwnerID != ing.OwnerID {
		return cur, ErrNotFound
	}
	if cur.Version != ing.Version {
		return cur, ErrStaleSnapshot
	}
	return cur, nil
}

func (m *Memory) commitIngredient(caller *models.Ingredient, next models.Ingredient) {
	next.Version++
	next.UpdatedAt = m.now()
	m.d.ingredients[next.ID] = next
	caller.Version = next.Version
	caller.UpdatedAt = next.UpdatedAt
}

func (m *Memory) DeleteIngredient(ctx context.Context, ownerID uint, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ing, ok := m.d.ingredients[id]
	if !ok || ing.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.d.ingredients, id)
	return nil
}

// ---------------------------------------------
// Recipes
// ---------------------------------------------

func (m *Memory) ListRecipes(ctx context.Context, ownerID uint) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var recipes []models.Recipe
	for _, r := range m.d.recipes {
		if r.OwnerID == ownerID {
			recipes = append(recipes, copyRecipe(r))
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].Name < recipes[j].Name })
	return recipes, nil
}

func (m *Memory) GetRecipe(ctx context.Context, ownerID uint, id string) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.d.recipes[id]
	if !ok || r.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	r = copyRecipe(r)
	return &r, nil
}

func (m *Memory) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	for i := range r.Items {
		r.Items[i].RecipeID = r.ID
		r.Items[i].Position = i
	}
	r.CreatedAt = m.now()
	r.UpdatedAt = r.CreatedAt
	m.d.recipes[r.ID] = copyRecipe(*r)
	return nil
}

func (m *Memory) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.d.recipes[r.ID]
	if !ok || cur.OwnerID != r.OwnerID {
		return ErrNotFound
	}
	for i := range r.Items {
		r.Items[i].RecipeID = r.ID
		r.Items[i].Position = i
	}
	r.CreatedAt = cur.CreatedAt
	r.UpdatedAt = m.now()
	m.d.recipes[r.ID] = copyRecipe(*r)
	return nil
}

func (m *Memory) DeleteRecipe(ctx context.Context, ownerID uint, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.d.recipes[id]
	if !ok || r.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.d.recipes, id)
	return nil
}

// ---------------------------------------------
// Purchases
// ---------------------------------------------

func (m *Memory) ListPurchases(ctx context.Context, ownerID uint, rng DateRange) ([]models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purchases []models.Purchase
	for _, p := range m.d.purchases {
		if p.OwnerID == ownerID && rng.Contains(p.Date) {
			purchases = append(purchases, copyPurchase(p))
		}
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].Date.After(purchases[j].Date) })
	return purchases, nil
}

func (m *Memory) GetPurchase(ctx context.Context, ownerID uint, id string) (*models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.d.purchases[id]
	if !ok || p.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	p = copyPurchase(p)
	return &p, nil
}

func (m *Memory) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Items {
		p.Items[i].PurchaseID = p.ID
		p.Items[i].Position = i
	}
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.d.purchases[p.ID] = copyPurchase(*p)
	return nil
}

func (m *Memory) DeletePurchase(ctx context.Context, ownerID uint, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.d.purchases[id]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.d.purchases, id)
	return nil
}

// ---------------------------------------------
// Sales
// ---------------------------------------------

func (m *Memory) ListSales(ctx context.Context, ownerID uint, rng DateRange) ([]models.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sales []models.Sale
	for _, s := range m.d.sales {
		if s.OwnerID == ownerID && rng.Contains(s.Date) {
			sales = append(sales, copySale(s))
		}
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	return sales, nil
}

func (m *Memory) CreateSale(ctx context.Context, s *models.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	for i := range s.Items {
		s.Items[i].SaleID = s.ID
		s.Items[i].Position = i
	}
	s.CreatedAt = m.now()
	m.d.sales[s.ID] = copySale(*s)
	return nil
}

// ---------------------------------------------
// Cash sessions
// ---------------------------------------------

func (m *Memory) ListCashSessions(ctx context.Context, ownerID uint) ([]models.CashSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sessions []models.CashSession
	for _, s := range m.d.sessions {
		if s.OwnerID == ownerID {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].OpenedAt.After(sessions[j].OpenedAt) })
	return sessions, nil
}

func (m *Memory) OpenCashSession(ctx context.Context, ownerID uint) (*models.CashSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var open *models.CashSession
	for _, s := range m.d.sessions {
		if s.OwnerID != ownerID || s.Status != models.CashSessionOpen {
			continue
		}
		if open == nil || s.OpenedAt.After(open.OpenedAt) {
			cp := s
			open = &cp
		}
	}
	if open == nil {
		return nil, ErrNotFound
	}
	return open, nil
}

func (m *Memory) CreateCashSession(ctx context.Context, s *models.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = m.now()
	s.UpdatedAt = s.CreatedAt
	m.d.sessions[s.ID] = *s
	return nil
}

func (m *Memory) UpdateCashSession(ctx context.Context, s *models.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.d.sessions[s.ID]
	if !ok || cur.OwnerID != s.OwnerID {
		return ErrNotFound
	}
	next := *s
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = m.now()
	m.d.sessions[s.ID] = next
	return nil
}

// ---------------------------------------------
// Waste
// ---------------------------------------------

func (m *Memory) ListWasteEntries(ctx context.Context, ownerID uint, rng DateRange) ([]models.WasteEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []models.WasteEntry
	for _, w := range m.d.waste {
		if w.OwnerID == ownerID && rng.Contains(w.Date) {
			entries = append(entries, w)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	return entries, nil
}

func (m *Memory) CreateWasteEntry(ctx context.Context, w *models.WasteEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.CreatedAt = m.now()
	m.d.waste = append(m.d.waste, *w)
	return nil
}

// ---------------------------------------------
// Audit
// ---------------------------------------------

func (m *Memory) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.ID = m.d.nextAuditID
	m.d.nextAuditID++
	l.CreatedAt = m.now()
	m.d.audit = append(m.d.audit, *l)
	return nil
}

func (m *Memory) ListAuditLogs(ctx context.Context, ownerID uint, f AuditFilter) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var logs []models.AuditLog
	for i := len(m.d.audit) - 1; i >= 0; i-- {
		l := m.d.audit[i]
		if l.OwnerID != ownerID || (f.EntityType != "" && l.EntityType != f.EntityType) {
			continue
		}
		logs = append(logs, l)
		if f.Limit > 0 && len(logs) == f.Limit {
			break
		}
	}
	return logs, nil
}
