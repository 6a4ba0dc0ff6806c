package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"partshop/internal/domain"
)

// MemoryStore объединённое in-memory хранилище. Порядок вставки сохраняется,
// чтобы выборки были детерминированными.
type MemoryStore struct {
	mu sync.RWMutex

	productsByID    map[string]domain.Product
	productIDs      []string
	imagesByProduct map[string][]domain.Image

	ordersByID map[string]domain.Order
	orderIDs   []string

	usersByID map[string]domain.User
	userIDs   []string

	brandsByID map[string]domain.Brand
	brandIDs   []string

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productsByID:    make(map[string]domain.Product),
		imagesByProduct: make(map[string][]domain.Image),
		ordersByID:      make(map[string]domain.Order),
		usersByID:       make(map[string]domain.User),
		brandsByID:      make(map[string]domain.Brand),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p.ID = uuid.NewString()
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	p.Images = m.putImages(p.ID, imageURLs(p.Images))
	m.productsByID[p.ID] = m.copyProduct(*p)
	m.productIDs = append(m.productIDs, p.ID)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := m.withImages(p)
	return &cp, nil
}

func (m *MemoryStore) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.productsByID[id]; ok {
			out = append(out, m.withImages(p))
		}
	}
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	existing, ok := m.productsByID[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.CreatedBy = existing.CreatedBy
	p.UpdatedAt = m.now()
	m.productsByID[p.ID] = m.copyProduct(*p)
	p.Images = m.withImages(*p).Images
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	m.productIDs = removeID(m.productIDs, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, id := range m.productIDs {
		p := m.productsByID[id]
		if !containsIgnoreCase(p.Name, f.NameSubstring) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.CreatedBy != "" && p.CreatedBy != f.CreatedBy {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, m.withImages(p))
	}
	return out, nil
}

func (m *MemoryStore) ReplaceImages(ctx context.Context, productID string, urls []string) ([]domain.Image, error) {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[productID]; !ok {
		return nil, ErrNotFound
	}
	return m.putImages(productID, urls), nil
}

func (m *MemoryStore) DeleteImages(ctx context.Context, productID string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	delete(m.imagesByProduct, productID)
	return nil
}

// putImages must be called under the write lock.
func (m *MemoryStore) putImages(productID string, urls []string) []domain.Image {
	images := make([]domain.Image, 0, len(urls))
	for _, u := range urls {
		images = append(images, domain.Image{ID: uuid.NewString(), URL: u, ProductID: productID})
	}
	m.imagesByProduct[productID] = images
	return append([]domain.Image(nil), images...)
}

func (m *MemoryStore) withImages(p domain.Product) domain.Product {
	cp := m.copyProduct(p)
	cp.Images = append([]domain.Image{}, m.imagesByProduct[p.ID]...)
	return cp
}

func (m *MemoryStore) copyProduct(p domain.Product) domain.Product {
	cp := p
	cp.Images = nil
	cp.AvailableColors = cloneStrings(p.AvailableColors)
	cp.AvailableSizes = cloneStrings(p.AvailableSizes)
	return cp
}

func imageURLs(images []domain.Image) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	return urls
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.ID = uuid.NewString()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = mo.store.now()
	}
	o.UpdatedAt = o.CreatedAt
	mo.store.ordersByID[o.ID] = copyOrder(*o)
	mo.store.orderIDs = append(mo.store.orderIDs, o.ID)
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) Update(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if _, ok := mo.store.ordersByID[o.ID]; !ok {
		return ErrNotFound
	}
	o.UpdatedAt = mo.store.now()
	mo.store.ordersByID[o.ID] = copyOrder(*o)
	return nil
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, id := range mo.store.orderIDs {
		o := mo.store.ordersByID[id]
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.CustomerOnly && o.CustomerID == "" {
			continue
		}
		out = append(out, copyOrder(o))
	}
	return out, nil
}

// items snapshot must not alias caller memory
func copyOrder(o domain.Order) domain.Order {
	cp := o
	cp.Items = append(domain.RawItems(nil), o.Items...)
	return cp
}

// UserRepository implementation
type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store: store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (mu *MemoryUsers) Create(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	u.Email = normalizeEmail(u.Email)
	if mu.emailTaken(u.Email, "") {
		return ErrDuplicate
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	} else if _, ok := mu.store.usersByID[u.ID]; ok {
		return ErrDuplicate
	}
	u.CreatedAt = mu.store.now()
	u.UpdatedAt = u.CreatedAt
	mu.store.usersByID[u.ID] = *u
	mu.store.userIDs = append(mu.store.userIDs, u.ID)
	return nil
}

func (mu *MemoryUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	u, ok := mu.store.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (mu *MemoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	email = normalizeEmail(email)
	for _, id := range mu.store.userIDs {
		if u := mu.store.usersByID[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (mu *MemoryUsers) Update(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	existing, ok := mu.store.usersByID[u.ID]
	if !ok {
		return ErrNotFound
	}
	u.Email = normalizeEmail(u.Email)
	if mu.emailTaken(u.Email, u.ID) {
		return ErrDuplicate
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = mu.store.now()
	mu.store.usersByID[u.ID] = *u
	return nil
}

func (mu *MemoryUsers) Delete(ctx context.Context, id string) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	if _, ok := mu.store.usersByID[id]; !ok {
		return ErrNotFound
	}
	delete(mu.store.usersByID, id)
	mu.store.userIDs = removeID(mu.store.userIDs, id)
	return nil
}

func (mu *MemoryUsers) List(ctx context.Context, f UserFilter) ([]domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	out := make([]domain.User, 0)
	for _, id := range mu.store.userIDs {
		u := mu.store.usersByID[id]
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.ManagedBy != "" && u.ManagedBy != f.ManagedBy {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (mu *MemoryUsers) emailTaken(email, exceptID string) bool {
	for id, u := range mu.store.usersByID {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// BrandRepository implementation
type MemoryBrands struct{ store *MemoryStore }

func NewMemoryBrands(store *MemoryStore) *MemoryBrands { return &MemoryBrands{store: store} }

var _ BrandRepository = (*MemoryBrands)(nil)

func (mb *MemoryBrands) Create(ctx context.Context, b *domain.Brand) error {
	mb.store.wlock(ctx)
	defer mb.store.wunlock(ctx)
	b.ID = uuid.NewString()
	b.CreatedAt = mb.store.now()
	b.UpdatedAt = b.CreatedAt
	mb.store.brandsByID[b.ID] = *b
	mb.store.brandIDs = append(mb.store.brandIDs, b.ID)
	return nil
}

func (mb *MemoryBrands) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	mb.store.rlock(ctx)
	defer mb.store.runlock(ctx)
	b, ok := mb.store.brandsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (mb *MemoryBrands) Update(ctx context.Context, b *domain.Brand) error {
	mb.store.wlock(ctx)
	defer mb.store.wunlock(ctx)
	existing, ok := mb.store.brandsByID[b.ID]
	if !ok {
		return ErrNotFound
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = mb.store.now()
	mb.store.brandsByID[b.ID] = *b
	return nil
}

func (mb *MemoryBrands) Delete(ctx context.Context, id string) error {
	mb.store.wlock(ctx)
	defer mb.store.wunlock(ctx)
	if _, ok := mb.store.brandsByID[id]; !ok {
		return ErrNotFound
	}
	delete(mb.store.brandsByID, id)
	mb.store.brandIDs = removeID(mb.store.brandIDs, id)
	return nil
}

func (mb *MemoryBrands) List(ctx context.Context) ([]domain.Brand, error) {
	mb.store.rlock(ctx)
	defer mb.store.runlock(ctx)
	out := make([]domain.Brand, 0, len(mb.store.brandIDs))
	for _, id := range mb.store.brandIDs {
		out = append(out, mb.store.brandsByID[id])
	}
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// nested calls reuse the already-held lock
	if isTx(ctx) {
		return fn(ctx)
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
