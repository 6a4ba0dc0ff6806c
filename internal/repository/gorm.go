package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"partshop/internal/domain"
)

// GormStore хранилище поверх GORM (PostgreSQL). Один пул соединений на процесс,
// передаётся в репозитории явно.
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres connects, migrates the schema and returns the store.
func OpenPostgres(dsn string, log logger.Writer, slowQuery time.Duration) (*GormStore, error) {
	gormLogger := logger.New(log, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := NewGormStore(db)
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&userRecord{}, &brandRecord{}, &productRecord{}, &imageRecord{}, &orderRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Products() *GormProducts { return &GormProducts{store: s} }
func (s *GormStore) Orders() *GormOrders     { return &GormOrders{store: s} }
func (s *GormStore) Users() *GormUsers       { return &GormUsers{store: s} }
func (s *GormStore) Brands() *GormBrands     { return &GormBrands{store: s} }
func (s *GormStore) Tx() *GormTx             { return &GormTx{store: s} }

type gormTxKey struct{}

// conn returns the transaction bound to ctx, or the pool.
func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// GormTx implements TxManager with gorm.DB.Transaction.
type GormTx struct{ store *GormStore }

var _ TxManager = (*GormTx)(nil)

func (t *GormTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

// records

type userRecord struct {
	ID        string  `gorm:"type:varchar(36);primaryKey"`
	FullName  string  `gorm:"not null"`
	Email     string  `gorm:"uniqueIndex;not null"`
	Password  string  `gorm:"not null"`
	Role      string  `gorm:"type:varchar(16);not null;default:'CUSTOMER'"`
	ManagedBy *string `gorm:"type:varchar(36);index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRecord) TableName() string { return "users" }

type brandRecord struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Name      string `gorm:"not null"`
	Slug      string `gorm:"index;not null"`
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (brandRecord) TableName() string { return "brands" }

type productRecord struct {
	ID              string  `gorm:"type:varchar(36);primaryKey"`
	Name            string  `gorm:"not null"`
	Description     string  `gorm:"type:text"`
	Price           float64 `gorm:"not null"`
	Quantity        int64   `gorm:"not null"`
	Category        string  `gorm:"index"`
	AvailableColors datatypes.JSON
	AvailableSizes  datatypes.JSON
	EmbedLink       string        `gorm:"type:text"`
	CreatedBy       string        `gorm:"index;not null"`
	Images          []imageRecord `gorm:"foreignKey:ProductID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (productRecord) TableName() string { return "products" }

type imageRecord struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	URL       string `gorm:"not null"`
	ProductID string `gorm:"type:varchar(36);index;not null"`
}

func (imageRecord) TableName() string { return "images" }

// Items хранится текстом: исторические строки могут быть повреждены,
// разбор выполняется уровнем выше.
type orderRecord struct {
	ID          string  `gorm:"type:varchar(36);primaryKey"`
	UserID      string  `gorm:"type:varchar(36);index;not null"`
	CustomerID  *string `gorm:"index"`
	Items       string  `gorm:"type:text;not null"`
	TotalPrice  float64 `gorm:"not null"`
	Country     string
	City        string
	Address     string
	PaymentType string
	Status      string `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (orderRecord) TableName() string { return "orders" }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func encodeStrings(in []string) datatypes.JSON {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return datatypes.JSON(b)
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func (r productRecord) toDomain() domain.Product {
	p := domain.Product{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Quantity:        r.Quantity,
		Category:        r.Category,
		AvailableColors: decodeStrings(r.AvailableColors),
		AvailableSizes:  decodeStrings(r.AvailableSizes),
		EmbedLink:       r.EmbedLink,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Images:          make([]domain.Image, 0, len(r.Images)),
	}
	for _, img := range r.Images {
		p.Images = append(p.Images, domain.Image{ID: img.ID, URL: img.URL, ProductID: img.ProductID})
	}
	return p
}

func (r orderRecord) toDomain() domain.Order {
	return domain.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		CustomerID:  deref(r.CustomerID),
		Items:       domain.RawItems(r.Items),
		TotalPrice:  r.TotalPrice,
		Country:     r.Country,
		City:        r.City,
		Address:     r.Address,
		PaymentType: r.PaymentType,
		Status:      domain.OrderStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		PasswordHash: r.Password,
		Role:         domain.Role(r.Role),
		ManagedBy:    deref(r.ManagedBy),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r brandRecord) toDomain() domain.Brand {
	return domain.Brand{ID: r.ID, Name: r.Name, Slug: r.Slug, Image: r.Image, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// GormProducts implements ProductRepository.
type GormProducts struct{ store *GormStore }

var _ ProductRepository = (*GormProducts)(nil)

func (r *GormProducts) Create(ctx context.Context, p *domain.Product) error {
	rec := productRecord{
		ID:              uuid.NewString(),
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Quantity:        p.Quantity,
		Category:        p.Category,
		AvailableColors: encodeStrings(p.AvailableColors),
		AvailableSizes:  encodeStrings(p.AvailableSizes),
		EmbedLink:       p.EmbedLink,
		CreatedBy:       p.CreatedBy,
	}
	for _, img := range p.Images {
		rec.Images = append(rec.Images, imageRecord{ID: uuid.NewString(), URL: img.URL, ProductID: rec.ID})
	}
	if err := r.store.conn(ctx).Create(&rec).Error; err != nil {
		return translate(err)
	}
	*p = rec.toDomain()
	return nil
}

func (r *GormProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var rec productRecord
	if err := r.store.conn(ctx).Preload("Images").First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	p := rec.toDomain()
	return &p, nil
}

func (r *GormProducts) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var recs []productRecord
	if err := r.store.conn(ctx).Preload("Images").Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *GormProducts) Update(ctx context.Context, p *domain.Product) error {
	res := r.store.conn(ctx).Model(&productRecord{ID: p.ID}).Updates(map[string]any{
		"name":             p.Name,
		"description":      p.Description,
		"price":            p.Price,
		"quantity":         p.Quantity,
		"category":         p.Category,
		"available_colors": encodeStrings(p.AvailableColors),
		"available_sizes":  encodeStrings(p.AvailableSizes),
		"embed_link":       p.EmbedLink,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *GormProducts) Delete(ctx context.Context, id string) error {
	res := r.store.conn(ctx).Delete(&productRecord{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProducts) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	q := r.store.conn(ctx).Model(&productRecord{}).Preload("Images")
	if f.NameSubstring != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.NameSubstring)+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	var recs []productRecord
	if err := q.Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *GormProducts) ReplaceImages(ctx context.Context, productID string, urls []string) ([]domain.Image, error) {
	db := r.store.conn(ctx)
	var count int64
	if err := db.Model(&productRecord{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, translate(err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	if err := db.Where("product_id = ?", productID).Delete(&imageRecord{}).Error; err != nil {
		return nil, translate(err)
	}
	images := make([]domain.Image, 0, len(urls))
	if len(urls) == 0 {
		return images, nil
	}
	recs := make([]imageRecord, 0, len(urls))
	for _, u := range urls {
		recs = append(recs, imageRecord{ID: uuid.NewString(), URL: u, ProductID: productID})
	}
	if err := db.Create(&recs).Error; err != nil {
		return nil, translate(err)
	}
	for _, rec := range recs {
		images = append(images, domain.Image{ID: rec.ID, URL: rec.URL, ProductID: rec.ProductID})
	}
	return images, nil
}

func (r *GormProducts) DeleteImages(ctx context.Context, productID string) error {
	return translate(r.store.conn(ctx).Where("product_id = ?", productID).Delete(&imageRecord{}).Error)
}

// GormOrders implements OrderRepository.
type GormOrders struct{ store *GormStore }

var _ OrderRepository = (*GormOrders)(nil)

func (r *GormOrders) Create(ctx context.Context, o *domain.Order) error {
	rec := orderRecord{
		ID:          uuid.NewString(),
		UserID:      o.UserID,
		CustomerID:  optional(o.CustomerID),
		Items:       string(o.Items),
		TotalPrice:  o.TotalPrice,
		Country:     o.Country,
		City:        o.City,
		Address:     o.Address,
		PaymentType: o.PaymentType,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
	}
	if err := r.store.conn(ctx).Create(&rec).Error; err != nil {
		return translate(err)
	}
	*o = rec.toDomain()
	return nil
}

func (r *GormOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var rec orderRecord
	if err := r.store.conn(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	o := rec.toDomain()
	return &o, nil
}

func (r *GormOrders) Update(ctx context.Context, o *domain.Order) error {
	res := r.store.conn(ctx).Model(&orderRecord{ID: o.ID}).Updates(map[string]any{
		"status":       string(o.Status),
		"customer_id":  optional(o.CustomerID),
		"country":      o.Country,
		"city":         o.City,
		"address":      o.Address,
		"payment_type": o.PaymentType,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = *updated
	return nil
}

func (r *GormOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	q := r.store.conn(ctx).Model(&orderRecord{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.CustomerOnly {
		q = q.Where("customer_id IS NOT NULL AND customer_id <> ''")
	}
	var recs []orderRecord
	if err := q.Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

// GormUsers implements UserRepository.
type GormUsers struct{ store *GormStore }

var _ UserRepository = (*GormUsers)(nil)

func (r *GormUsers) Create(ctx context.Context, u *domain.User) error {
	id := u.ID
	if id == "" {
		id = uuid.NewString()
	}
	rec := userRecord{
		ID:        id,
		FullName:  u.FullName,
		Email:     normalizeEmail(u.Email),
		Password:  u.PasswordHash,
		Role:      string(u.Role),
		ManagedBy: optional(u.ManagedBy),
	}
	if err := r.store.conn(ctx).Create(&rec).Error; err != nil {
		return translate(err)
	}
	*u = rec.toDomain()
	return nil
}

func (r *GormUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var rec userRecord
	if err := r.store.conn(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	u := rec.toDomain()
	return &u, nil
}

func (r *GormUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var rec userRecord
	if err := r.store.conn(ctx).First(&rec, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, translate(err)
	}
	u := rec.toDomain()
	return &u, nil
}

func (r *GormUsers) Update(ctx context.Context, u *domain.User) error {
	res := r.store.conn(ctx).Model(&userRecord{ID: u.ID}).Updates(map[string]any{
		"full_name":  u.FullName,
		"email":      normalizeEmail(u.Email),
		"password":   u.PasswordHash,
		"role":       string(u.Role),
		"managed_by": optional(u.ManagedBy),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *updated
	return nil
}

func (r *GormUsers) Delete(ctx context.Context, id string) error {
	res := r.store.conn(ctx).Delete(&userRecord{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUsers) List(ctx context.Context, f UserFilter) ([]domain.User, error) {
	q := r.store.conn(ctx).Model(&userRecord{})
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}
	if f.ManagedBy != "" {
		q = q.Where("managed_by = ?", f.ManagedBy)
	}
	var recs []userRecord
	if err := q.Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

// GormBrands implements BrandRepository.
type GormBrands struct{ store *GormStore }

var _ BrandRepository = (*GormBrands)(nil)

func (r *GormBrands) Create(ctx context.Context, b *domain.Brand) error {
	rec := brandRecord{ID: uuid.NewString(), Name: b.Name, Slug: b.Slug, Image: b.Image}
	if err := r.store.conn(ctx).Create(&rec).Error; err != nil {
		return translate(err)
	}
	*b = rec.toDomain()
	return nil
}

func (r *GormBrands) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	var rec brandRecord
	if err := r.store.conn(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	b := rec.toDomain()
	return &b, nil
}

func (r *GormBrands) Update(ctx context.Context, b *domain.Brand) error {
	res := r.store.conn(ctx).Model(&brandRecord{ID: b.ID}).Updates(map[string]any{
		"name":  b.Name,
		"slug":  b.Slug,
		"image": b.Image,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *updated
	return nil
}

func (r *GormBrands) Delete(ctx context.Context, id string) error {
	res := r.store.conn(ctx).Delete(&brandRecord{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBrands) List(ctx context.Context) ([]domain.Brand, error) {
	var recs []brandRecord
	if err := r.store.conn(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Brand, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}
