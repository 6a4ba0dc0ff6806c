package repository

import (
	"context"
	"errors"
	"strings"

	"partshop/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrDuplicate возвращается при нарушении уникальности (email пользователя)
	ErrDuplicate = errors.New("already exists")
)

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	NameSubstring string
	Category      string
	CreatedBy     string
	MinPrice      *float64
	MaxPrice      *float64
}

// UserFilter параметры фильтрации пользователей
type UserFilter struct {
	Role      domain.Role
	ManagedBy string
}

// OrderFilter ограничивает выборку заказов; пустой фильтр означает все заказы
type OrderFilter struct {
	UserID       string
	CustomerOnly bool
}

// ProductRepository интерфейс репозитория товаров.
// Create сохраняет и картинки; Update картинки не трогает.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	ReplaceImages(ctx context.Context, productID string, urls []string) ([]domain.Image, error)
	DeleteImages(ctx context.Context, productID string) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
}

// UserRepository интерфейс репозитория пользователей.
// Create сохраняет заранее заданный ID, иначе генерирует новый.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter) ([]domain.User, error)
}

// BrandRepository интерфейс репозитория брендов
type BrandRepository interface {
	Create(ctx context.Context, b *domain.Brand) error
	GetByID(ctx context.Context, id string) (*domain.Brand, error)
	Update(ctx context.Context, b *domain.Brand) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Brand, error)
}

// TxManager абстракция транзакции. Для in-memory это глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
