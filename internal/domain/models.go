package domain

import "time"

// Role роль пользователя
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSupplier Role = "SUPPLIER"
	RoleGarage   Role = "GARAGE"
	RoleCustomer Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupplier, RoleGarage, RoleCustomer:
		return true
	}
	return false
}

// User учётная запись покупателя, продавца или администратора
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ManagedBy    string    `json:"managedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreatedByAdmin marks catalog entries created through the admin routes.
const CreatedByAdmin = "admin"

// Image картинка товара, живёт только вместе с товаром
type Image struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ProductID string `json:"productId"`
}

// Product представляет автозапчасть в каталоге
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Quantity        int64     `json:"quantity"`
	Category        string    `json:"category"`
	Images          []Image   `json:"images"`
	AvailableColors []string  `json:"availableColor"`
	AvailableSizes  []string  `json:"availableSizes"`
	EmbedLink       string    `json:"embedLink,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Brand бренд (категория) каталога
type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Order сущность заказа. Items хранится как JSON-снимок позиций на момент оформления.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	CustomerID  string      `json:"customerId,omitempty"`
	Items       RawItems    `json:"items"`
	TotalPrice  float64     `json:"totalPrice"`
	Country     string      `json:"country"`
	City        string      `json:"city"`
	Address     string      `json:"address"`
	PaymentType string      `json:"paymentType"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
