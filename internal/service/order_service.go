package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"partshop/internal/domain"
	"partshop/internal/logging"
	"partshop/internal/repository"
)

var tracer = otel.Tracer("partshop/internal/service")

// OrderService реализует жизненный цикл заказа: оформление, смена статуса, выборки
type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orders: orders, logger: logger.Named("orders")}
}

// CreateOrderInput тело запроса на оформление заказа
type CreateOrderInput struct {
	Items         []domain.LineItem  `json:"items" validate:"required,min=1,dive"`
	TotalPrice    float64            `json:"totalPrice" validate:"gte=0"`
	Country       string             `json:"country"`
	City          string             `json:"city"`
	Address       string             `json:"address"`
	CustomerID    string             `json:"customerId"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        domain.OrderStatus `json:"status"`
}

// CreateOrder сохраняет снимок позиций как есть; склад не списывается
func (s *OrderService) CreateOrder(ctx context.Context, buyerID string, in CreateOrderInput) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	if strings.TrimSpace(buyerID) == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateInput(in); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}
	status := domain.OrderStatusPending
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, invalid("unknown status %q", in.Status)
		}
		status = in.Status
	}

	items, err := domain.EncodeLineItems(in.Items)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx, s.logger)
	if sum := lineTotal(in.Items); !sum.Equal(decimal.NewFromFloat(in.TotalPrice)) {
		log.Warn("order total differs from line items",
			zap.String("buyer_id", buyerID),
			zap.Float64("total_price", in.TotalPrice),
			zap.String("line_total", sum.String()),
		)
	}

	o := domain.Order{
		UserID:      buyerID,
		CustomerID:  strings.TrimSpace(in.CustomerID),
		Items:       items,
		TotalPrice:  in.TotalPrice,
		Country:     in.Country,
		City:        in.City,
		Address:     in.Address,
		PaymentType: in.PaymentMethod,
		Status:      status,
	}
	if err := s.orders.Create(ctx, &o); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create order: %w", err)
	}
	span.SetAttributes(
		attribute.String("order.id", o.ID),
		attribute.Int("order.items", len(in.Items)),
	)
	log.Info("order created", zap.String("order_id", o.ID), zap.String("status", string(o.Status)))
	return &o, nil
}

func lineTotal(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.TotalPrice))
	}
	return sum
}

// UpdateOrderStatus разрешает любой переход между допустимыми статусами
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, invalid("order id is required")
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	prev := o.Status
	o.Status = status
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.logger).Info("order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(status)),
	)
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("order id is required")
	}
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx, repository.OrderFilter{})
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	return s.orders.List(ctx, repository.OrderFilter{UserID: userID})
}

// ListGarageOrders заказы гаража; customerOnly оставляет только оформленные на клиента
func (s *OrderService) ListGarageOrders(ctx context.Context, garageID string, customerOnly bool) ([]domain.Order, error) {
	if strings.TrimSpace(garageID) == "" {
		return nil, ErrUnauthenticated
	}
	return s.orders.List(ctx, repository.OrderFilter{UserID: garageID, CustomerOnly: customerOnly})
}
