package service

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"partshop/internal/domain"
	"partshop/internal/logging"
	"partshop/internal/repository"
)

const (
	topProductsLimit = 5
	unknownLabel     = "Unknown"
	monthLayout      = "2006-01"
)

var profitRate = decimal.NewFromFloat(0.10)

// DashboardService считает сводки по заказам на каждый запрос, без кэша
type DashboardService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewDashboardService(orders repository.OrderRepository, products repository.ProductRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{orders: orders, products: products, logger: logger.Named("dashboard")}
}

// AdminStats сводка по всем заказам
func (s *DashboardService) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.AdminStats")
	defer span.End()

	orders, err := s.orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	revenueByMonth := make(map[string]decimal.Decimal)
	statusCounts := newCounter[domain.OrderStatus]()
	for _, o := range orders {
		key := o.CreatedAt.UTC().Format(monthLayout)
		revenueByMonth[key] = revenueByMonth[key].Add(decimal.NewFromFloat(o.TotalPrice))
		statusCounts.inc(o.Status)
	}

	sales := s.accumulate(ctx, orders)

	stats := &domain.AdminStats{
		MonthlyRevenue:          make([]domain.MonthlyRevenue, 0, len(revenueByMonth)),
		OrderStatusDistribution: make([]domain.StatusCount, 0, len(statusCounts.keys)),
		TotalRevenue:            sales.revenue.InexactFloat64(),
		Profit:                  sales.profit.InexactFloat64(),
		TotalQuantity:           sales.quantity,
		DistinctProductsCount:   len(sales.order),
		SkippedOrders:           sales.skipped,
	}
	for _, month := range sortedKeys(revenueByMonth) {
		stats.MonthlyRevenue = append(stats.MonthlyRevenue, domain.MonthlyRevenue{
			Month:   month,
			Revenue: revenueByMonth[month].InexactFloat64(),
		})
	}
	for _, st := range statusCounts.keys {
		stats.OrderStatusDistribution = append(stats.OrderStatusDistribution, domain.StatusCount{Status: st, Count: statusCounts.n[st]})
	}
	if len(sales.order) > 0 {
		stats.AverageSalesPerItem = float64(sales.quantity) / float64(len(sales.order))
	}

	top, err := s.topProducts(ctx, sales)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	stats.MostSellingProducts = top

	annotate(span, len(orders), sales.skipped)
	return stats, nil
}

// GarageStats сводка по заказам одного гаража
func (s *DashboardService) GarageStats(ctx context.Context, garageID string) (*domain.GarageStats, error) {
	if strings.TrimSpace(garageID) == "" {
		return nil, ErrUnauthenticated
	}
	ctx, span := tracer.Start(ctx, "DashboardService.GarageStats")
	defer span.End()

	orders, err := s.orders.List(ctx, repository.OrderFilter{UserID: garageID})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	perMonth := make(map[string]int)
	customers := newCounter[string]()
	for _, o := range orders {
		perMonth[o.CreatedAt.UTC().Format(monthLayout)]++
		customer := o.CustomerID
		if customer == "" {
			customer = unknownLabel
		}
		customers.inc(customer)
	}

	sales := s.accumulate(ctx, orders)
	top, err := s.topProducts(ctx, sales)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stats := &domain.GarageStats{
		MonthlyOrders:        make([]domain.MonthlyCount, 0, len(perMonth)),
		MostBoughtProducts:   top,
		CustomerDistribution: make([]domain.CustomerCount, 0, len(customers.keys)),
		SkippedOrders:        sales.skipped,
	}
	for _, month := range sortedKeys(perMonth) {
		stats.MonthlyOrders = append(stats.MonthlyOrders, domain.MonthlyCount{Month: month, Count: perMonth[month]})
	}
	for _, c := range customers.keys {
		stats.CustomerDistribution = append(stats.CustomerDistribution, domain.CustomerCount{CustomerID: c, Count: customers.n[c]})
	}

	annotate(span, len(orders), sales.skipped)
	return stats, nil
}

type salesTally struct {
	order    []string // product ids, first-seen
	qty      map[string]int64
	revenue  decimal.Decimal
	profit   decimal.Decimal
	quantity int64
	skipped  int
}

// accumulate flattens line items; orders whose snapshot cannot be parsed are skipped and counted.
func (s *DashboardService) accumulate(ctx context.Context, orders []domain.Order) salesTally {
	log := logging.FromContext(ctx, s.logger)
	t := salesTally{qty: make(map[string]int64), revenue: decimal.Zero, profit: decimal.Zero}
	for _, o := range orders {
		items, err := domain.ParseLineItems(o.Items)
		if err != nil {
			t.skipped++
			log.Warn("skipping order with unreadable items", zap.String("order_id", o.ID), zap.Error(err))
			continue
		}
		for _, it := range items {
			if _, seen := t.qty[it.ProductID]; !seen {
				t.order = append(t.order, it.ProductID)
			}
			t.qty[it.ProductID] += it.Quantity
			line := decimal.NewFromFloat(it.TotalPrice)
			t.revenue = t.revenue.Add(line)
			t.profit = t.profit.Add(line.Mul(profitRate))
			t.quantity += it.Quantity
		}
	}
	return t
}

func (s *DashboardService) topProducts(ctx context.Context, t salesTally) ([]domain.ProductSales, error) {
	ranked := append([]string(nil), t.order...)
	sort.SliceStable(ranked, func(i, j int) bool { return t.qty[ranked[i]] > t.qty[ranked[j]] })
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	out := make([]domain.ProductSales, 0, len(ranked))
	if len(ranked) == 0 {
		return out, nil
	}

	catalog, err := s.products.GetByIDs(ctx, ranked)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	for _, id := range ranked {
		ps := domain.ProductSales{ProductID: id, Name: unknownLabel, Quantity: t.qty[id]}
		if p, ok := byID[id]; ok {
			ps.Name = p.Name
			ps.Price = p.Price
		}
		out = append(out, ps)
	}
	return out, nil
}

func annotate(span trace.Span, orders, skipped int) {
	span.SetAttributes(
		attribute.Int("dashboard.orders", orders),
		attribute.Int("dashboard.skipped_orders", skipped),
	)
}

// counter keeps first-seen key order next to the counts
type counter[K comparable] struct {
	keys []K
	n    map[K]int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{n: make(map[K]int)}
}

func (c *counter[K]) inc(k K) {
	if _, ok := c.n[k]; !ok {
		c.keys = append(c.keys, k)
	}
	c.n[k]++
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
