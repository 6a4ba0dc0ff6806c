package domain

// MonthlyRevenue выручка за месяц (ключ YYYY-MM)
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// MonthlyCount количество заказов за месяц
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

type CustomerCount struct {
	CustomerID string `json:"customerId"`
	Count      int    `json:"count"`
}

// ProductSales товар из топа продаж, обогащённый текущими данными каталога
type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

// AdminStats сводка для администратора и поставщика
type AdminStats struct {
	MonthlyRevenue          []MonthlyRevenue `json:"monthlyRevenue"`
	OrderStatusDistribution []StatusCount    `json:"orderStatusDistribution"`
	MostSellingProducts     []ProductSales   `json:"mostSellingProducts"`
	AverageSalesPerItem     float64          `json:"averageSalesPerItem"`
	TotalRevenue            float64          `json:"totalRevenue"`
	Profit                  float64          `json:"profit"`
	TotalQuantity           int64            `json:"totalQuantity"`
	DistinctProductsCount   int              `json:"distinctProductsCount"`
	SkippedOrders           int              `json:"skippedOrders"`
}

// GarageStats сводка по заказам конкретного гаража
type GarageStats struct {
	MonthlyOrders        []MonthlyCount  `json:"monthlyOrders"`
	MostBoughtProducts   []ProductSales  `json:"mostBoughtProducts"`
	CustomerDistribution []CustomerCount `json:"customerDistribution"`
	SkippedOrders        int             `json:"skippedOrders"`
}
