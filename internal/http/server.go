package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"partshop/internal/domain"
	"partshop/internal/service"
)

// Services набор сервисов, которые обслуживает HTTP-слой
type Services struct {
	Users     *service.UserService
	Products  *service.ProductService
	Brands    *service.BrandService
	Orders    *service.OrderService
	Dashboard *service.DashboardService
	Payments  *service.PaymentService
}

type Options struct {
	Logger *zap.Logger
	// RestrictOrderList limits GET /api/order to ADMIN and SUPPLIER.
	RestrictOrderList bool
}

type Server struct {
	engine *gin.Engine
	svc    Services
	opts   Options
	logger *zap.Logger
}

func NewServer(svc Services, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestID(), requestLogger(logger), recovery(logger), cors())
	s := &Server{engine: r, svc: svc, opts: opts, logger: logger}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/health", s.health)
	s.engine.POST("/create-payment-intent", s.createPaymentIntent)
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	authn := s.authenticate()
	staff := requireRoles(domain.RoleAdmin, domain.RoleSupplier)
	sellers := requireRoles(domain.RoleSupplier, domain.RoleGarage)
	garage := requireRoles(domain.RoleGarage)
	admin := requireRoles(domain.RoleAdmin)

	api := s.engine.Group("/api")
	{
		users := api.Group("/user")
		users.POST("/register", s.register)
		users.POST("/login", s.login)

		orders := api.Group("/order")
		orders.POST("/create", authn, s.createOrder)
		if s.opts.RestrictOrderList {
			orders.GET("", authn, staff, s.listOrders)
		} else {
			orders.GET("", s.listOrders)
		}
		orders.GET("/my", authn, s.listMyOrders)
		orders.GET("/garage", authn, garage, s.listGarageOrders)
		orders.PUT("/update/:id", authn, requireRoles(domain.RoleAdmin, domain.RoleSupplier, domain.RoleGarage), s.updateOrderStatus)
		orders.GET("/:id", s.getOrder)

		dashboard := api.Group("/dashboard")
		dashboard.GET("/admin/dashboard/stats", authn, staff, s.adminStats)
		dashboard.GET("/garage/dashboard/stats", authn, garage, s.garageStats)

		adminGroup := api.Group("/admin")
		{
			products := adminGroup.Group("/products")
			products.GET("", s.listProducts)
			products.GET("/:id", s.getProduct)
			products.POST("", authn, admin, s.createProduct)
			products.PUT("/:id", authn, admin, s.updateProduct)
			products.DELETE("/:id", authn, admin, s.deleteProduct)

			accounts := adminGroup.Group("/users", authn, admin)
			accounts.POST("", s.createUser)
			accounts.GET("", s.listUsers)
			accounts.GET("/:id", s.getUser)
			accounts.PUT("/:id", s.updateUser)
			accounts.DELETE("/:id", s.deleteUser)
		}

		garageGroup := api.Group("/garage")
		{
			products := garageGroup.Group("/products")
			products.GET("", authn, sellers, s.listOwnProducts)
			products.GET("/:id", s.getProduct)
			products.POST("", authn, sellers, s.createProduct)
			products.PUT("/:id", authn, sellers, s.updateProduct)
			products.DELETE("/:id", authn, sellers, s.deleteProduct)

			roster := garageGroup.Group("/user", authn, garage)
			roster.GET("/get", s.listManagedCustomers)
			roster.POST("/create", s.createManagedCustomer)
			roster.GET("/:id", s.getManagedCustomer)
			roster.PUT("/:id", s.updateManagedCustomer)
			roster.DELETE("/:id", s.deleteManagedCustomer)
		}

		brands := api.Group("/brand")
		brands.GET("", s.listBrands)
		brands.GET("/:id", s.getBrand)
		brands.POST("", authn, admin, s.createBrand)
		brands.PUT("/:id", authn, admin, s.updateBrand)
		brands.DELETE("/:id", authn, admin, s.deleteBrand)
	}
}

// @Summary Liveness check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}
