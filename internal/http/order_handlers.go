package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"partshop/internal/domain"
	"partshop/internal/service"
)

// Order handlers

// @Summary Create order
// @Description Stores the submitted line items as an immutable snapshot. Status defaults to PENDING.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateOrderInput true "Order"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /api/order/create [post]
func (s *Server) createOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.svc.Orders.CreateOrder(c.Request.Context(), mustClaims(c).ID, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": o})
}

// @Summary List all orders
// @Tags orders
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/order [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.svc.Orders.ListOrders(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} errorResponse
// @Router /api/order/my [get]
func (s *Server) listMyOrders(c *gin.Context) {
	list, err := s.svc.Orders.ListMyOrders(c.Request.Context(), mustClaims(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// @Summary List the garage's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param customerOnly query bool false "Only orders placed for a customer"
// @Success 200 {object} map[string]any
// @Failure 403 {object} errorResponse
// @Router /api/order/garage [get]
func (s *Server) listGarageOrders(c *gin.Context) {
	customerOnly := false
	if v := c.Query("customerOnly"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid customerOnly")
			return
		}
		customerOnly = b
	}
	list, err := s.svc.Orders.ListGarageOrders(c.Request.Context(), mustClaims(c).ID, customerOnly)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /api/order/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.svc.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

type updateStatusReq struct {
	OrderID string             `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
}

// @Summary Update order status
// @Description Any status may move to any other status.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "New status"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/order/update/{id} [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	id := c.Param("id")
	if body := strings.TrimSpace(req.OrderID); body != "" && body != id {
		abortJSON(c, http.StatusBadRequest, "orderId does not match the path")
		return
	}
	if req.Status == "" {
		abortJSON(c, http.StatusBadRequest, "Order ID and status are required")
		return
	}
	o, err := s.svc.Orders.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

// Dashboard handlers

// @Summary Admin dashboard statistics
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.AdminStats
// @Failure 403 {object} errorResponse
// @Router /api/dashboard/admin/dashboard/stats [get]
func (s *Server) adminStats(c *gin.Context) {
	stats, err := s.svc.Dashboard.AdminStats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Garage dashboard statistics
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.GarageStats
// @Failure 403 {object} errorResponse
// @Router /api/dashboard/garage/dashboard/stats [get]
func (s *Server) garageStats(c *gin.Context) {
	stats, err := s.svc.Dashboard.GarageStats(c.Request.Context(), mustClaims(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Payments

type paymentIntentResp struct {
	ClientSecret string `json:"clientSecret"`
}

// @Summary Create a card payment intent
// @Tags payments
// @Accept json
// @Produce json
// @Param input body service.PaymentIntentInput true "Amount in minor units"
// @Success 200 {object} paymentIntentResp
// @Failure 400 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /create-payment-intent [post]
func (s *Server) createPaymentIntent(c *gin.Context) {
	var req service.PaymentIntentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	secret, err := s.svc.Payments.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentIntentResp{ClientSecret: secret})
}
