package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"partshop/internal/repository"
	"partshop/internal/service"
)

func actorOf(c *gin.Context) service.Actor {
	claims := mustClaims(c)
	return service.Actor{ID: claims.ID, Role: claims.Role}
}

// Product handlers

// @Summary Create product
// @Description Admin products get createdBy "admin"; seller products are owned by the caller.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.ProductInput true "Product"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /api/admin/products [post]
// @Router /api/garage/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.svc.Products.Create(c.Request.Context(), actorOf(c), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "data": p})
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /api/admin/products/{id} [get]
// @Router /api/garage/products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.svc.Products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// @Summary Update product
// @Description Replaces editable fields and the whole image set.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param input body service.ProductInput true "Update"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/admin/products/{id} [put]
// @Router /api/garage/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.svc.Products.Update(c.Request.Context(), actorOf(c), c.Param("id"), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "data": p})
}

// @Summary Delete product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/admin/products/{id} [delete]
// @Router /api/garage/products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.svc.Products.Delete(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name contains"
// @Param category query string false "Brand slug"
// @Param created_by query string false "Owner id or admin"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Router /api/admin/products [get]
func (s *Server) listProducts(c *gin.Context) {
	f, ok := productFilter(c)
	if !ok {
		return
	}
	s.respondProducts(c, f)
}

// @Summary List the caller's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name contains"
// @Param category query string false "Brand slug"
// @Success 200 {object} map[string]any
// @Router /api/garage/products [get]
func (s *Server) listOwnProducts(c *gin.Context) {
	f, ok := productFilter(c)
	if !ok {
		return
	}
	f.CreatedBy = mustClaims(c).ID
	s.respondProducts(c, f)
}

func (s *Server) respondProducts(c *gin.Context, f repository.ProductFilter) {
	list, err := s.svc.Products.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func productFilter(c *gin.Context) (repository.ProductFilter, bool) {
	f := repository.ProductFilter{
		NameSubstring: strings.TrimSpace(c.Query("q")),
		Category:      strings.TrimSpace(c.Query("category")),
		CreatedBy:     strings.TrimSpace(c.Query("created_by")),
	}
	bounds := []struct {
		key string
		dst **float64
	}{{"min_price", &f.MinPrice}, {"max_price", &f.MaxPrice}}
	for _, b := range bounds {
		v := c.Query(b.key)
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid "+b.key)
			return f, false
		}
		*b.dst = &x
	}
	return f, true
}

// Brand handlers

// @Summary Create brand
// @Tags brands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.BrandInput true "Brand"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/brand [post]
func (s *Server) createBrand(c *gin.Context) {
	var req service.BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	b, err := s.svc.Brands.Create(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Brand created successfully", "data": b})
}

// @Summary List brands
// @Tags brands
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/brand [get]
func (s *Server) listBrands(c *gin.Context) {
	list, err := s.svc.Brands.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// @Summary Get brand by id
// @Tags brands
// @Produce json
// @Param id path string true "Brand ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /api/brand/{id} [get]
func (s *Server) getBrand(c *gin.Context) {
	b, err := s.svc.Brands.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

// @Summary Update brand
// @Tags brands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brand ID"
// @Param input body service.BrandInput true "Brand"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/brand/{id} [put]
func (s *Server) updateBrand(c *gin.Context) {
	var req service.BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	b, err := s.svc.Brands.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brand updated successfully", "data": b})
}

// @Summary Delete brand
// @Tags brands
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brand ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /api/brand/{id} [delete]
func (s *Server) deleteBrand(c *gin.Context) {
	if err := s.svc.Brands.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Brand deleted successfully"})
}
