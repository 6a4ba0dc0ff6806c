package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partshop/internal/domain"
	"partshop/internal/repository"
	"partshop/internal/service"
)

type sessionResp struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

// @Summary Register a customer account
// @Tags users
// @Accept json
// @Produce json
// @Param input body service.RegisterInput true "Account"
// @Success 201 {object} sessionResp
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/user/register [post]
func (s *Server) register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	sess, err := s.svc.Users.Register(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResp{Message: "User registered successfully", User: sess.User, Token: sess.Token})
}

// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param input body service.LoginInput true "Credentials"
// @Success 200 {object} sessionResp
// @Failure 401 {object} errorResponse
// @Router /api/user/login [post]
func (s *Server) login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	sess, err := s.svc.Users.Login(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResp{Message: "Login successful", User: sess.User, Token: sess.Token})
}

// Admin user management

// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.UserInput true "User"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/admin/users [post]
func (s *Server) createUser(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.svc.Users.CreateUser(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "data": u})
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter"
// @Success 200 {object} map[string]any
// @Router /api/admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	list, err := s.svc.Users.ListUsers(c.Request.Context(), repository.UserFilter{Role: domain.Role(c.Query("role"))})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// @Summary Get user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /api/admin/users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	u, err := s.svc.Users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param input body service.UserUpdate true "Fields to change"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /api/admin/users/{id} [put]
func (s *Server) updateUser(c *gin.Context) {
	var req service.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.svc.Users.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "data": u})
}

// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /api/admin/users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	if err := s.svc.Users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// Garage customer roster

// @Summary List the garage's customers
// @Tags garage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/garage/user/get [get]
func (s *Server) listManagedCustomers(c *gin.Context) {
	list, err := s.svc.Users.ListManagedCustomers(c.Request.Context(), mustClaims(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// @Summary Create a customer managed by the garage
// @Tags garage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.UserInput true "Customer"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/garage/user/create [post]
func (s *Server) createManagedCustomer(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.svc.Users.CreateManagedCustomer(c.Request.Context(), mustClaims(c).ID, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Customer created successfully", "data": u})
}

// @Summary Get a managed customer
// @Tags garage
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/garage/user/{id} [get]
func (s *Server) getManagedCustomer(c *gin.Context) {
	u, err := s.svc.Users.GetManagedCustomer(c.Request.Context(), mustClaims(c).ID, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

// @Summary Update a managed customer
// @Tags garage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param input body service.UserUpdate true "Fields to change"
// @Success 200 {object} map[string]any
// @Failure 403 {object} errorResponse
// @Router /api/garage/user/{id} [put]
func (s *Server) updateManagedCustomer(c *gin.Context) {
	var req service.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.svc.Users.UpdateManagedCustomer(c.Request.Context(), mustClaims(c).ID, c.Param("id"), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully", "data": u})
}

// @Summary Delete a managed customer
// @Tags garage
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorResponse
// @Router /api/garage/user/{id} [delete]
func (s *Server) deleteManagedCustomer(c *gin.Context) {
	if err := s.svc.Users.DeleteManagedCustomer(c.Request.Context(), mustClaims(c).ID, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Customer deleted successfully"})
}
