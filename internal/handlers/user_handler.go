package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
)

type UserHandler struct {
	BaseHandler
	service services.UserService
}

func NewUserHandler(service services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateUser creates an account on behalf of an administrator
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.RegisterRequest true "Account data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// DeleteUser removes an account
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Cannot delete yourself"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "User deleted successfully"})
}

// GetAdminData returns teachers, students and classes for the admin console
// @Summary Admin data
// @Tags users
// @Produce json
// @Success 200 {object} services.AdminDataView
// @Failure 403 {object} ErrorResponse
// @Router /admin-data [get]
func (h *UserHandler) GetAdminData(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	data, err := h.service.GetAdminData(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}
