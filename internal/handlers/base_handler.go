package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the logger and the helpers shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// requestLogger prefers the request-scoped logger installed by utils.ContextLogger
func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	return utils.FromContext(c.Request.Context(), h.logger)
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, keysAndValues ...any) {
	args := append([]any{"method", c.Request.Method, "path", c.FullPath()}, keysAndValues...)
	h.requestLogger(c).Debug(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	h.requestLogger(c).Error(msg, "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
}

// currentUser returns the actor resolved by the auth middleware, writing 401 when there is none
func (h *BaseHandler) currentUser(c *gin.Context) (*models.User, bool) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil, false
	}
	return user, true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		details := "ID must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: details,
		})
		return 0, false
	}
	return uint(id), true
}

func (h *BaseHandler) parseStringIDParam(c *gin.Context, param string) (string, bool) {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return "", false
	}
	return idStr, true
}

func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var (
		fieldErrors validator.ValidationErrors
		permErr     *services.PermissionError
		notFound    *services.NotFoundError
		conflict    *services.ConflictError
		authErr     *services.AuthError
	)

	switch {
	case errors.As(err, &fieldErrors):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: fieldErrors,
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUploadsDisabled):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File uploads are not available",
		})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized",
			Details: authErr.Message,
		})
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: permErr.Reason,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Details: notFound.Error(),
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Conflict",
			Details: conflict.Message,
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
