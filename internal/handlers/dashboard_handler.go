package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetDashboard returns the role-specific dashboard for the caller
// @Summary Get dashboard
// @Description Announcements, schedules, classes, assignments and stat cards scoped to the caller's role.
// @Description Parents see their linked child's data.
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardView
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting dashboard", "role", user.Role)

	view, err := h.service.GetDashboard(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
