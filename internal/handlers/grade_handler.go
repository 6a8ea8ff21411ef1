package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GradeHandler struct {
	BaseHandler
	service services.GradeService
}

func NewGradeHandler(service services.GradeService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetGrades lists the graded work visible to the caller
// @Summary List grades
// @Tags grades
// @Produce json
// @Success 200 {array} services.GradeEntry
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /grades [get]
func (h *GradeHandler) GetGrades(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	grades, err := h.service.GetGrades(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

// ExportGrades downloads the caller's grades listing as a workbook
// @Summary Export grades
// @Tags grades
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /grades/export [get]
func (h *GradeHandler) ExportGrades(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	data, err := h.service.ExportGrades(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("grades-%s.xlsx", user.Username)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
