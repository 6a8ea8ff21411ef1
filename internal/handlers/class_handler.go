package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

type ClassHandler struct {
	BaseHandler
	classService services.ClassService
}

func NewClassHandler(classService services.ClassService, logger utils.Logger) *ClassHandler {
	return &ClassHandler{
		BaseHandler:  NewBaseHandler(logger),
		classService: classService,
	}
}

// CreateClass creates a new class
// @Summary Create class
// @Description Creates a class taught by an existing teacher. Administrators only.
// @Tags classes
// @Accept json
// @Produce json
// @Param class body services.CreateClassRequest true "Class data"
// @Success 201 {object} models.Class
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /classes [post]
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req services.CreateClassRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	class, err := h.classService.CreateClass(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

// ListClasses lists the classes visible to the caller
// @Summary List classes
// @Tags classes
// @Produce json
// @Success 200 {array} models.Class
// @Failure 401 {object} ErrorResponse
// @Router /classes [get]
func (h *ClassHandler) ListClasses(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	classes, err := h.classService.ListClasses(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

// GetClassStudents returns the roster of a class
// @Summary Get class roster
// @Tags classes
// @Produce json
// @Param id path uint true "Class ID"
// @Success 200 {array} models.User
// @Failure 404 {object} ErrorResponse
// @Router /classes/{id}/students [get]
func (h *ClassHandler) GetClassStudents(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	students, err := h.classService.GetClassStudents(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// Enroll adds a student to a class
// @Summary Enroll student
// @Description Adds a student to the roster. Administrators and the class teacher only.
// @Tags classes
// @Accept json
// @Produce json
// @Param id path uint true "Class ID"
// @Param enrollment body validator.EnrollRequest true "Student to enroll"
// @Success 200 {object} models.Class
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already enrolled"
// @Router /classes/{id}/enroll [post]
func (h *ClassHandler) Enroll(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling student", "class_id", id, "student_id", req.StudentID)

	class, err := h.classService.Enroll(c.Request.Context(), user, id, req.StudentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

// SelfEnroll enrolls the calling student
// @Summary Self-enroll
// @Tags classes
// @Produce json
// @Param id path uint true "Class ID"
// @Success 200 {object} models.Class
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /classes/{id}/self-enroll [post]
func (h *ClassHandler) SelfEnroll(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	class, err := h.classService.SelfEnroll(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

// Unenroll removes a student from a class. Removing an absent student succeeds.
// @Summary Unenroll student
// @Tags classes
// @Produce json
// @Param id path uint true "Class ID"
// @Param studentId path string true "Student user ID"
// @Success 200 {object} models.Class
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /classes/{id}/enroll/{studentId} [delete]
func (h *ClassHandler) Unenroll(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := h.parseStringIDParam(c, "studentId")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	class, err := h.classService.Unenroll(c.Request.Context(), user, id, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}
