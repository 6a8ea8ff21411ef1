package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

// MaxUploadSize bounds a single submission file
const MaxUploadSize = 20 << 20

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
	}
}

// CreateAssignment creates an assignment in a class
// @Summary Create assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignment body services.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req services.CreateAssignmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments lists the assignments visible to the caller
// @Summary List assignments
// @Tags assignments
// @Produce json
// @Success 200 {array} models.Assignment
// @Router /assignments [get]
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListAssignments(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// Submit records the caller's submission, replacing any earlier one
// @Summary Submit assignment
// @Description Accepts multipart/form-data (file, description) or a JSON body with a description.
// @Tags assignments
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param id path uint true "Assignment ID"
// @Param file formData file false "Submission file"
// @Param description formData string false "Submission notes"
// @Success 200 {object} models.Submission
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not enrolled"
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id}/submit [post]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	input, ok := h.parseSubmitInput(c)
	if !ok {
		return
	}
	if input.File != nil {
		if closer, isCloser := input.File.Content.(io.Closer); isCloser {
			defer closer.Close()
		}
	}

	h.LogRequest(c, "Submitting assignment", "assignment_id", id, "with_file", input.File != nil)

	submission, err := h.assignmentService.Submit(c.Request.Context(), user, id, input)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// Grade records a grade on a student's submission
// @Summary Grade submission
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path uint true "Assignment ID"
// @Param studentId path string true "Student user ID"
// @Param grade body services.GradeRequest true "Grade data"
// @Success 200 {object} models.Submission
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id}/submissions/{studentId}/grade [post]
func (h *AssignmentHandler) Grade(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := h.parseStringIDParam(c, "studentId")
	if !ok {
		return
	}

	var req services.GradeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	submission, err := h.assignmentService.Grade(c.Request.Context(), user, id, studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// GetSubmissions returns the grading view of an assignment
// @Summary List submissions
// @Tags assignments
// @Produce json
// @Param id path uint true "Assignment ID"
// @Success 200 {object} services.SubmissionsView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id}/submissions [get]
func (h *AssignmentHandler) GetSubmissions(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	view, err := h.assignmentService.GetSubmissions(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteAssignment deletes an assignment and its submissions
// @Summary Delete assignment
// @Tags assignments
// @Produce json
// @Param id path uint true "Assignment ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.assignmentService.DeleteAssignment(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Assignment deleted successfully"})
}

// parseSubmitInput reads a multipart upload or, failing that, an optional JSON body
func (h *AssignmentHandler) parseSubmitInput(c *gin.Context) (services.SubmitInput, bool) {
	var input services.SubmitInput

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req validator.SubmitRequest
		if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
			return input, false
		}
		input.Description = req.Description
		return input, true
	}

	if description, exists := c.GetPostForm("description"); exists {
		input.Description = &description
	}

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return input, true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid file upload", Details: err.Error()})
		return input, false
	}
	if header.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "File too large", Details: "maximum size is 20MB"})
		return input, false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid file upload", Details: err.Error()})
		return input, false
	}

	input.File = &services.UploadedFile{Name: header.Filename, Size: header.Size, Content: file}
	return input, true
}
