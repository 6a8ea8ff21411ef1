package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
)

// FeedHandler serves announcements and schedules
type FeedHandler struct {
	BaseHandler
	announcements services.AnnouncementService
	schedules     services.ScheduleService
}

func NewFeedHandler(announcements services.AnnouncementService, schedules services.ScheduleService, logger utils.Logger) *FeedHandler {
	return &FeedHandler{
		BaseHandler:   NewBaseHandler(logger),
		announcements: announcements,
		schedules:     schedules,
	}
}

// CreateAnnouncement posts an announcement
// @Summary Create announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param announcement body services.CreateAnnouncementRequest true "Announcement data"
// @Success 201 {object} models.Announcement
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /announcements [post]
func (h *FeedHandler) CreateAnnouncement(c *gin.Context) {
	var req services.CreateAnnouncementRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	announcement, err := h.announcements.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// ListAnnouncements
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Success 200 {array} models.Announcement
// @Router /announcements [get]
func (h *FeedHandler) ListAnnouncements(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	announcements, err := h.announcements.List(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcements)
}

// CreateSchedule
// @Summary Create schedule entry
// @Tags schedules
// @Accept json
// @Produce json
// @Param schedule body services.CreateScheduleRequest true "Schedule data"
// @Success 201 {object} models.Schedule
// @Failure 400 {object} ErrorResponse
// @Router /schedules [post]
func (h *FeedHandler) CreateSchedule(c *gin.Context) {
	var req services.CreateScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	schedule, err := h.schedules.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// ListSchedules
// @Summary List schedule entries
// @Tags schedules
// @Produce json
// @Success 200 {array} models.Schedule
// @Router /schedules [get]
func (h *FeedHandler) ListSchedules(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	schedules, err := h.schedules.List(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}
