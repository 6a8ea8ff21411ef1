package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
)

type HandlerManager struct {
	serviceManager    services.ServiceManager
	authHandler       *AuthHandler
	classHandler      *ClassHandler
	assignmentHandler *AssignmentHandler
	dashboardHandler  *DashboardHandler
	gradeHandler      *GradeHandler
	userHandler       *UserHandler
	feedHandler       *FeedHandler
	authMiddleware    *AuthMiddleware
}

// NewHandlerManager wires every handler to its service. A nil resolver authenticates
// through the built-in session store.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	resolver ActorResolver,
	logger utils.Logger,
	secureCookie bool,
) *HandlerManager {
	if resolver == nil {
		resolver = serviceManager.Auth()
	}

	return &HandlerManager{
		serviceManager:    serviceManager,
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger, secureCookie),
		classHandler:      NewClassHandler(serviceManager.Class(), logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		gradeHandler:      NewGradeHandler(serviceManager.Grade(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		feedHandler:       NewFeedHandler(serviceManager.Announcement(), serviceManager.Schedule(), logger),
		authMiddleware:    NewAuthMiddleware(resolver),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/forgot-password", hm.authHandler.ForgotPassword)
	}

	// Everything below requires a session or identity-provider token
	secured := v1.Group("")
	secured.Use(hm.authMiddleware.Authenticate())
	{
		secured.POST("/auth/logout", hm.authHandler.Logout)
		secured.GET("/auth/session", hm.authHandler.Session)

		// Role and ownership rules are enforced by the services
		classes := secured.Group("/classes")
		{
			classes.POST("", hm.classHandler.CreateClass)
			classes.GET("", hm.classHandler.ListClasses)
			classes.GET("/:id/students", hm.classHandler.GetClassStudents)
			classes.POST("/:id/enroll", hm.classHandler.Enroll)
			classes.POST("/:id/self-enroll", hm.classHandler.SelfEnroll)
			classes.DELETE("/:id/enroll/:studentId", hm.classHandler.Unenroll)
		}

		// Assignment routes
		assignments := secured.Group("/assignments")
		{
			assignments.POST("", hm.assignmentHandler.CreateAssignment)
			assignments.GET("", hm.assignmentHandler.ListAssignments)
			assignments.DELETE("/:id", hm.assignmentHandler.DeleteAssignment)
			assignments.POST("/:id/submit", hm.assignmentHandler.Submit)
			assignments.GET("/:id/submissions", hm.assignmentHandler.GetSubmissions)
			assignments.POST("/:id/submissions/:studentId/grade", hm.assignmentHandler.Grade)
		}

		secured.GET("/dashboard", hm.dashboardHandler.GetDashboard)

		grades := secured.Group("/grades")
		{
			grades.GET("", hm.gradeHandler.GetGrades)
			grades.GET("/export", hm.gradeHandler.ExportGrades)
		}

		announcements := secured.Group("/announcements")
		{
			announcements.POST("", hm.feedHandler.CreateAnnouncement)
			announcements.GET("", hm.feedHandler.ListAnnouncements)
		}

		schedules := secured.Group("/schedules")
		{
			schedules.POST("", hm.feedHandler.CreateSchedule)
			schedules.GET("", hm.feedHandler.ListSchedules)
		}

		// Admin routes
		admin := secured.Group("")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/users", hm.userHandler.CreateUser)
			admin.DELETE("/users/:id", hm.userHandler.DeleteUser)
			admin.GET("/admin-data", hm.userHandler.GetAdminData)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "educonnect",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "educonnect",
	})
}
