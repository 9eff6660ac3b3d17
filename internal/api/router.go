package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/apexhq/apex/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles the use-case services the HTTP surface exposes.
type Services struct {
	Projects    service.ProjectService
	Tasks       service.TaskService
	TimeEntries service.TimeEntryService
	Users       service.UserService
	Rooms       service.RoomService
	Audit       service.AuditService
}

// NewRouter assembles the gin engine: health and metrics endpoints plus the
// versioned API.
func NewRouter(svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), actorMiddleware(), metricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		projects := v1.Group("/projects")
		{
			projects.GET("", listProjects(svcs.Projects))
			projects.POST("", createProject(svcs.Projects))
			projects.GET("/:id", getProject(svcs.Projects))
			projects.PUT("/:id", updateProject(svcs.Projects))
			projects.DELETE("/:id", deleteProject(svcs.Projects))
			projects.GET("/:id/children", listProjectChildren(svcs.Projects))

			projects.GET("/:id/tasks", listTasks(svcs.Tasks))
			projects.POST("/:id/tasks", createTask(svcs.Tasks))
			projects.GET("/:id/tasks/:taskId", getTask(svcs.Tasks))
			projects.PUT("/:id/tasks/:taskId", updateTask(svcs.Tasks))
			projects.DELETE("/:id/tasks/:taskId", deleteTask(svcs.Tasks))
			projects.POST("/:id/tasks/:taskId/notes", addTaskNote(svcs.Tasks))

			projects.GET("/:id/time-entries", listTimeEntries(svcs.TimeEntries))
			projects.POST("/:id/time-entries", recordTimeEntry(svcs.TimeEntries))

			projects.GET("/:id/rooms", listRooms(svcs.Rooms))
			projects.POST("/:id/rooms", createRoom(svcs.Rooms))
		}

		rooms := v1.Group("/rooms")
		{
			rooms.PUT("/:id", updateRoom(svcs.Rooms))
			rooms.DELETE("/:id", deleteRoom(svcs.Rooms))
		}

		users := v1.Group("/users")
		{
			users.GET("", listUsers(svcs.Users))
			users.POST("", createUser(svcs.Users))
			users.GET("/:id", getUser(svcs.Users))
			users.PUT("/:id", updateUser(svcs.Users))
			users.DELETE("/:id", deleteUser(svcs.Users))
		}

		v1.GET("/audit", listAudit(svcs.Audit))
	}

	return router
}

// actorMiddleware threads the caller identity from the X-Actor header into
// the request context for the audit trail.
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := c.GetHeader("X-Actor"); actor != "" {
			ctx := service.WithActor(c.Request.Context(), actor)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
