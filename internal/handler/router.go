package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/middleware"
	"github.com/edusuite/siga-gateway/internal/models"
	"github.com/edusuite/siga-gateway/internal/service"
)

// Router registers every route group. Access rules mirror the admin
// client's screens: reference CRUD, account registration and timetable
// mutations are admin work; the timetable itself and its exports are
// readable by any signed-in account.
type Router struct {
	auth      *AuthHandler
	subjects  *SubjectHandler
	rooms     *ClassroomHandler
	groups    *GroupHandler
	slots     *TimeSlotHandler
	teachers  *TeacherHandler
	schedule  *ScheduleHandler
	dashboard *DashboardHandler

	authService *service.AuthService
	metrics     *service.MetricsService
}

// NewRouter constructs a Router.
func NewRouter(
	auth *AuthHandler,
	subjects *SubjectHandler,
	rooms *ClassroomHandler,
	groups *GroupHandler,
	slots *TimeSlotHandler,
	teachers *TeacherHandler,
	schedule *ScheduleHandler,
	dashboard *DashboardHandler,
	authService *service.AuthService,
	metrics *service.MetricsService,
) *Router {
	return &Router{
		auth:        auth,
		subjects:    subjects,
		rooms:       rooms,
		groups:      groups,
		slots:       slots,
		teachers:    teachers,
		schedule:    schedule,
		dashboard:   dashboard,
		authService: authService,
		metrics:     metrics,
	}
}

// Register mounts all routes under the API prefix.
func (rt *Router) Register(r *gin.Engine, prefix string) {
	r.GET("/metrics", gin.WrapH(rt.metrics.Handler()))

	api := r.Group(prefix)
	api.POST("/login", rt.auth.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(rt.authService))

	authed.POST("/logout", rt.auth.Logout)
	authed.GET("/me", rt.auth.Me)
	authed.PUT("/me", rt.auth.UpdateMe)

	// The timetable is readable by every signed-in account.
	authed.GET("/detalle-horarios", rt.schedule.List)
	authed.GET("/detalle-horarios/export", rt.schedule.Export)
	authed.GET("/detalle-horarios/:id", rt.schedule.Get)

	teacher := authed.Group("")
	teacher.Use(middleware.RequireRoles(models.RoleTeacher))
	teacher.GET("/dashboard/teacher", rt.dashboard.TeacherOverview)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/register", rt.auth.Register)
	admin.GET("/dashboard/admin", rt.dashboard.AdminSummary)
	admin.GET("/docentes", rt.teachers.List)

	admin.POST("/detalle-horarios", rt.schedule.Create)
	admin.PUT("/detalle-horarios/:id", rt.schedule.Update)
	admin.DELETE("/detalle-horarios/:id", rt.schedule.Delete)

	subjects := admin.Group("/materias")
	subjects.GET("", rt.subjects.List)
	subjects.GET("/export", rt.subjects.Export)
	subjects.POST("", rt.subjects.Create)
	subjects.PUT("/:id", rt.subjects.Update)
	subjects.DELETE("/:id", rt.subjects.Delete)

	rooms := admin.Group("/aulas")
	rooms.GET("", rt.rooms.List)
	rooms.GET("/export", rt.rooms.Export)
	rooms.POST("", rt.rooms.Create)
	rooms.PUT("/:id", rt.rooms.Update)
	rooms.DELETE("/:id", rt.rooms.Delete)

	groups := admin.Group("/grupos")
	groups.GET("", rt.groups.List)
	groups.GET("/export", rt.groups.Export)
	groups.POST("", rt.groups.Create)
	groups.PUT("/:id", rt.groups.Update)
	groups.DELETE("/:id", rt.groups.Delete)

	slots := admin.Group("/horarios")
	slots.GET("", rt.slots.List)
	slots.GET("/export", rt.slots.Export)
	slots.POST("", rt.slots.Create)
	slots.PUT("/:id", rt.slots.Update)
	slots.DELETE("/:id", rt.slots.Delete)
}
