// Package router maps the HTTP surface onto handlers and access rules.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ebd-admin/ebd-api/internal/handler"
	"github.com/ebd-admin/ebd-api/internal/middleware"
	"github.com/ebd-admin/ebd-api/internal/models"
)

// Handlers groups every API handler.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Classes    *handler.ClassHandler
	Students   *handler.StudentHandler
	Attendance *handler.AttendanceHandler
	Reports    *handler.ReportHandler
}

// Options configures cross-cutting concerns of the API group.
type Options struct {
	Prefix       string
	Tokens       middleware.TokenValidator
	LoginLimiter *middleware.LoginLimiter
}

// Register mounts the API under opts.Prefix.
func Register(r gin.IRouter, h Handlers, opts Options) {
	api := r.Group(opts.Prefix)

	auth := api.Group("/auth")
	auth.POST("/login", opts.LoginLimiter.Middleware(), h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	secured := api.Group("", middleware.JWT(opts.Tokens))
	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)
	secured.POST("/auth/change-password", h.Auth.ChangePassword)

	admin := middleware.RequireRoles(models.RoleAdmin)
	roster := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator, models.RoleTeacher)
	classAccess := middleware.ClassAccess()

	users := secured.Group("/users", admin)
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.POST("", h.Users.Create)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	classes := secured.Group("/classes", anyRole)
	classes.GET("", h.Classes.List)
	classes.GET("/:id", h.Classes.Get)
	classes.POST("", admin, h.Classes.Create)
	classes.PUT("/:id", admin, h.Classes.Update)
	classes.DELETE("/:id", admin, h.Classes.Delete)

	students := secured.Group("/students", anyRole, classAccess)
	students.GET("", h.Students.List)
	students.GET("/:id", h.Students.Get)
	students.POST("", roster, h.Students.Create)
	students.PUT("/:id", roster, h.Students.Update)
	students.POST("/:id/transfer", roster, h.Students.Transfer)
	students.DELETE("/:id", roster, h.Students.Delete)

	attendance := secured.Group("/attendance", anyRole, classAccess)
	attendance.GET("", h.Attendance.List)
	attendance.POST("", h.Attendance.Create)
	attendance.PUT("/:id", h.Attendance.Update)
	attendance.DELETE("/:id", h.Attendance.Delete)
	attendance.POST("/bulk/:turma_id", h.Attendance.Bulk)

	reports := secured.Group("/reports", anyRole, classAccess)
	reports.GET("/dashboard", h.Reports.Dashboard)
	reports.GET("/dashboard/export", roster, h.Reports.Export)
	reports.GET("/ranking", h.Reports.Ranking)
	reports.GET("/classes/:turma_id", h.Reports.ClassReport)
}
