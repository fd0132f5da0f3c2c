package bootstrap

import (
	"time"

	"go.uber.org/zap"

	"github.com/ebd-admin/ebd-api/internal/service"
	"github.com/ebd-admin/ebd-api/pkg/config"
	"github.com/ebd-admin/ebd-api/pkg/export"
)

// Services is the assembled service layer.
type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Classes    *service.ClassService
	Students   *service.StudentService
	Attendance *service.AttendanceService
	Reports    *service.AttendanceReportService
	Baseline   *service.BaselineAccountService
}

// NewServices wires every service on top of store. cache and metrics may be nil.
func NewServices(cfg *config.Config, store *Store, cache *service.CacheService, metrics *service.MetricsService, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.UTC
	}
	validate := service.NewValidator()

	return &Services{
		Auth: service.NewAuthService(store.Users, validate, logger, service.AuthConfig{
			AccessTokenSecret:  cfg.JWT.Secret,
			AccessTokenExpiry:  cfg.JWT.Expiration,
			RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		}),
		Users:    service.NewUserService(store.Users, validate, logger),
		Classes:  service.NewClassService(store.Classes, cache, validate, logger),
		Students: service.NewStudentService(store.Students, store.Classes, cache, validate, logger),
		Attendance: service.NewAttendanceService(service.AttendanceServiceParams{
			Attendance:     store.Attendance,
			Classes:        store.Classes,
			Students:       store.Students,
			Cache:          cache,
			Metrics:        metrics,
			Validator:      validate,
			Logger:         logger,
			WorshipWeekday: cfg.RollCall.WorshipWeekday,
		}),
		Reports: service.NewAttendanceReportService(service.AttendanceReportServiceParams{
			Classes:    store.Classes,
			Students:   store.Students,
			Attendance: store.Attendance,
			Cache:      cache,
			Metrics:    metrics,
			CSV:        export.NewCSVExporter(';'),
			PDF:        export.NewPDFExporter(),
			Location:   location,
			CacheTTL:   cfg.Dashboard.CacheTTL,
			Logger:     logger,
		}),
		Baseline: service.NewBaselineAccountService(store.Users, service.BaselineAccount{
			Email:    cfg.Bootstrap.AdminEmail,
			Password: cfg.Bootstrap.AdminPassword,
			FullName: cfg.Bootstrap.AdminName,
		}, logger),
	}
}
