// Package bootstrap opens the configured record store and assembles the
// services shared by the server and the command-line tools.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ebd-admin/ebd-api/internal/models"
	"github.com/ebd-admin/ebd-api/internal/repository"
	"github.com/ebd-admin/ebd-api/internal/repository/docstore"
	"github.com/ebd-admin/ebd-api/pkg/config"
	"github.com/ebd-admin/ebd-api/pkg/database"
)

// ClassStore is the class persistence contract shared by both drivers.
type ClassStore interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	FindActive(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Deactivate(ctx context.Context, id string) error
}

// StudentStore is the student persistence contract shared by both drivers.
type StudentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	CountActiveByClass(ctx context.Context, classID string) (int, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Transfer(ctx context.Context, id, classID string) error
	Deactivate(ctx context.Context, id string) error
}

// AttendanceStore is the roll-call persistence contract shared by both drivers.
type AttendanceStore interface {
	ListByClassAndDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	ExistsForStudent(ctx context.Context, studentID, date string) (bool, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, record *models.AttendanceRecord) error
	Delete(ctx context.Context, id string) error
	ReplaceDay(ctx context.Context, classID, date string, records []models.AttendanceRecord) error
}

// UserStore covers accounts and refresh sessions.
type UserStore interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}

var (
	_ ClassStore      = (*repository.ClassRepository)(nil)
	_ ClassStore      = (*docstore.ClassStore)(nil)
	_ StudentStore    = (*repository.StudentRepository)(nil)
	_ StudentStore    = (*docstore.StudentStore)(nil)
	_ AttendanceStore = (*repository.AttendanceRepository)(nil)
	_ AttendanceStore = (*docstore.AttendanceStore)(nil)
	_ UserStore       = (*repository.UserRepository)(nil)
	_ UserStore       = (*docstore.UserStore)(nil)
)

// Store bundles the repositories of the selected driver.
type Store struct {
	Driver     string
	Classes    ClassStore
	Students   StudentStore
	Attendance AttendanceStore
	Users      UserStore

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backing database.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backing connections.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// OpenStore connects to the driver named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres, "":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("record store ready", zap.String("driver", config.StoreDriverPostgres), zap.String("database", cfg.Database.Name))
		return &Store{
			Driver:     config.StoreDriverPostgres,
			Classes:    repository.NewClassRepository(db),
			Students:   repository.NewStudentRepository(db),
			Attendance: repository.NewAttendanceRepository(db),
			Users:      repository.NewUserRepository(db),
			ping:       db.PingContext,
			close:      func(context.Context) error { return db.Close() },
		}, nil

	case config.StoreDriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := docstore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("record store ready", zap.String("driver", config.StoreDriverMongo), zap.String("database", cfg.Mongo.Database))
		return &Store{
			Driver:     config.StoreDriverMongo,
			Classes:    docstore.NewClassStore(db),
			Students:   docstore.NewStudentStore(db),
			Attendance: docstore.NewAttendanceStore(db),
			Users:      docstore.NewUserStore(db),
			ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:      client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}
