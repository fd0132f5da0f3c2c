package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ebd-admin/ebd-api/internal/models"
)

const attendanceColumns = "id, student_id, class_id, date, status, offering, bibles, guides, created_at, updated_at"

const insertAttendanceQuery = `INSERT INTO attendance_records (id, student_id, class_id, date, status, offering, bibles, guides, created_at, updated_at)
VALUES (:id, :student_id, :class_id, :date, :status, :offering, :bibles, :guides, :created_at, :updated_at)`

// AttendanceRepository handles persistence for roll-call records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByClassAndDate returns every record stamped with the class and date. The
// date is matched as an exact string.
func (r *AttendanceRepository) ListByClassAndDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records WHERE class_id = $1 AND date = $2 ORDER BY created_at ASC", attendanceColumns)
	rows := []models.AttendanceRecord{}
	if err := r.db.SelectContext(ctx, &rows, query, classID, date); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// FindByID returns one record.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records WHERE id = $1", attendanceColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsForStudent reports whether the student already has a record on the date.
func (r *AttendanceRepository) ExistsForStudent(ctx context.Context, studentID, date string) (bool, error) {
	const query = `SELECT COUNT(*) FROM attendance_records WHERE student_id = $1 AND date = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID, date); err != nil {
		return false, fmt.Errorf("check attendance duplicate: %w", err)
	}
	return count > 0, nil
}

// Create inserts a single record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	stampAttendance(record, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertAttendanceQuery, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance_records SET status = :status, offering = :offering, bibles = :bibles, guides = :guides, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Delete removes a single record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}

// ReplaceDay deletes every record for (classID, date) and inserts records in
// their place inside one transaction. An empty slice clears the day.
func (r *AttendanceRepository) ReplaceDay(ctx context.Context, classID, date string, records []models.AttendanceRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace attendance: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE class_id = $1 AND date = $2`, classID, date); err != nil {
		return fmt.Errorf("delete attendance day: %w", err)
	}

	if len(records) > 0 {
		now := time.Now().UTC()
		for i := range records {
			records[i].ClassID = classID
			records[i].Date = date
			stampAttendance(&records[i], now)
		}
		if _, err := tx.NamedExecContext(ctx, insertAttendanceQuery, records); err != nil {
			return fmt.Errorf("insert attendance day: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace attendance: %w", err)
	}
	commit = true
	return nil
}

func stampAttendance(record *models.AttendanceRecord, now time.Time) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
}
