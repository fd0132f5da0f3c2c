package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-admin/ebd-api/internal/models"
)

func TestStudentRepositoryCountActiveByClass(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE class_id = $1 AND active = TRUE")).
		WithArgs("turma-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	count, err := repo.CountActiveByClass(context.Background(), "turma-1")
	require.NoError(t, err)
	assert.Equal(t, 6, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "full_name", "birth_date", "contact", "class_id", "active", "created_at", "updated_at"}).
		AddRow("s1", "Maria", "1990-01-01", "9999-0000", "turma-1", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, birth_date, contact, class_id, active, created_at, updated_at FROM students WHERE 1=1 AND class_id = $1 ORDER BY full_name ASC LIMIT 20 OFFSET 0")).
		WithArgs("turma-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1 AND class_id = $1")).
		WithArgs("turma-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{ClassID: "turma-1"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Maria", students[0].FullName)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListClassSet(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	classes := []string{"turma-1", "turma-3"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE 1=1 AND class_id = ANY($1) ORDER BY full_name ASC")).
		WithArgs(pq.Array(classes)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "birth_date", "contact", "class_id", "active", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1 AND class_id = ANY($1)")).
		WithArgs(pq.Array(classes)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	students, total, err := repo.List(context.Background(), models.StudentFilter{ClassIDs: classes})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistingIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	ids := []string{"6f1c2a4e-8d5b-4b7a-9c3e-1a2b3c4d5e6f", "0b9e8d7c-6a5f-4e3d-8c2b-1a0f9e8d7c6b"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = ANY($1)")).
		WithArgs(pq.Array(ids)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ids[0]))

	found, err := repo.ExistingIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0]}, found)
	assert.NoError(t, mock.ExpectationsWereMet())

	found, err = repo.ExistingIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{FullName: "Maria", ClassID: "turma-1", Active: true}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryTransfer(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET class_id = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("s1", "turma-2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Transfer(context.Background(), "s1", "turma-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
