package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-admin/ebd-api/internal/models"
)

type fakeStudentRepo struct {
	students map[string]*models.Student
}

func (f *fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range f.students {
		if filter.ClassID != "" && s.ClassID != filter.ClassID {
			continue
		}
		if filter.ClassID == "" && len(filter.ClassIDs) > 0 && !containsClass(filter.ClassIDs, s.ClassID) {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func containsClass(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = "s-new"
	clone := *student
	f.students[student.ID] = &clone
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	clone := *student
	f.students[student.ID] = &clone
	return nil
}

func (f *fakeStudentRepo) Transfer(ctx context.Context, id, classID string) error {
	f.students[id].ClassID = classID
	return nil
}

func (f *fakeStudentRepo) Deactivate(ctx context.Context, id string) error {
	f.students[id].Active = false
	return nil
}

func newStudentFixture() (*StudentService, *fakeStudentRepo, *memoryStore) {
	store := newMemoryStore()
	store.addClass("turma-1", "Adultos", true)
	store.addClass("turma-2", "Jovens", true)
	store.addClass("turma-x", "Extinta", false)
	repo := &fakeStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Maria", ClassID: "turma-1", Active: true},
	}}
	return NewStudentService(repo, memoryClasses{store}, nil, nil, nil), repo, store
}

func TestStudentServiceCreate(t *testing.T) {
	svc, _, _ := newStudentFixture()
	birth := "1990-05-20"

	student, err := svc.Create(context.Background(), nil, CreateStudentRequest{FullName: "João", BirthDate: &birth, ClassID: "turma-2"})
	require.NoError(t, err)
	assert.True(t, student.Active)
	assert.Equal(t, "turma-2", student.ClassID)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc, _, _ := newStudentFixture()
	bad := "20/05/1990"

	_, err := svc.Create(context.Background(), nil, CreateStudentRequest{FullName: "João", BirthDate: &bad, ClassID: "turma-1"})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Create(context.Background(), nil, CreateStudentRequest{FullName: "João", ClassID: "ghost"})
	requireAppError(t, err, http.StatusNotFound)

	_, err = svc.Create(context.Background(), nil, CreateStudentRequest{FullName: "João", ClassID: "turma-x"})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestStudentTransferKeepsPastAttendance(t *testing.T) {
	svc, repo, store := newStudentFixture()
	require.NoError(t, memoryAttendance{store}.ReplaceDay(context.Background(), "turma-1", sunday, []models.AttendanceRecord{
		{StudentID: "s1", Status: models.AttendanceStatusPresent},
	}))

	student, err := svc.Transfer(context.Background(), nil, "s1", TransferStudentRequest{ClassID: "turma-2"})
	require.NoError(t, err)
	assert.Equal(t, "turma-2", student.ClassID)
	assert.Equal(t, "turma-2", repo.students["s1"].ClassID)

	past := store.dayRecords("turma-1", sunday)
	require.Len(t, past, 1)
	assert.Equal(t, "s1", past[0].StudentID)
}

func TestStudentTransferToInactiveClass(t *testing.T) {
	svc, repo, _ := newStudentFixture()
	_, err := svc.Transfer(context.Background(), nil, "s1", TransferStudentRequest{ClassID: "turma-x"})
	requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "turma-1", repo.students["s1"].ClassID)
}

func TestStudentDeleteIsSoft(t *testing.T) {
	svc, repo, _ := newStudentFixture()
	require.NoError(t, svc.Delete(context.Background(), nil, "s1"))
	assert.False(t, repo.students["s1"].Active)
	requireAppError(t, svc.Delete(context.Background(), nil, "ghost"), http.StatusNotFound)
}

func TestStudentServiceRestrictedModerator(t *testing.T) {
	svc, repo, _ := newStudentFixture()
	repo.students["s9"] = &models.Student{ID: "s9", FullName: "Pedro", ClassID: "turma-2", Active: true}
	moderator := &models.JWTClaims{UserID: "m", Role: models.RoleModerator, Classes: []string{"turma-1"}}
	ctx := context.Background()

	_, err := svc.Create(ctx, moderator, CreateStudentRequest{FullName: "João", ClassID: "turma-2"})
	requireAppError(t, err, http.StatusForbidden)
	assert.Len(t, repo.students, 2)

	_, err = svc.Get(ctx, moderator, "s9")
	requireAppError(t, err, http.StatusForbidden)

	_, err = svc.Update(ctx, moderator, "s9", UpdateStudentRequest{FullName: "Pedro Silva"})
	requireAppError(t, err, http.StatusForbidden)
	assert.Equal(t, "Pedro", repo.students["s9"].FullName)

	_, err = svc.Transfer(ctx, moderator, "s9", TransferStudentRequest{ClassID: "turma-1"})
	requireAppError(t, err, http.StatusForbidden)
	assert.Equal(t, "turma-2", repo.students["s9"].ClassID)

	_, err = svc.Transfer(ctx, moderator, "s1", TransferStudentRequest{ClassID: "turma-2"})
	requireAppError(t, err, http.StatusForbidden)
	assert.Equal(t, "turma-1", repo.students["s1"].ClassID)

	requireAppError(t, svc.Delete(ctx, moderator, "s9"), http.StatusForbidden)
	assert.True(t, repo.students["s9"].Active)

	student, err := svc.Get(ctx, moderator, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", student.FullName)
}

func TestStudentServiceListScopedToPermittedClasses(t *testing.T) {
	svc, repo, _ := newStudentFixture()
	repo.students["s9"] = &models.Student{ID: "s9", FullName: "Pedro", ClassID: "turma-2", Active: true}
	moderator := &models.JWTClaims{UserID: "m", Role: models.RoleModerator, Classes: []string{"turma-1"}}

	students, _, err := svc.List(context.Background(), moderator, models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)

	_, _, err = svc.List(context.Background(), moderator, models.StudentFilter{ClassID: "turma-2"})
	requireAppError(t, err, http.StatusForbidden)

	all, _, err := svc.List(context.Background(), &models.JWTClaims{Role: models.RoleAdmin, Classes: []string{"turma-1"}}, models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
