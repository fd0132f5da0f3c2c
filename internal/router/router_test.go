package router

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ebd-admin/ebd-api/internal/dto"
	"github.com/ebd-admin/ebd-api/internal/handler"
	"github.com/ebd-admin/ebd-api/internal/middleware"
	"github.com/ebd-admin/ebd-api/internal/models"
	"github.com/ebd-admin/ebd-api/internal/service"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
)

type tokens map[string]*models.JWTClaims

func (t tokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := t[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

type stubAttendance struct{ bulkCalls int }

func (s *stubAttendance) List(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	return []models.AttendanceRecord{}, nil
}

func (s *stubAttendance) Create(ctx context.Context, claims *models.JWTClaims, req service.CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	return &models.AttendanceRecord{}, nil
}

func (s *stubAttendance) Update(ctx context.Context, claims *models.JWTClaims, id string, req service.UpdateAttendanceRequest) (*models.AttendanceRecord, error) {
	return &models.AttendanceRecord{}, nil
}

func (s *stubAttendance) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	return nil
}

func (s *stubAttendance) BulkReplace(ctx context.Context, classID, date string, items []service.AttendanceItem) ([]models.AttendanceRecord, error) {
	s.bulkCalls++
	return []models.AttendanceRecord{}, nil
}

type stubReports struct{}

func (stubReports) ResolveDate(raw string) (string, error) { return "2024-03-03", nil }

func (stubReports) ClassReport(ctx context.Context, classID, date string) (*dto.ClassAttendanceReport, error) {
	return &dto.ClassAttendanceReport{TurmaID: classID}, nil
}

func (stubReports) Dashboard(ctx context.Context, date string) (*service.DashboardResult, error) {
	return &service.DashboardResult{Date: date}, nil
}

func (stubReports) Export(ctx context.Context, claims *models.JWTClaims, date, format string) (*service.ExportFile, error) {
	return &service.ExportFile{Filename: "x.csv", ContentType: "text/csv", Body: []byte("a")}, nil
}

type rosterStudents struct {
	students  map[string]*models.Student
	creates   int
	transfers int
}

func (r *rosterStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return []models.Student{}, 0, nil
}

func (r *rosterStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := r.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *student
	return &clone, nil
}

func (r *rosterStudents) Create(ctx context.Context, student *models.Student) error {
	r.creates++
	student.ID = "s-new"
	return nil
}

func (r *rosterStudents) Update(ctx context.Context, student *models.Student) error {
	return nil
}

func (r *rosterStudents) Transfer(ctx context.Context, id, classID string) error {
	r.transfers++
	r.students[id].ClassID = classID
	return nil
}

func (r *rosterStudents) Deactivate(ctx context.Context, id string) error {
	r.students[id].Active = false
	return nil
}

type rosterClasses struct{}

func (rosterClasses) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if id == "turma-1" || id == "turma-2" {
		return &models.Class{ID: id, Name: id, Active: true}, nil
	}
	return nil, sql.ErrNoRows
}

func newRosterStudents() *rosterStudents {
	return &rosterStudents{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Maria", ClassID: "turma-1", Active: true},
		"s9": {ID: "s9", FullName: "Pedro", ClassID: "turma-2", Active: true},
	}}
}

func newTestRouter(att *stubAttendance) *gin.Engine {
	return newRosterRouter(att, newRosterStudents())
}

func newRosterRouter(att *stubAttendance, students *rosterStudents) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, Handlers{
		Students:   handler.NewStudentHandler(service.NewStudentService(students, rosterClasses{}, nil, nil, nil)),
		Attendance: handler.NewAttendanceHandler(att),
		Reports:    handler.NewReportHandler(stubReports{}),
	}, Options{
		Prefix: "/api/v1",
		Tokens: tokens{
			"admin":      {UserID: "a", Role: models.RoleAdmin},
			"teacher":    {UserID: "t", Role: models.RoleTeacher, Classes: []string{"turma-1"}},
			"moderator":  {UserID: "m", Role: models.RoleModerator},
			"scoped":     {UserID: "s", Role: models.RoleModerator, Classes: []string{"turma-1"}},
			"unassigned": {UserID: "u", Role: models.RoleTeacher},
		},
		LoginLimiter: middleware.NewLoginLimiter(0),
	})
	return r
}

func call(r *gin.Engine, method, target, token string, body []byte) int {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouterAccessRules(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		token  string
		want   int
	}{
		{"anonymous dashboard", http.MethodGet, "/api/v1/reports/dashboard", "", http.StatusUnauthorized},
		{"teacher dashboard", http.MethodGet, "/api/v1/reports/dashboard", "teacher", http.StatusOK},
		{"teacher own class report", http.MethodGet, "/api/v1/reports/classes/turma-1", "teacher", http.StatusOK},
		{"teacher other class report", http.MethodGet, "/api/v1/reports/classes/turma-2", "teacher", http.StatusForbidden},
		{"unassigned teacher any class", http.MethodGet, "/api/v1/reports/classes/turma-2", "unassigned", http.StatusOK},
		{"teacher export", http.MethodGet, "/api/v1/reports/dashboard/export", "teacher", http.StatusForbidden},
		{"moderator export", http.MethodGet, "/api/v1/reports/dashboard/export", "moderator", http.StatusOK},
		{"teacher list other class", http.MethodGet, "/api/v1/attendance?turma_id=turma-2&data=2024-03-03", "teacher", http.StatusForbidden},
		{"teacher create user", http.MethodPost, "/api/v1/users", "teacher", http.StatusForbidden},
		{"moderator create class", http.MethodPost, "/api/v1/classes", "moderator", http.StatusForbidden},
	}
	r := newTestRouter(&stubAttendance{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, call(r, tc.method, tc.target, tc.token, nil))
		})
	}
}

func TestRouterBulkRespectsClassPermissions(t *testing.T) {
	att := &stubAttendance{}
	r := newTestRouter(att)

	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/attendance/bulk/turma-2?data=2024-03-03", "teacher", []byte(`[]`)))
	assert.Equal(t, 0, att.bulkCalls)

	assert.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/v1/attendance/bulk/turma-1?data=2024-03-03", "teacher", []byte(`[]`)))
	assert.Equal(t, 1, att.bulkCalls)
}

func TestRouterStudentsRespectClassPermissions(t *testing.T) {
	students := newRosterStudents()
	r := newRosterRouter(&stubAttendance{}, students)

	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/students", "scoped", []byte(`{"nome":"João","turma_id":"turma-2"}`)))
	assert.Equal(t, 0, students.creates)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/api/v1/students/s9", "scoped", nil))
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPut, "/api/v1/students/s9", "scoped", []byte(`{"nome":"Pedro Silva"}`)))
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/students/s9/transfer", "scoped", []byte(`{"turma_id":"turma-1"}`)))
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/students/s1/transfer", "scoped", []byte(`{"turma_id":"turma-2"}`)))
	assert.Equal(t, 0, students.transfers)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodDelete, "/api/v1/students/s9", "scoped", nil))
	assert.True(t, students.students["s9"].Active)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/api/v1/students?turma_id=turma-2", "scoped", nil))

	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/v1/students", "scoped", []byte(`{"nome":"João","turma_id":"turma-1"}`)))
	assert.Equal(t, 1, students.creates)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/v1/students/s1", "scoped", nil))
	assert.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/v1/students/s9/transfer", "moderator", []byte(`{"turma_id":"turma-1"}`)))
	assert.Equal(t, 1, students.transfers)
}
