package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ebd-admin/ebd-api/internal/models"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
)

// memoryStore is an in-memory record store shared by service tests.
type memoryStore struct {
	mu         sync.Mutex
	classes    map[string]models.Class
	students   map[string]models.Student
	attendance map[string]models.AttendanceRecord
	failList   error
	failWrite  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		classes:    map[string]models.Class{},
		students:   map[string]models.Student{},
		attendance: map[string]models.AttendanceRecord{},
	}
}

func (m *memoryStore) addClass(id, name string, active bool) models.Class {
	c := models.Class{ID: id, Name: name, Active: active}
	m.classes[id] = c
	return c
}

func (m *memoryStore) addStudents(classID string, n int, active bool) []models.Student {
	out := make([]models.Student, 0, n)
	for i := 0; i < n; i++ {
		s := models.Student{ID: uuid.NewString(), FullName: "Aluno", ClassID: classID, Active: active}
		m.students[s.ID] = s
		out = append(out, s)
	}
	return out
}

func (m *memoryStore) dayRecords(classID, date string) []models.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AttendanceRecord
	for _, r := range m.attendance {
		if r.ClassID == classID && r.Date == date {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out
}

// classes

type memoryClasses struct{ *memoryStore }

func (m memoryClasses) FindActive(ctx context.Context) ([]models.Class, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	var out []models.Class
	for _, c := range m.classes {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memoryClasses) FindByID(ctx context.Context, id string) (*models.Class, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

// students

type memoryStudents struct{ *memoryStore }

func (m memoryStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m memoryStudents) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var found []string
	for _, id := range ids {
		if _, ok := m.students[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m memoryStudents) CountActiveByClass(ctx context.Context, classID string) (int, error) {
	count := 0
	for _, s := range m.students {
		if s.ClassID == classID && s.Active {
			count++
		}
	}
	return count, nil
}

// attendance

type memoryAttendance struct{ *memoryStore }

func (m memoryAttendance) ListByClassAndDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	return m.dayRecords(classID, date), nil
}

func (m memoryAttendance) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.attendance[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (m memoryAttendance) ExistsForStudent(ctx context.Context, studentID, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.attendance {
		if r.StudentID == studentID && r.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (m memoryAttendance) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now()
	m.attendance[record.ID] = *record
	return nil
}

func (m memoryAttendance) Update(ctx context.Context, record *models.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance[record.ID] = *record
	return nil
}

func (m memoryAttendance) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attendance, id)
	return nil
}

func (m memoryAttendance) ReplaceDay(ctx context.Context, classID, date string, records []models.AttendanceRecord) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.attendance {
		if r.ClassID == classID && r.Date == date {
			delete(m.attendance, id)
		}
	}
	for i := range records {
		records[i].ClassID = classID
		records[i].Date = date
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		m.attendance[records[i].ID] = records[i]
	}
	return nil
}

// fakeCache records cache calls.
type fakeCache struct {
	entries map[string]interface{}
	deleted []string
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]interface{}{}} }

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if src, ok := v.(*DashboardResult); ok {
		*(dest.(*DashboardResult)) = *src
	}
	return nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deleted = append(f.deleted, pattern)
	f.entries = map[string]interface{}{}
	return nil
}
