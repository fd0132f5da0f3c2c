package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-admin/ebd-api/internal/models"
	"github.com/ebd-admin/ebd-api/internal/service"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
)

type classServiceMock struct {
	filter models.ClassFilter
}

func (m *classServiceMock) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	m.filter = filter
	return []models.Class{{ID: "t-1", Name: "Adultos", Active: true}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (m *classServiceMock) Get(ctx context.Context, id string) (*models.Class, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
}

func (m *classServiceMock) Create(ctx context.Context, req service.CreateClassRequest) (*models.Class, error) {
	if req.Name == "Adultos" {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class name already exists")
	}
	return &models.Class{ID: "t-2", Name: req.Name, Active: true}, nil
}

func (m *classServiceMock) Update(ctx context.Context, id string, req service.UpdateClassRequest) (*models.Class, error) {
	return &models.Class{ID: id, Name: req.Name}, nil
}

func (m *classServiceMock) Delete(ctx context.Context, id string) error { return nil }

func TestClassHandlerListParsesFilters(t *testing.T) {
	mock := &classServiceMock{}
	c, w := newGinContext(http.MethodGet, "/classes?ativa=true&search=%20adu%20&page=2&limit=5", nil)

	NewClassHandler(mock).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.filter.Active)
	assert.True(t, *mock.filter.Active)
	assert.Equal(t, "adu", mock.filter.Search)
	assert.Equal(t, 2, mock.filter.Page)
	assert.Equal(t, 5, mock.filter.PageSize)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestClassHandlerCreate(t *testing.T) {
	h := NewClassHandler(&classServiceMock{})

	c, w := newGinContext(http.MethodPost, "/classes", []byte(`{"nome":"Jovens"}`))
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newGinContext(http.MethodPost, "/classes", []byte(`{"nome":"Adultos"}`))
	h.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = newGinContext(http.MethodPost, "/classes", []byte(`{"nome":`))
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerGetNotFound(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/classes/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	NewClassHandler(&classServiceMock{}).Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
