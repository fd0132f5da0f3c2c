package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebd-admin/ebd-api/internal/models"
	"github.com/ebd-admin/ebd-api/internal/service"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
	"github.com/ebd-admin/ebd-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error)
	Create(ctx context.Context, claims *models.JWTClaims, req service.CreateAttendanceRequest) (*models.AttendanceRecord, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req service.UpdateAttendanceRequest) (*models.AttendanceRecord, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
	BulkReplace(ctx context.Context, classID, date string, items []service.AttendanceItem) ([]models.AttendanceRecord, error)
}

// AttendanceHandler exposes roll-call endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary List attendance of a class on a date
// @Tags Attendance
// @Produce json
// @Param turma_id query string true "Class ID"
// @Param data query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context(), c.Query("turma_id"), c.Query("data"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"total": len(records)})
}

// Create godoc
// @Summary Record one student's attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.CreateAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req service.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update an attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body service.UpdateAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var req service.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete an attendance record
// @Tags Attendance
// @Param id path string true "Record ID"
// @Success 204
// @Security BearerAuth
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Bulk godoc
// @Summary Replace the roll call of a class on a worship day
// @Description Deletes every record of the class on the date and stores the submitted list. An empty list clears the day.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param turma_id path string true "Class ID"
// @Param data query string true "Date (YYYY-MM-DD)"
// @Param payload body []service.AttendanceItem true "Roll call"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/bulk/{turma_id} [post]
func (h *AttendanceHandler) Bulk(c *gin.Context) {
	var items []service.AttendanceItem
	if err := c.ShouldBindJSON(&items); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload must be a JSON array"))
		return
	}
	records, err := h.service.BulkReplace(c.Request.Context(), c.Param("turma_id"), c.Query("data"), items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"total": len(records)})
}
