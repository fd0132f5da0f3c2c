package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebd-admin/ebd-api/internal/dto"
	"github.com/ebd-admin/ebd-api/internal/models"
	"github.com/ebd-admin/ebd-api/internal/service"
	"github.com/ebd-admin/ebd-api/pkg/response"
)

type reportService interface {
	ResolveDate(raw string) (string, error)
	ClassReport(ctx context.Context, classID, date string) (*dto.ClassAttendanceReport, error)
	Dashboard(ctx context.Context, date string) (*service.DashboardResult, error)
	Export(ctx context.Context, claims *models.JWTClaims, date, format string) (*service.ExportFile, error)
}

// ReportHandler exposes attendance reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Dashboard godoc
// @Summary Attendance of every active class on a date
// @Tags Reports
// @Produce json
// @Param data query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, ok := h.dashboard(c)
	if !ok {
		return
	}
	reports := service.VisibleReports(claimsFromContext(c), dashboard.Reports)
	response.JSON(c, http.StatusOK, reports, nil, map[string]interface{}{
		"data":      dashboard.Date,
		"totals":    service.SumDashboard(reports),
		"cache_hit": dashboard.CacheHit,
	})
}

// Ranking godoc
// @Summary Classes ordered by attendance percentage
// @Tags Reports
// @Produce json
// @Param data query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/ranking [get]
func (h *ReportHandler) Ranking(c *gin.Context) {
	dashboard, ok := h.dashboard(c)
	if !ok {
		return
	}
	ranking := service.RankReports(service.VisibleReports(claimsFromContext(c), dashboard.Reports))
	response.JSON(c, http.StatusOK, ranking, nil, map[string]interface{}{"data": dashboard.Date})
}

// ClassReport godoc
// @Summary Attendance of one class on a date
// @Tags Reports
// @Produce json
// @Param turma_id path string true "Class ID"
// @Param data query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/classes/{turma_id} [get]
func (h *ReportHandler) ClassReport(c *gin.Context) {
	date, err := h.service.ResolveDate(c.Query("data"))
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.ClassReport(c.Request.Context(), c.Param("turma_id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Download the dashboard as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param data query string false "Date (YYYY-MM-DD), defaults to today"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /reports/dashboard/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	date, err := h.service.ResolveDate(c.Query("data"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), claimsFromContext(c), date, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func (h *ReportHandler) dashboard(c *gin.Context) (*service.DashboardResult, bool) {
	date, err := h.service.ResolveDate(c.Query("data"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	dashboard, err := h.service.Dashboard(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return dashboard, true
}
