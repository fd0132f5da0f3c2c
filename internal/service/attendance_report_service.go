package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ebd-admin/ebd-api/internal/dto"
	"github.com/ebd-admin/ebd-api/internal/models"
	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
	"github.com/ebd-admin/ebd-api/pkg/export"
)

type reportClassReader interface {
	FindActive(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type enrollmentCounter interface {
	CountActiveByClass(ctx context.Context, classID string) (int, error)
}

type attendanceDayReader interface {
	ListByClassAndDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
	ContentType() string
}

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// DashboardResult is the per-class dashboard of one date.
type DashboardResult struct {
	Date     string
	Reports  []dto.ClassAttendanceReport
	Totals   dto.DashboardTotals
	CacheHit bool
}

// ExportFile is a rendered dashboard download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// AttendanceReportServiceParams groups constructor dependencies.
type AttendanceReportServiceParams struct {
	Classes    reportClassReader
	Students   enrollmentCounter
	Attendance attendanceDayReader
	Cache      *CacheService
	Metrics    *MetricsService
	CSV        csvRenderer
	PDF        pdfRenderer
	Location   *time.Location
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// AttendanceReportService builds roll-call reports from stored records.
type AttendanceReportService struct {
	classes    reportClassReader
	students   enrollmentCounter
	attendance attendanceDayReader
	cache      *CacheService
	metrics    *MetricsService
	csv        csvRenderer
	pdf        pdfRenderer
	location   *time.Location
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewAttendanceReportService constructs the service.
func NewAttendanceReportService(params AttendanceReportServiceParams) *AttendanceReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	location := params.Location
	if location == nil {
		location = time.Local
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter(0)
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &AttendanceReportService{
		classes:    params.Classes,
		students:   params.Students,
		attendance: params.Attendance,
		cache:      params.Cache,
		metrics:    params.Metrics,
		csv:        csv,
		pdf:        pdf,
		location:   location,
		cacheTTL:   params.CacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// ResolveDate validates a YYYY-MM-DD query value, defaulting to today.
func (s *AttendanceReportService) ResolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().In(s.location).Format(models.DateLayout), nil
	}
	if _, err := time.Parse(models.DateLayout, raw); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "data must use the YYYY-MM-DD format")
	}
	return raw, nil
}

// ClassReport aggregates one class on date.
func (s *AttendanceReportService) ClassReport(ctx context.Context, classID, date string) (*dto.ClassAttendanceReport, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	report, err := s.aggregate(ctx, *class, date)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Dashboard aggregates every active class on date, in name order.
func (s *AttendanceReportService) Dashboard(ctx context.Context, date string) (*DashboardResult, error) {
	key := DashboardCacheKey(date)
	var cached DashboardResult
	if s.cache.Get(ctx, key, &cached) {
		cached.CacheHit = true
		s.metrics.RecordDashboard(true)
		return &cached, nil
	}

	classes, err := s.classes.FindActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}

	reports := make([]dto.ClassAttendanceReport, 0, len(classes))
	for _, class := range classes {
		report, err := s.aggregate(ctx, class, date)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	result := &DashboardResult{Date: date, Reports: reports, Totals: SumDashboard(reports)}
	s.cache.Set(ctx, key, result, s.cacheTTL)
	s.metrics.RecordDashboard(false)
	return result, nil
}

// RankReports sorts a copy of reports by percentage, then presentes, then class
// name, and assigns 1-based positions.
func RankReports(reports []dto.ClassAttendanceReport) []dto.RankingEntry {
	sorted := append([]dto.ClassAttendanceReport(nil), reports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PercentualPresenca != b.PercentualPresenca {
			return a.PercentualPresenca > b.PercentualPresenca
		}
		if a.Presentes != b.Presentes {
			return a.Presentes > b.Presentes
		}
		return a.TurmaNome < b.TurmaNome
	})
	entries := make([]dto.RankingEntry, len(sorted))
	for i, report := range sorted {
		entries[i] = dto.RankingEntry{Posicao: i + 1, ClassAttendanceReport: report}
	}
	return entries
}

// Export renders the dashboard of date as csv or pdf, limited to the classes
// the caller may see.
func (s *AttendanceReportService) Export(ctx context.Context, claims *models.JWTClaims, date, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	dashboard, err := s.Dashboard(ctx, date)
	if err != nil {
		return nil, err
	}
	reports := VisibleReports(claims, dashboard.Reports)
	dataset := dashboardDataset(&DashboardResult{Date: dashboard.Date, Reports: reports, Totals: SumDashboard(reports)})
	filename := fmt.Sprintf("presenca-%s.%s", date, format)

	var (
		body        []byte
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		body, err = s.pdf.Render(dataset, "Relatório de presença", "Data "+date)
		contentType = s.pdf.ContentType()
	default:
		body, err = s.csv.Render(dataset)
		contentType = s.csv.ContentType()
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{Filename: filename, ContentType: contentType, Body: body}, nil
}

func (s *AttendanceReportService) aggregate(ctx context.Context, class models.Class, date string) (dto.ClassAttendanceReport, error) {
	enrolled, err := s.students.CountActiveByClass(ctx, class.ID)
	if err != nil {
		return dto.ClassAttendanceReport{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrolled students")
	}
	rows, err := s.attendance.ListByClassAndDate(ctx, class.ID, date)
	if err != nil {
		return dto.ClassAttendanceReport{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	return AggregateRollCall(class, date, enrolled, rows), nil
}

var exportHeaders = []string{"Turma", "Matriculados", "Presentes", "Ausentes", "Visitantes", "Pós-chamada", "Ofertas", "Bíblias", "Revistas", "Presença (%)"}

func dashboardDataset(dashboard *DashboardResult) export.Dataset {
	ds := export.Dataset{Headers: exportHeaders}
	for _, r := range dashboard.Reports {
		ds.Append(r.TurmaNome,
			strconv.Itoa(r.Matriculados),
			strconv.Itoa(r.Presentes),
			strconv.Itoa(r.Ausentes),
			strconv.Itoa(r.Visitantes),
			strconv.Itoa(r.PosChamada),
			formatAmount(r.TotalOfertas),
			strconv.Itoa(r.TotalBiblias),
			strconv.Itoa(r.TotalRevistas),
			formatAmount(r.PercentualPresenca),
		)
	}
	t := dashboard.Totals
	ds.Append("Total",
		strconv.Itoa(t.Matriculados),
		strconv.Itoa(t.Presentes),
		strconv.Itoa(t.Matriculados-t.Presentes),
		strconv.Itoa(t.Visitantes),
		strconv.Itoa(t.PosChamada),
		formatAmount(t.TotalOfertas),
		strconv.Itoa(t.TotalBiblias),
		strconv.Itoa(t.TotalRevistas),
		formatAmount(t.PercentualPresenca),
	)
	return ds
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
