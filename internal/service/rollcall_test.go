package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebd-admin/ebd-api/internal/dto"
	"github.com/ebd-admin/ebd-api/internal/models"
)

func rows(statuses ...models.AttendanceStatus) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, models.AttendanceRecord{Status: s})
	}
	return out
}

func repeat(status models.AttendanceStatus, n int) []models.AttendanceStatus {
	out := make([]models.AttendanceStatus, n)
	for i := range out {
		out[i] = status
	}
	return out
}

var adultos = models.Class{ID: "turma-1", Name: "Adultos"}

func TestAggregateRollCallPercentageIgnoresVisitorsAndLateArrivals(t *testing.T) {
	statuses := append(repeat(models.AttendanceStatusPresent, 4), repeat(models.AttendanceStatusPostRollCall, 3)...)
	statuses = append(statuses, repeat(models.AttendanceStatusVisitor, 2)...)

	report := AggregateRollCall(adultos, "2024-03-03", 10, rows(statuses...))

	assert.Equal(t, 4, report.Presentes)
	assert.Equal(t, 3, report.PosChamada)
	assert.Equal(t, 2, report.Visitantes)
	assert.Equal(t, 6, report.Ausentes)
	assert.Equal(t, 40.0, report.PercentualPresenca)
	assert.Equal(t, "Adultos", report.TurmaNome)
	assert.Equal(t, "2024-03-03", report.Data)
}

func TestAggregateRollCallSmallClass(t *testing.T) {
	statuses := []models.AttendanceStatus{
		models.AttendanceStatusPresent, models.AttendanceStatusPresent, models.AttendanceStatusPresent,
		models.AttendanceStatusPostRollCall, models.AttendanceStatusPostRollCall,
		models.AttendanceStatusVisitor,
	}

	report := AggregateRollCall(adultos, "2024-03-03", 6, rows(statuses...))

	assert.Equal(t, 3, report.Presentes)
	assert.Equal(t, 2, report.PosChamada)
	assert.Equal(t, 1, report.Visitantes)
	assert.Equal(t, 3, report.Ausentes)
	assert.Equal(t, 50.0, report.PercentualPresenca)
}

func TestAggregateRollCallOfferingSumsExactly(t *testing.T) {
	input := []models.AttendanceRecord{
		{Status: models.AttendanceStatusPresent, Offering: 8.50, Bibles: 1},
		{Status: models.AttendanceStatusVisitor, Offering: 8.50, Guides: 2},
	}

	report := AggregateRollCall(adultos, "2024-03-03", 2, input)

	assert.Equal(t, 17.00, report.TotalOfertas)
	assert.Equal(t, 1, report.TotalBiblias)
	assert.Equal(t, 2, report.TotalRevistas)
}

func TestAggregateRollCallTenCentsAddUp(t *testing.T) {
	input := make([]models.AttendanceRecord, 3)
	for i := range input {
		input[i] = models.AttendanceRecord{Status: models.AttendanceStatusPresent, Offering: 0.1}
	}
	report := AggregateRollCall(adultos, "2024-03-03", 3, input)
	assert.Equal(t, 0.3, report.TotalOfertas)
}

func TestAggregateRollCallOfferingRoundsHalfUp(t *testing.T) {
	input := []models.AttendanceRecord{
		{Status: models.AttendanceStatusPresent, Offering: 1.005},
		{Status: models.AttendanceStatusPresent, Offering: 1.005},
	}
	report := AggregateRollCall(adultos, "2024-03-03", 2, input)
	assert.Equal(t, 2.02, report.TotalOfertas)

	assert.Equal(t, int64(101), toCents(1.005))
	assert.Equal(t, int64(268), toCents(2.675))
	assert.Equal(t, int64(0), toCents(0))
	assert.Equal(t, 0.3, roundMoney(0.1+0.2))
}

func TestAggregateRollCallStatusCountsPartitionRows(t *testing.T) {
	statuses := []models.AttendanceStatus{
		models.AttendanceStatusPresent, models.AttendanceStatusAbsent, models.AttendanceStatusAbsent,
		models.AttendanceStatusVisitor, models.AttendanceStatusPostRollCall, models.AttendanceStatusPresent,
	}
	report := AggregateRollCall(adultos, "2024-03-03", 5, rows(statuses...))

	assert.Equal(t, len(statuses), report.Presentes+report.RegistrosAusentes+report.Visitantes+report.PosChamada)
	assert.Equal(t, 2, report.RegistrosAusentes)
	assert.Equal(t, 3, report.Ausentes)
}

func TestAggregateRollCallAbsentIsNotClamped(t *testing.T) {
	report := AggregateRollCall(adultos, "2024-03-03", 1, rows(repeat(models.AttendanceStatusPresent, 3)...))
	assert.Equal(t, -2, report.Ausentes)
	assert.Equal(t, 300.0, report.PercentualPresenca)
}

func TestAggregateRollCallNoEnrolment(t *testing.T) {
	report := AggregateRollCall(adultos, "2024-03-03", 0, rows(models.AttendanceStatusVisitor))
	assert.Equal(t, 0.0, report.PercentualPresenca)
	assert.Equal(t, 0, report.Ausentes)
}

func TestAggregateRollCallRoundsPercentage(t *testing.T) {
	report := AggregateRollCall(adultos, "2024-03-03", 3, rows(models.AttendanceStatusPresent))
	assert.Equal(t, 33.33, report.PercentualPresenca)
}

func TestVisibleReports(t *testing.T) {
	reports := []dto.ClassAttendanceReport{{TurmaID: "turma-1"}, {TurmaID: "turma-2"}}

	assert.Len(t, VisibleReports(nil, reports), 2)
	assert.Len(t, VisibleReports(&models.JWTClaims{Role: models.RoleModerator}, reports), 2)
	scoped := VisibleReports(&models.JWTClaims{Role: models.RoleModerator, Classes: []string{"turma-2"}}, reports)
	if assert.Len(t, scoped, 1) {
		assert.Equal(t, "turma-2", scoped[0].TurmaID)
	}
}

func TestSumDashboard(t *testing.T) {
	reports := []dto.ClassAttendanceReport{
		{Matriculados: 10, Presentes: 4, Visitantes: 2, PosChamada: 3, TotalOfertas: 17.5, TotalBiblias: 1},
		{Matriculados: 6, Presentes: 3, Visitantes: 1, PosChamada: 2, TotalOfertas: 0.1, TotalRevistas: 4},
	}
	totals := SumDashboard(reports)

	assert.Equal(t, 2, totals.Turmas)
	assert.Equal(t, 16, totals.Matriculados)
	assert.Equal(t, 7, totals.Presentes)
	assert.Equal(t, 17.6, totals.TotalOfertas)
	assert.Equal(t, 43.75, totals.PercentualPresenca)
}
