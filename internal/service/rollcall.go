package service

import (
	"math"

	"github.com/ebd-admin/ebd-api/internal/dto"
	"github.com/ebd-admin/ebd-api/internal/models"
)

// AggregateRollCall summarises the attendance rows of one class on one date.
//
// enrolled is the count of active students currently in the class, independent
// of the date. Ausentes is enrolled minus presentes and may go negative when
// present rows outnumber current enrolment. Visitors and post roll-call
// arrivals never count toward the percentage.
func AggregateRollCall(class models.Class, date string, enrolled int, rows []models.AttendanceRecord) dto.ClassAttendanceReport {
	report := dto.ClassAttendanceReport{
		TurmaID:      class.ID,
		TurmaNome:    class.Name,
		Data:         date,
		Matriculados: enrolled,
	}

	var offeringCents int64
	for _, row := range rows {
		switch row.Status {
		case models.AttendanceStatusPresent:
			report.Presentes++
		case models.AttendanceStatusVisitor:
			report.Visitantes++
		case models.AttendanceStatusPostRollCall:
			report.PosChamada++
		case models.AttendanceStatusAbsent:
			report.RegistrosAusentes++
		}
		offeringCents += toCents(row.Offering)
		report.TotalBiblias += row.Bibles
		report.TotalRevistas += row.Guides
	}

	report.Ausentes = enrolled - report.Presentes
	report.TotalOfertas = fromCents(offeringCents)
	report.PercentualPresenca = attendancePercentage(report.Presentes, enrolled)
	return report
}

// SumDashboard totals a set of class reports. The overall percentage uses the
// same present over enrolled rule as a single class.
func SumDashboard(reports []dto.ClassAttendanceReport) dto.DashboardTotals {
	totals := dto.DashboardTotals{Turmas: len(reports)}
	var cents int64
	for _, r := range reports {
		totals.Matriculados += r.Matriculados
		totals.Presentes += r.Presentes
		totals.Visitantes += r.Visitantes
		totals.PosChamada += r.PosChamada
		totals.TotalBiblias += r.TotalBiblias
		totals.TotalRevistas += r.TotalRevistas
		cents += toCents(r.TotalOfertas)
	}
	totals.TotalOfertas = fromCents(cents)
	totals.PercentualPresenca = attendancePercentage(totals.Presentes, totals.Matriculados)
	return totals
}

// VisibleReports keeps the reports of classes the caller may see. Nil claims
// see everything.
func VisibleReports(claims *models.JWTClaims, reports []dto.ClassAttendanceReport) []dto.ClassAttendanceReport {
	if claims == nil {
		return reports
	}
	out := make([]dto.ClassAttendanceReport, 0, len(reports))
	for _, report := range reports {
		if claims.CanAccessClass(report.TurmaID) {
			out = append(out, report)
		}
	}
	return out
}

func attendancePercentage(present, enrolled int) float64 {
	if enrolled <= 0 {
		return 0
	}
	return roundTo2(float64(present) * 100 / float64(enrolled))
}

// centEpsilon absorbs binary representation error so that amounts such as
// 1.005, stored as 1.00499..., still round half up.
const centEpsilon = 1e-6

// toCents rounds half away from zero to whole cents.
func toCents(amount float64) int64 {
	return int64(math.Round(amount*100 + math.Copysign(centEpsilon, amount)))
}

// roundMoney rounds an amount to two decimals with the same rule as toCents.
func roundMoney(amount float64) float64 {
	return fromCents(toCents(amount))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
