package dto

// ClassAttendanceReport is the canonical roll-call summary for one class on one date.
// Ausentes is enrollment minus presentes and is not a count of "ausente" rows;
// RegistrosAusentes carries that literal count.
type ClassAttendanceReport struct {
	TurmaID            string  `json:"turma_id"`
	TurmaNome          string  `json:"turma_nome"`
	Data               string  `json:"data"`
	Matriculados       int     `json:"matriculados"`
	Presentes          int     `json:"presentes"`
	Ausentes           int     `json:"ausentes"`
	Visitantes         int     `json:"visitantes"`
	PosChamada         int     `json:"pos_chamada"`
	RegistrosAusentes  int     `json:"registros_ausentes"`
	TotalOfertas       float64 `json:"total_ofertas"`
	TotalBiblias       int     `json:"total_biblias"`
	TotalRevistas      int     `json:"total_revistas"`
	PercentualPresenca float64 `json:"percentual_presenca"`
}

// DashboardTotals sums the per-class reports of a dashboard.
type DashboardTotals struct {
	Turmas             int     `json:"turmas"`
	Matriculados       int     `json:"matriculados"`
	Presentes          int     `json:"presentes"`
	Visitantes         int     `json:"visitantes"`
	PosChamada         int     `json:"pos_chamada"`
	TotalOfertas       float64 `json:"total_ofertas"`
	TotalBiblias       int     `json:"total_biblias"`
	TotalRevistas      int     `json:"total_revistas"`
	PercentualPresenca float64 `json:"percentual_presenca"`
}

// RankingEntry positions a class by attendance percentage.
type RankingEntry struct {
	Posicao int `json:"posicao"`
	ClassAttendanceReport
}
