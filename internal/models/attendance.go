package models

import "time"

// DateLayout is the persisted representation of roll-call dates. Dates are
// stored and compared as plain strings in this layout.
const DateLayout = "2006-01-02"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent      AttendanceStatus = "presente"
	AttendanceStatusAbsent       AttendanceStatus = "ausente"
	AttendanceStatusVisitor      AttendanceStatus = "visitante"
	AttendanceStatusPostRollCall AttendanceStatus = "pos_chamada"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusVisitor, AttendanceStatusPostRollCall:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one roll-call entry. ClassID is the class the student
// belonged to when the roll call was taken and is never rewritten by transfers.
type AttendanceRecord struct {
	ID        string           `db:"id" bson:"_id" json:"id"`
	StudentID string           `db:"student_id" bson:"aluno_id" json:"aluno_id"`
	ClassID   string           `db:"class_id" bson:"turma_id" json:"turma_id"`
	Date      string           `db:"date" bson:"data" json:"data"`
	Status    AttendanceStatus `db:"status" bson:"status" json:"status"`
	Offering  float64          `db:"offering" bson:"oferta" json:"oferta"`
	Bibles    int              `db:"bibles" bson:"biblias_entregues" json:"biblias_entregues"`
	Guides    int              `db:"guides" bson:"revistas_entregues" json:"revistas_entregues"`
	CreatedAt time.Time        `db:"created_at" bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" bson:"updated_at" json:"updated_at"`
}
