package models

import "time"

// Student represents a learner enrolled in exactly one class.
type Student struct {
	ID        string    `db:"id" bson:"_id" json:"id"`
	FullName  string    `db:"full_name" bson:"nome" json:"nome"`
	BirthDate *string   `db:"birth_date" bson:"data_nascimento,omitempty" json:"data_nascimento,omitempty"`
	Contact   string    `db:"contact" bson:"contato" json:"contato"`
	ClassID   string    `db:"class_id" bson:"turma_id" json:"turma_id"`
	Active    bool      `db:"active" bson:"ativo" json:"ativo"`
	CreatedAt time.Time `db:"created_at" bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" bson:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
// ClassIDs limits the listing to a set of classes when ClassID is empty.
type StudentFilter struct {
	ClassID  string
	ClassIDs []string
	Active   *bool
	Search   string
	Page     int
	PageSize int
}
