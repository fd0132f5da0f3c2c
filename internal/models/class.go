package models

import "time"

// Class represents a Sunday-school class ("turma").
type Class struct {
	ID          string    `db:"id" bson:"_id" json:"id"`
	Name        string    `db:"name" bson:"nome" json:"nome"`
	Description *string   `db:"description" bson:"descricao,omitempty" json:"descricao,omitempty"`
	Active      bool      `db:"active" bson:"ativa" json:"ativa"`
	CreatedAt   time.Time `db:"created_at" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" bson:"updated_at" json:"updated_at"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}
