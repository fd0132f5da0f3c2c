package models

import "time"

// RefreshToken represents a persisted refresh token session.
type RefreshToken struct {
	ID        string     `db:"id" bson:"_id" json:"id"`
	UserID    string     `db:"user_id" bson:"user_id" json:"user_id"`
	Token     string     `db:"token" bson:"token" json:"token"`
	ExpiresAt time.Time  `db:"expires_at" bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time  `db:"created_at" bson:"created_at" json:"created_at"`
	Revoked   bool       `db:"revoked" bson:"revoked" json:"revoked"`
	RevokedAt *time.Time `db:"revoked_at" bson:"revoked_at,omitempty" json:"revoked_at,omitempty"`
	IPAddress string     `db:"ip_address" bson:"ip_address" json:"ip_address"`
	UserAgent string     `db:"user_agent" bson:"user_agent" json:"user_agent"`
}
