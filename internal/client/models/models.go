// Package models holds the client's locally stored records.
package models

import "time"

// Session is the signed-in state kept between client runs.
type Session struct {
	Token     string    `json:"token"`
	AccountID int64     `json:"account_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Round is one submitted guess as recorded on this machine.
type Round struct {
	ID             int64
	CardID         int64
	GuessedType    string
	GuessedLevel   int
	GuessedElement string
	AllCorrect     bool
	CardName       string
	PlayedAt       time.Time
}

// Stats aggregates the local round history.
type Stats struct {
	Played int
	Solved int
}
