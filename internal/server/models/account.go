// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered player or administrator.
// SecretHash never leaves the service layer.
type Account struct {
	ID         int64
	Email      string
	SecretHash string
	IsAdmin    bool
	CreatedAt  time.Time
}

// AdminConfigID is the only id the admin_config table accepts.
const AdminConfigID = 1

// AdminConfig is the singleton row holding the admin key hash.
type AdminConfig struct {
	ID           int16
	AdminKeyHash string
	UpdatedAt    time.Time
}
