// Package models defines server-side data models persisted by the
// repositories.
package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the name used to greet the user in notifications.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// UserUpdate carries the profile fields to change; nil means unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
}
