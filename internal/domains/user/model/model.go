package model

import (
	"rento/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	// EmailConstraint is the unique constraint guarding registration races.
	EmailConstraint = "users_email_key"

	FieldID           = "id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldLevel        = "level"
	FieldFullName     = "full_name"
	FieldPhone        = "phone"
	FieldProfileImage = "profile_image"
	FieldPushToken    = "push_token"
	FieldIsVerified   = "is_verified"
	FieldLastLogin    = "last_login"
	FieldActive       = "active"
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	Password     string     `db:"password"`
	Level        string     `db:"level"`
	FullName     *string    `db:"full_name"`
	Phone        *string    `db:"phone"`
	ProfileImage *string    `db:"profile_image"`
	PushToken    *string    `db:"push_token"`
	IsVerified   bool       `db:"is_verified"`
	LastLogin    *time.Time `db:"last_login"`
	Active       bool       `db:"active"`
	model.Metadata
}

// DisplayName is the name shown to the other party of a booking.
func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}

	return u.Email
}
