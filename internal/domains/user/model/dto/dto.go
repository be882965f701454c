package dto

import (
	"rento/internal/domains/user/model"
	"rento/shared"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/timezone"
)

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Level        string  `json:"level"`
	FullName     *string `json:"full_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	IsVerified   bool    `json:"is_verified"`
	LastLogin    *string `json:"last_login,omitempty"`
	Active       bool    `json:"active"`
	PushEnabled  bool    `json:"push_enabled"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.ProfileImage = model.ProfileImage
	r.IsVerified = model.IsVerified
	r.Active = model.Active
	r.PushEnabled = model.PushToken != nil && *model.PushToken != ""
	r.Metadata.FromModel(model.Metadata)

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}
}

// PublicProfileResponse is what the counterparty of a booking may see.
type PublicProfileResponse struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	ProfileImage *string `json:"profile_image,omitempty"`
	IsVerified   bool    `json:"is_verified"`
}

func (r *PublicProfileResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.FullName = model.DisplayName()
	r.ProfileImage = model.ProfileImage
	r.IsVerified = model.IsVerified
}

type UpdateProfileRequest struct {
	FullName     *string `db:"full_name"     json:"full_name,omitempty"     validate:"omitempty,min=2,max=100"`
	Phone        *string `db:"phone"         json:"phone,omitempty"         validate:"omitempty,e164"`
	ProfileImage *string `db:"profile_image" json:"profile_image,omitempty" validate:"omitempty,url"`
}

// UpdateUserRequest is the admin moderation payload.
type UpdateUserRequest struct {
	Level      *string `db:"level"       json:"level,omitempty"       validate:"omitempty,oneof=admin user"`
	IsVerified *bool   `db:"is_verified" json:"is_verified,omitempty"`
	Active     *bool   `db:"active"      json:"active,omitempty"`
}

type RegisterPushTokenRequest struct {
	Token string `db:"push_token" json:"token" validate:"required,max=512"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
