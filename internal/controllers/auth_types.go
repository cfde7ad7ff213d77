package controllers

import (
	"github.com/centsible/backend/internal/models"
)

type RegisterRequest struct {
	Nickname string `json:"nickname" example:"moneypenny"`            // Display name of the user
	Email    string `json:"email" example:"moneypenny@example.com"`   // Email address, globally unique
	Password string `json:"password" example:"correct horse battery"` // Password, at least 8 characters
	Phone    string `json:"phone" example:"+4930123456"`              // Phone number, optional
	Language string `json:"language" example:"de-AT"`                 // Preferred language as BCP 47 tag, optional
}

type LoginRequest struct {
	Email    string `json:"email" example:"moneypenny@example.com"`   // Email address
	Password string `json:"password" example:"correct horse battery"` // Password
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"` // The password used so far
	NewPassword     string `json:"newPassword"`     // The new password, at least 8 characters
}

type VerifyEmailQuery struct {
	Token string `form:"token" binding:"required"` // Verification token from the email
	ID    string `form:"id" binding:"required"`    // ID of the user to verify
}

// User is the API representation of a user. Credential material is
// never part of it.
type User struct {
	models.DefaultModel
	Nickname string `json:"nickname" example:"moneypenny"`
	Email    string `json:"email" example:"moneypenny@example.com"`
	Verified bool   `json:"verified" example:"true"`
	Phone    string `json:"phone" example:"+4930123456"`
	Language string `json:"language" example:"de-AT"`
}

// newUser returns the API representation of the resource
func newUser(model models.User) User {
	return User{
		DefaultModel: model.DefaultModel,
		Nickname:     model.Nickname,
		Email:        model.Email,
		Verified:     model.Verified,
		Phone:        model.Phone,
		Language:     model.Language,
	}
}

type UserResponse struct {
	Error *string `json:"error" example:"this email address is already registered"` // The error, if any occurred
	Data  *User   `json:"data"`                                                     // The resource
}

type LoginResponse struct {
	Error *string `json:"error" example:"the email or password is not correct"` // The error, if any occurred
	Token string  `json:"token,omitempty"`                                      // The session token, also set as cookie
	Data  *User   `json:"data"`                                                 // The authenticated user
}

// AccountInfo is the API representation of the caller's account.
type AccountInfo struct {
	models.DefaultModel
	Status string `json:"status" example:"Active"`
	User   User   `json:"user"`
}

type AccountResponse struct {
	Error *string      `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
	Data  *AccountInfo `json:"data"`                                                                // The resource
}
