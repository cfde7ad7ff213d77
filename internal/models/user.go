package models

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// User is the profile identity of a person using Centsible.
//
// Credential material does not live here, it belongs to the Account
// that is paired with the user.
type User struct {
	DefaultModel
	Nickname            string
	Email               string `gorm:"uniqueIndex"`
	Verified            bool
	VerificationToken   string     `json:"-"`
	VerificationExpires *time.Time `json:"-"`
	Phone               string
	Language            string // BCP 47 language tag, e.g. "en" or "de-AT"
	ProviderID          string // Identity at a federated login provider, empty for password users
}

// BeforeSave trims whitespace and verifies the preferred language.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Nickname = strings.TrimSpace(u.Nickname)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Phone = strings.TrimSpace(u.Phone)

	if u.Language != "" {
		tag, err := language.Parse(u.Language)
		if err != nil {
			return ErrLanguageInvalid
		}
		u.Language = tag.String()
	}

	return nil
}
