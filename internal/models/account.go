package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordUnusable is the sentinel stored instead of a hash for accounts
// created through a federated login provider. It can never match a
// bcrypt hash, so password login is impossible for these accounts.
const PasswordUnusable = "!"

// MaxPasswordHistory is the number of prior password hashes kept for
// reuse prevention.
const MaxPasswordHistory = 5

// Account is the financial identity of a user. It owns all ledger,
// budget and goal records and carries the credential material.
type Account struct {
	DefaultModel
	User         User      `json:"-"`
	UserID       uuid.UUID `gorm:"uniqueIndex"`
	PasswordHash string    `json:"-"`
	Status       Status    `gorm:"default:Active"`
}

// PasswordHistory is a prior password hash of an account. At most
// MaxPasswordHistory rows are kept per account, newest first.
type PasswordHistory struct {
	DefaultModel
	Account   Account   `json:"-"`
	AccountID uuid.UUID `gorm:"index"`
	Hash      string    `json:"-"`
}

var ErrAccountNotActive = errors.New("this account is not active")

func (a *Account) BeforeSave(_ *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusActive
	}

	if !a.Status.Valid() {
		return ErrStatusInvalid
	}

	return nil
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	return tx.First(&User{}, a.UserID).Error
}

// RecentPasswordHashes returns the stored prior hashes for the account,
// newest first.
func (a Account) RecentPasswordHashes(db *gorm.DB) ([]string, error) {
	var history []PasswordHistory
	err := db.
		Where(&PasswordHistory{AccountID: a.ID}).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(history))
	for _, h := range history {
		hashes = append(hashes, h.Hash)
	}

	return hashes, nil
}

// RotatePassword replaces the account's password hash. The previous hash
// is pushed into the history and the history is trimmed to the
// MaxPasswordHistory newest entries, all in one transaction.
func (a *Account) RotatePassword(db *gorm.DB, newHash string) error {
	oldHash := a.PasswordHash

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(a).Update("password_hash", newHash).Error
		if err != nil {
			return err
		}

		if oldHash != "" && oldHash != PasswordUnusable {
			err = tx.Create(&PasswordHistory{AccountID: a.ID, Hash: oldHash}).Error
			if err != nil {
				return err
			}
		}

		// Trim everything beyond the newest MaxPasswordHistory entries
		return tx.Exec(
			`DELETE FROM password_histories WHERE account_id = ? AND id NOT IN
				(SELECT id FROM password_histories WHERE account_id = ?
				 ORDER BY created_at DESC LIMIT ?)`,
			a.ID, a.ID, MaxPasswordHistory).Error
	})
}
