package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a savings target of an account.
//
// CurrentSaving is maintained incrementally: every mutation of the
// savings collection adjusts it by the delta inside the same database
// transaction. It must equal the sum of the saving amounts at all times.
type Goal struct {
	DefaultModel
	Account       Account   `json:"-"`
	AccountID     uuid.UUID `gorm:"index"`
	Name          string
	TargetAmount  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CurrentSaving decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	StartDate     time.Time
	TargetDate    time.Time
	Savings       []Saving `gorm:"constraint:OnDelete:CASCADE"`
}

// Saving is one contribution towards a goal. It has no identity outside
// its goal.
type Saving struct {
	DefaultModel
	Goal   Goal      `json:"-"`
	GoalID uuid.UUID `gorm:"index"`
	Name   string
	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date   time.Time
}

func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	return nil
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	_ = g.DefaultModel.BeforeCreate(tx)

	return tx.First(&Account{}, g.AccountID).Error
}

// AfterSave validates the merged state.
func (g *Goal) AfterSave(_ *gorm.DB) error {
	if !g.TargetAmount.IsPositive() {
		return ErrTargetAmountNotPositive
	}

	return nil
}

func (s *Saving) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)

	if s.Date.IsZero() {
		s.Date = time.Now().In(time.UTC)
	} else {
		s.Date = s.Date.In(time.UTC)
	}

	if s.Amount.IsNegative() {
		return ErrSavingAmountNegative
	}

	return nil
}

// AddSaving appends a saving to the goal and adjusts CurrentSaving by
// its amount. Both writes happen in one transaction, and the total is
// adjusted with a database-side increment so that concurrent mutations
// cannot lose updates.
func (g *Goal) AddSaving(db *gorm.DB, saving *Saving) error {
	saving.GoalID = g.ID

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(saving).Error; err != nil {
			return err
		}

		return g.adjustTotal(tx, saving.Amount)
	})
}

// UpdateSaving applies a partial update to a saving of the goal and
// adjusts CurrentSaving by the difference between the new and the old
// amount. fields names the fields present in the request body, name and
// date edits leave the total untouched.
func (g *Goal) UpdateSaving(db *gorm.DB, saving *Saving, update Saving, fields []any) error {
	amountChanged := false
	for _, field := range fields {
		if field == "Amount" {
			amountChanged = true
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// The caller's copy may be stale. The delta has to come from the
		// amount stored at the time of the write, read in the same
		// transaction.
		var stored Saving
		if err := tx.First(&stored, saving.ID).Error; err != nil {
			return err
		}

		if err := tx.Model(saving).Select("", fields...).Updates(update).Error; err != nil {
			return err
		}

		if !amountChanged {
			return nil
		}

		return g.adjustTotal(tx, update.Amount.Sub(stored.Amount))
	})
}

// DeleteSaving removes a saving from the goal and adjusts CurrentSaving
// by the negated amount.
func (g *Goal) DeleteSaving(db *gorm.DB, saving Saving) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&saving).Error; err != nil {
			return err
		}

		return g.adjustTotal(tx, saving.Amount.Neg())
	})
}

func (g *Goal) adjustTotal(tx *gorm.DB, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	// UpdateColumn keeps validation hooks out of a pure counter update
	err := tx.Model(&Goal{}).
		Where("id = ?", g.ID).
		UpdateColumn("current_saving", gorm.Expr("current_saving + ?", delta)).Error
	if err != nil {
		return err
	}

	// Refresh the receiver so callers see the new total
	return tx.First(g, g.ID).Error
}
