package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// CategoryOther is the escape hatch in both category enumerations. For
// incomes it requires a custom category and a note to be set.
const CategoryOther = "Other"

// IncomeCategories is the closed set of categories for income records.
var IncomeCategories = []string{
	"Salary",
	"Business",
	"Investments",
	"Freelance",
	"Gifts",
	CategoryOther,
}

// Income is money coming into an account.
type Income struct {
	DefaultModel
	Account        Account   `json:"-"`
	AccountID      uuid.UUID `gorm:"index"`
	Name           string
	Date           time.Time
	Category       string
	CustomCategory *string
	Amount         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Note           *string
	IsRecurring    bool
}

// BeforeSave trims strings and defaults the date to the time of
// submission. A note consisting only of whitespace is stored as NULL,
// not as an empty string.
func (i *Income) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)

	if i.Date.IsZero() {
		i.Date = time.Now().In(time.UTC)
	} else {
		i.Date = i.Date.In(time.UTC)
	}

	if i.Note != nil && strings.TrimSpace(*i.Note) == "" {
		i.Note = nil
	}

	return nil
}

func (i *Income) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	// The receiver, not tx.Statement.Dest: batch inserts pass the whole
	// slice as dest, the hook runs once per record.
	return tx.First(&Account{}, i.AccountID).Error
}

// AfterSave validates the record. Running after the save sees the merged
// state for partial updates; an error rolls the write back.
func (i *Income) AfterSave(_ *gorm.DB) error {
	if !slices.Contains(IncomeCategories, i.Category) {
		return ErrCategoryInvalid
	}

	if i.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if i.Category == CategoryOther {
		if i.CustomCategory == nil || strings.TrimSpace(*i.CustomCategory) == "" {
			return ErrCustomCategoryRequired
		}

		if i.Note == nil || strings.TrimSpace(*i.Note) == "" {
			return ErrNoteRequiredForOther
		}
	}

	return nil
}

// AfterFind updates the date to use UTC as timezone, not +0000.
func (i *Income) AfterFind(_ *gorm.DB) error {
	i.Date = i.Date.In(time.UTC)
	return nil
}
