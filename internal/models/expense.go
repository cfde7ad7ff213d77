package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// ExpenseCategories is the closed set of categories for expense records.
// It deliberately differs from IncomeCategories.
var ExpenseCategories = []string{
	"Food",
	"Housing",
	"Transportation",
	"Utilities",
	"Healthcare",
	"Entertainment",
	"Shopping",
	"Education",
	CategoryOther,
}

// Expense is money leaving an account.
type Expense struct {
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
func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	if e.Note != nil && strings.TrimSpace(*e.Note) == "" {
		e.Note = nil
	}

	return nil
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	// The receiver, not tx.Statement.Dest: batch inserts pass the whole
	// slice as dest, the hook runs once per record.
	return tx.First(&Account{}, e.AccountID).Error
}

// AfterSave validates the record on the merged state.
func (e *Expense) AfterSave(_ *gorm.DB) error {
	if !slices.Contains(ExpenseCategories, e.Category) {
		return ErrCategoryInvalid
	}

	if e.Amount.IsNegative() {
		return ErrAmountNegative
	}

	return nil
}

// AfterFind updates the date to use UTC as timezone, not +0000.
func (e *Expense) AfterFind(_ *gorm.DB) error {
	e.Date = e.Date.In(time.UTC)
	return nil
}

// CategorySums returns the summed amounts per category for one ledger
// table of an account, limited to dates in [from, until).
//
// The table parameter must be "incomes" or "expenses", it is never user
// input.
func CategorySums(db *gorm.DB, table string, accountID uuid.UUID, from, until time.Time) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Category string
		Sum      decimal.Decimal
	}

	// db.Table skips gorm's soft delete scope, the filter has to be
	// explicit here
	q := db.Table(table).
		Select("category, SUM(amount) as sum").
		Where("account_id = ?", accountID).
		Where("deleted_at IS NULL").
		Group("category")

	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}

	if !until.IsZero() {
		q = q.Where("date < ?", until)
	}

	err := q.Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Category] = row.Sum
	}

	return sums, nil
}
