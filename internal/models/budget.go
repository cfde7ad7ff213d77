package models

import (
	"strings"
	"time"

	"github.com/centsible/backend/internal/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a per-account spending plan: a total amount and per-category
// allocations for a date range.
type Budget struct {
	DefaultModel
	Account     Account   `json:"-"`
	AccountID   uuid.UUID `gorm:"index"`
	Name        string
	TotalAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	StartDate   time.Time
	EndDate     time.Time
	Status      Status `gorm:"default:Active"`
	Currency    string
	Categories  []BudgetCategory `gorm:"constraint:OnDelete:CASCADE"`
}

// BudgetCategory is one allocation line of a budget.
//
// SpentAmount is a cache that is refreshed on expense writes. It is
// never authoritative, progress is always recomputed from the expense
// table on read.
type BudgetCategory struct {
	DefaultModel
	Budget      Budget    `json:"-"`
	BudgetID    uuid.UUID `gorm:"index"`
	Category    string
	Allocated   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	SpentAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Currency = strings.TrimSpace(b.Currency)

	if b.Status == "" {
		b.Status = StatusActive
	}

	return nil
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	return tx.First(&Account{}, b.AccountID).Error
}

// AfterSave validates the merged state.
func (b *Budget) AfterSave(_ *gorm.DB) error {
	if !b.Status.Valid() {
		return ErrStatusInvalid
	}

	if b.TotalAmount.IsNegative() {
		return ErrAmountNegative
	}

	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return ErrDateRangeInvalid
	}

	for _, category := range b.Categories {
		if category.Allocated.IsNegative() {
			return ErrAllocationAmountNegative
		}
	}

	return nil
}

// CategoryProgress is the freshly computed progress of one allocation.
type CategoryProgress struct {
	Category       string          `json:"category"`
	Allocated      decimal.Decimal `json:"allocated"`
	Spent          decimal.Decimal `json:"spent"`
	PercentageUsed float64         `json:"percentageUsed"` // clamped at 100 for display, Spent is not
}

// Progress recomputes the spending per allocation line from the expense
// table. The SpentAmount cache is deliberately ignored so that progress
// always reflects the latest ledger state.
func (b Budget) Progress(db *gorm.DB) ([]CategoryProgress, error) {
	spent, err := b.spentPerCategory(db)
	if err != nil {
		return nil, err
	}

	progress := make([]CategoryProgress, 0, len(b.Categories))
	for _, allocation := range b.Categories {
		sum := spent[allocation.Category]

		progress = append(progress, CategoryProgress{
			Category:       allocation.Category,
			Allocated:      allocation.Allocated,
			Spent:          sum,
			PercentageUsed: displayPercentage(sum, allocation.Allocated),
		})
	}

	return progress, nil
}

// spentPerCategory sums the account's expenses per category, limited to
// the budget's own date range and to the categories the budget
// allocates.
func (b Budget) spentPerCategory(db *gorm.DB) (map[string]decimal.Decimal, error) {
	categories := make([]string, 0, len(b.Categories))
	for _, allocation := range b.Categories {
		categories = append(categories, allocation.Category)
	}

	if len(categories) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	var rows []struct {
		Category string
		Sum      decimal.Decimal
	}

	err := db.Table("expenses").
		Select("category, SUM(amount) as sum").
		Where("account_id = ?", b.AccountID).
		Where("date >= ? AND date <= ?", b.StartDate, b.EndDate).
		Where("category IN ?", categories).
		Where("deleted_at IS NULL").
		Group("category").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		spent[row.Category] = row.Sum
	}

	return spent, nil
}

// displayPercentage returns spent/allocated in percent, clamped at 100.
func displayPercentage(spent, allocated decimal.Decimal) float64 {
	if !allocated.IsPositive() {
		return 0
	}

	percentage, _ := spent.Div(allocated).Mul(decimal.NewFromInt(100)).Float64()
	if percentage > 100 {
		return 100
	}

	return percentage
}

var thresholds = []struct {
	ratio decimal.Decimal
	level notify.Level
}{
	{decimal.NewFromFloat(0.9), notify.LevelWarning},
	{decimal.NewFromInt(1), notify.LevelCritical},
}

// ThresholdCrossings inspects all active budgets touched by an expense
// write and returns one event per threshold the write crossed. delta is
// the amount the write added to the category (negative for deletes and
// downward updates).
//
// The SpentAmount cache of the touched allocation lines is refreshed as
// a side effect.
func ThresholdCrossings(db *gorm.DB, expense Expense, delta decimal.Decimal) ([]notify.BudgetEvent, error) {
	var budgets []Budget
	err := db.
		Preload("Categories").
		Where(&Budget{AccountID: expense.AccountID, Status: StatusActive}).
		Where("start_date <= ? AND end_date >= ?", expense.Date, expense.Date).
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	var events []notify.BudgetEvent
	for _, budget := range budgets {
		for _, allocation := range budget.Categories {
			if allocation.Category != expense.Category || !allocation.Allocated.IsPositive() {
				continue
			}

			spent, err := budget.spentPerCategory(db)
			if err != nil {
				return nil, err
			}

			after := spent[allocation.Category]
			before := after.Sub(delta)

			err = db.Model(&allocation).Update("spent_amount", after).Error
			if err != nil {
				return nil, err
			}

			for _, threshold := range thresholds {
				limit := allocation.Allocated.Mul(threshold.ratio)
				if before.LessThan(limit) && after.GreaterThanOrEqual(limit) {
					events = append(events, notify.BudgetEvent{
						AccountID:  expense.AccountID,
						BudgetID:   budget.ID,
						BudgetName: budget.Name,
						Category:   allocation.Category,
						Level:      threshold.level,
						Spent:      after,
						Allocated:  allocation.Allocated,
					})
				}
			}
		}
	}

	return events, nil
}
