package controllers

import (
	"net/http"
	"time"

	"github.com/centsible/backend/internal/httputil"
	"github.com/centsible/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func RegisterTransactionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/categories", OptionsTransactionCategories)
		r.GET("/categories", GetTransactionCategories)
	}
	{
		r.OPTIONS("/summary", OptionsTransactionSummary)
		r.GET("/summary", GetTransactionSummary)
	}
}

func OptionsTransactionCategories(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsTransactionSummary(c *gin.Context) {
	httputil.OptionsGet(c)
}

type TransactionRangeFilter struct {
	StartDate string `form:"startDate"` // Transactions on or after this date
	EndDate   string `form:"endDate"`   // Transactions strictly before this date
}

type CategorySummaryResponse struct {
	Error *string          `json:"error" example:"a date in the query string could not be parsed"` // The error, if any occurred
	Data  *CategorySummary `json:"data"`                                                           // The resource
}

type CategorySummary struct {
	Incomes  map[string]decimal.Decimal `json:"incomes"`  // Summed income per category
	Expenses map[string]decimal.Decimal `json:"expenses"` // Summed expenses per category
}

type TransactionSummaryResponse struct {
	Error *string             `json:"error" example:"a date in the query string could not be parsed"` // The error, if any occurred
	Data  *TransactionSummary `json:"data"`                                                           // The resource
}

type TransactionSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome" example:"2500"`  // Summed income in the range
	TotalExpense decimal.Decimal `json:"totalExpense" example:"1834"` // Summed expenses in the range
	Balance      decimal.Decimal `json:"balance" example:"666"`       // Income minus expenses
}

// GetTransactionCategories returns the per-category sums of both ledger
// sides. The two tables are queried concurrently and joined in memory.
// The date range is inclusive at the start and exclusive at the end.
func GetTransactionCategories(c *gin.Context) {
	from, until, err := transactionRange(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategorySummaryResponse{
			Error: &e,
		})
		return
	}

	accountID := currentAccountID(c)

	var incomes, expenses map[string]decimal.Decimal
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		incomes, err = models.CategorySums(models.DB, "incomes", accountID, from, until)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = models.CategorySums(models.DB, "expenses", accountID, from, until)
		return err
	})

	if err := g.Wait(); err != nil {
		e := err.Error()
		c.JSON(status(err), CategorySummaryResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, CategorySummaryResponse{
		Data: &CategorySummary{
			Incomes:  incomes,
			Expenses: expenses,
		},
	})
}

// GetTransactionSummary returns the income, expense and balance totals
// of the account for the date range.
func GetTransactionSummary(c *gin.Context) {
	from, until, err := transactionRange(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSummaryResponse{
			Error: &e,
		})
		return
	}

	accountID := currentAccountID(c)

	var incomes, expenses map[string]decimal.Decimal
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		incomes, err = models.CategorySums(models.DB, "incomes", accountID, from, until)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = models.CategorySums(models.DB, "expenses", accountID, from, until)
		return err
	})

	if err := g.Wait(); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionSummaryResponse{
			Error: &e,
		})
		return
	}

	summary := TransactionSummary{}
	for _, sum := range incomes {
		summary.TotalIncome = summary.TotalIncome.Add(sum)
	}
	for _, sum := range expenses {
		summary.TotalExpense = summary.TotalExpense.Add(sum)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	c.JSON(http.StatusOK, TransactionSummaryResponse{Data: &summary})
}

// transactionRange parses the optional date range of the aggregation
// endpoints.
func transactionRange(c *gin.Context) (time.Time, time.Time, error) {
	var filter TransactionRangeFilter
	if err := c.Bind(&filter); err != nil {
		return time.Time{}, time.Time{}, errInvalidDate
	}

	var from, until time.Time
	var err error

	if filter.StartDate != "" {
		from, err = parseDate(filter.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate
		}
	}

	if filter.EndDate != "" {
		until, err = parseDate(filter.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate
		}
	}

	return from, until, nil
}
