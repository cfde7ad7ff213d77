package controllers

import (
	"net/http"

	"github.com/centsible/backend/internal/httputil"
	"github.com/centsible/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func RegisterExpenseRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsExpenses)
		r.GET("", GetExpenses)
		r.POST("", CreateExpense)
	}
	{
		r.OPTIONS("/filter", OptionsExpenseFilter)
		r.GET("/filter", GetExpensesFiltered)
	}
	{
		r.OPTIONS("/query", OptionsExpenseQuery)
		r.GET("/query", GetExpensesForMonth)
	}
	{
		r.OPTIONS("/:id", OptionsExpenseDetail)
		r.GET("/:id", GetExpense)
		r.PATCH("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
	}
}

func OptionsExpenses(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsExpenseFilter(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsExpenseQuery(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsExpenseDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Expense{}, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreateExpense creates a new expense for the authenticated account.
func CreateExpense(c *gin.Context) {
	var editable ExpenseEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	expense := editable.model(currentAccountID(c))
	err = models.DB.Create(&expense).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	checkBudgetThresholds(c, expense, expense.Amount)

	apiResource := newExpense(c, expense)
	c.JSON(http.StatusCreated, ExpenseResponse{Data: &apiResource})
}

// GetExpenses returns all expenses of the authenticated account.
func GetExpenses(c *gin.Context) {
	var expenses []models.Expense
	err := models.DB.
		Where("account_id = ?", currentAccountID(c)).
		Order("date(date) DESC").
		Find(&expenses).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Data: data})
}

// GetExpensesFiltered returns the expenses matching the date range and
// category filters. The date range is inclusive at the start and
// exclusive at the end.
func GetExpensesFiltered(c *gin.Context) {
	var filter ExpenseQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{
			Error: &e,
		})
		return
	}

	q := models.DB.
		Where("account_id = ?", currentAccountID(c)).
		Order("date(date) DESC")

	q, err := ledgerFilters(q, filter.StartDate, filter.EndDate, filter.Categories)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &e,
		})
		return
	}

	var expenses []models.Expense
	err = q.Find(&expenses).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Data: data})
}

// GetExpensesForMonth returns the expenses of one calendar month,
// derived from the year and month query parameters. The whole month is
// covered, including records dated late on its last day.
func GetExpensesForMonth(c *gin.Context) {
	month, err := monthFromQuery(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &e,
		})
		return
	}

	var expenses []models.Expense
	err = models.DB.
		Where("account_id = ?", currentAccountID(c)).
		Where("date >= ? AND date < ?", month.First(), month.AddDate(0, 1).First()).
		Order("date(date) DESC").
		Find(&expenses).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Data: data})
}

// GetExpense returns a specific expense.
func GetExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	apiResource := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &apiResource})
}

// UpdateExpense updates an expense. Only values in the request body are
// updated, with the same unset semantics as for incomes.
func UpdateExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}
	previous := expense

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	// A stale custom category must not survive a category change
	updateFields = clearCustomCategory(updateFields, data.Category)

	err = models.DB.Model(&expense).Select("", updateFields...).Updates(data.model(expense.AccountID)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	if expense.Category == previous.Category {
		checkBudgetThresholds(c, expense, expense.Amount.Sub(previous.Amount))
	} else {
		// A category change moves the spending: refresh the old
		// category's budgets with the removal, then the new one with the
		// full amount.
		checkBudgetThresholds(c, previous, previous.Amount.Neg())
		checkBudgetThresholds(c, expense, expense.Amount)
	}

	apiResource := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &apiResource})
}

// DeleteExpense deletes an expense.
func DeleteExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&expense).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	checkBudgetThresholds(c, expense, expense.Amount.Neg())

	c.JSON(http.StatusNoContent, nil)
}

// checkBudgetThresholds emits the threshold events caused by an expense
// write. A failed check never fails the write that triggered it, the
// expense is already persisted at this point.
func checkBudgetThresholds(c *gin.Context, expense models.Expense, delta decimal.Decimal) {
	events, err := models.ThresholdCrossings(models.DB, expense, delta)
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("budget threshold check: %v", err)
		return
	}

	for _, event := range events {
		Notifier.BudgetThreshold(event)
	}
}
