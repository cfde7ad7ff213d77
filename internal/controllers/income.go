package controllers

import (
	"net/http"
	"time"

	"github.com/centsible/backend/internal/httputil"
	"github.com/centsible/backend/internal/models"
	"github.com/centsible/backend/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterIncomeRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsIncomes)
		r.GET("", GetIncomes)
		r.POST("", CreateIncome)
	}
	{
		r.OPTIONS("/filter", OptionsIncomeFilter)
		r.GET("/filter", GetIncomesFiltered)
	}
	{
		r.OPTIONS("/query", OptionsIncomeQuery)
		r.GET("/query", GetIncomesForMonth)
	}
	{
		r.OPTIONS("/:id", OptionsIncomeDetail)
		r.GET("/:id", GetIncome)
		r.PATCH("/:id", UpdateIncome)
		r.DELETE("/:id", DeleteIncome)
	}
}

func OptionsIncomes(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsIncomeFilter(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsIncomeQuery(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsIncomeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Income{}, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreateIncome creates a new income for the authenticated account.
func CreateIncome(c *gin.Context) {
	var editable IncomeEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	income := editable.model(currentAccountID(c))
	err = models.DB.Create(&income).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	apiResource := newIncome(c, income)
	c.JSON(http.StatusCreated, IncomeResponse{Data: &apiResource})
}

// GetIncomes returns all incomes of the authenticated account.
func GetIncomes(c *gin.Context) {
	var incomes []models.Income
	err := models.DB.
		Where("account_id = ?", currentAccountID(c)).
		Order("date(date) DESC").
		Find(&incomes).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Income, 0, len(incomes))
	for _, income := range incomes {
		data = append(data, newIncome(c, income))
	}

	c.JSON(http.StatusOK, IncomeListResponse{Data: data})
}

// GetIncomesFiltered returns the incomes matching the date range and
// category filters. The date range is inclusive at the start and
// exclusive at the end.
func GetIncomesFiltered(c *gin.Context) {
	var filter IncomeQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, IncomeListResponse{
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
		c.JSON(status(err), IncomeListResponse{
			Error: &e,
		})
		return
	}

	var incomes []models.Income
	err = q.Find(&incomes).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Income, 0, len(incomes))
	for _, income := range incomes {
		data = append(data, newIncome(c, income))
	}

	c.JSON(http.StatusOK, IncomeListResponse{Data: data})
}

// GetIncomesForMonth returns the incomes of one calendar month, derived
// from the year and month query parameters. The whole month is covered,
// including records dated late on its last day.
func GetIncomesForMonth(c *gin.Context) {
	month, err := monthFromQuery(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeListResponse{
			Error: &e,
		})
		return
	}

	var incomes []models.Income
	err = models.DB.
		Where("account_id = ?", currentAccountID(c)).
		Where("date >= ? AND date < ?", month.First(), month.AddDate(0, 1).First()).
		Order("date(date) DESC").
		Find(&incomes).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Income, 0, len(incomes))
	for _, income := range incomes {
		data = append(data, newIncome(c, income))
	}

	c.JSON(http.StatusOK, IncomeListResponse{Data: data})
}

// GetIncome returns a specific income.
func GetIncome(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	var income models.Income
	err = models.DB.First(&income, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	apiResource := newIncome(c, income)
	c.JSON(http.StatusOK, IncomeResponse{Data: &apiResource})
}

// UpdateIncome updates an income. Only values in the request body are
// updated. Setting the note to an empty value unsets it, and moving the
// category away from Other clears the custom category.
func UpdateIncome(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	var income models.Income
	err = models.DB.First(&income, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, IncomeEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	var data IncomeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	// A stale custom category must not survive a category change
	updateFields = clearCustomCategory(updateFields, data.Category)

	err = models.DB.Model(&income).Select("", updateFields...).Updates(data.model(income.AccountID)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{
			Error: &e,
		})
		return
	}

	apiResource := newIncome(c, income)
	c.JSON(http.StatusOK, IncomeResponse{Data: &apiResource})
}

// DeleteIncome deletes an income.
func DeleteIncome(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var income models.Income
	err = models.DB.First(&income, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&income).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// ledgerFilters applies the shared /filter query parameters to a ledger
// query. Dates form the range [startDate, endDate).
func ledgerFilters(q *gorm.DB, startDate, endDate, categories string) (*gorm.DB, error) {
	if startDate != "" {
		start, err := parseDate(startDate)
		if err != nil {
			return nil, errInvalidDate
		}
		q = q.Where("date >= ?", start)
	}

	if endDate != "" {
		end, err := parseDate(endDate)
		if err != nil {
			return nil, errInvalidDate
		}
		q = q.Where("date < ?", end)
	}

	if categories != "" {
		q = q.Where("category IN ?", splitCategories(categories))
	}

	return q, nil
}

// monthFromQuery derives the month from the year and month query
// parameters.
func monthFromQuery(c *gin.Context) (types.Month, error) {
	var query struct {
		Year  int `form:"year"`
		Month int `form:"month"`
	}

	if err := c.Bind(&query); err != nil {
		return types.Month{}, errInvalidYearMonth
	}

	if query.Year == 0 && query.Month == 0 {
		return types.Month{}, errYearMonthRequired
	}

	if query.Year < 1 || query.Month < 1 || query.Month > 12 {
		return types.Month{}, errInvalidYearMonth
	}

	return types.NewMonth(query.Year, time.Month(query.Month)), nil
}

// clearCustomCategory adds the custom category to the updated fields
// when the category moves away from Other, so that the column is set to
// NULL instead of keeping a stale value.
func clearCustomCategory(fields []any, category string) []any {
	categoryChanges := false
	for _, field := range fields {
		if field == "Category" {
			categoryChanges = true
		}
	}

	if !categoryChanges || category == models.CategoryOther {
		return fields
	}

	for _, field := range fields {
		if field == "CustomCategory" {
			return fields
		}
	}

	return append(fields, "CustomCategory")
}
