package controllers

import (
	"net/http"

	"github.com/centsible/backend/internal/httputil"
	"github.com/centsible/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterBudgetRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsBudgets)
		r.GET("", GetBudgets)
		r.POST("", CreateBudget)
	}
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)
		r.PATCH("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
	}
}

func OptionsBudgets(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsBudgetDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Budget{}, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreateBudget creates a new budget with its allocations.
func CreateBudget(c *gin.Context) {
	var editable BudgetEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	budget := editable.model(currentAccountID(c))
	err = models.DB.Create(&budget).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBudget(c, budget)
	c.JSON(http.StatusCreated, BudgetResponse{Data: &apiResource})
}

// GetBudgets returns the budgets of the authenticated account. The from
// and until parameters select budgets whose period overlaps the given
// range.
func GetBudgets(c *gin.Context) {
	var filter BudgetQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetListResponse{
			Error: &e,
		})
		return
	}

	// Field filters only apply when their parameter is present, so that
	// an empty status does not filter for the zero value
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Preload("Categories").
		Where("account_id = ?", currentAccountID(c)).
		Where(filter.model(), queryFields...).
		Order("date(start_date) DESC")

	if filter.From != "" {
		from, err := parseDate(filter.From)
		if err != nil {
			e := errInvalidDate.Error()
			c.JSON(status(errInvalidDate), BudgetListResponse{
				Error: &e,
			})
			return
		}
		q = q.Where("end_date >= ?", from)
	}

	if filter.Until != "" {
		until, err := parseDate(filter.Until)
		if err != nil {
			e := errInvalidDate.Error()
			c.JSON(status(errInvalidDate), BudgetListResponse{
				Error: &e,
			})
			return
		}
		q = q.Where("start_date <= ?", until)
	}

	var budgets []models.Budget
	err := q.Find(&budgets).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Budget, 0, len(budgets))
	for _, budget := range budgets {
		data = append(data, newBudget(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: data})
}

// GetBudget returns a specific budget with its progress.
//
// Progress is always recomputed from the expense table so that it
// reflects the latest ledger state.
func GetBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	var budget models.Budget
	err = models.DB.
		Preload("Categories").
		First(&budget, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	progress, err := budget.Progress(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBudget(c, budget)
	apiResource.Progress = progress
	c.JSON(http.StatusOK, BudgetResponse{Data: &apiResource})
}

// UpdateBudget updates a budget. Only values in the request body are
// updated. When the body contains a categories list, the allocations
// are replaced as a whole.
func UpdateBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	var budget models.Budget
	err = models.DB.
		Preload("Categories").
		First(&budget, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	var data BudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	// Allocations are replaced explicitly, not merged field by field
	scalarFields := make([]any, 0, len(updateFields))
	replaceAllocations := false
	for _, field := range updateFields {
		if field == "Categories" {
			replaceAllocations = true
			continue
		}
		scalarFields = append(scalarFields, field)
	}

	if replaceAllocations {
		for _, allocation := range data.Categories {
			if allocation.Allocated.IsNegative() {
				e := models.ErrAllocationAmountNegative.Error()
				c.JSON(status(models.ErrAllocationAmountNegative), BudgetResponse{
					Error: &e,
				})
				return
			}
		}
	}

	update := data.model(budget.AccountID)
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(scalarFields) > 0 {
			if err := tx.Model(&budget).Select("", scalarFields...).Updates(update).Error; err != nil {
				return err
			}
		}

		if replaceAllocations {
			if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetCategory{}).Error; err != nil {
				return err
			}

			for i := range update.Categories {
				update.Categories[i].BudgetID = budget.ID
				if err := tx.Create(&update.Categories[i]).Error; err != nil {
					return err
				}
			}
			budget.Categories = update.Categories
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &apiResource})
}

// DeleteBudget deletes a budget and its allocations.
func DeleteBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var budget models.Budget
	err = models.DB.First(&budget, "id = ? AND account_id = ?", uri.ID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Select("Categories").Delete(&budget).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
