package controllers

import (
	"fmt"
	"time"

	"github.com/centsible/backend/internal/httputil"
	"github.com/centsible/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetAllocationEditable struct {
	Category  string          `json:"category" example:"Food"`                                                                  // One of the expense categories
	Allocated decimal.Decimal `json:"allocated" example:"400" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // Amount allocated to the category
}

type BudgetEditable struct {
	Name        string                     `json:"name" example:"March essentials" default:""`                                                // Name of the budget
	TotalAmount decimal.Decimal            `json:"totalAmount" example:"1200" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // Total amount planned for the period
	StartDate   time.Time                  `json:"startDate" example:"2024-03-01T00:00:00Z"`                                                  // First day of the budget period
	EndDate     time.Time                  `json:"endDate" example:"2024-03-31T00:00:00Z"`                                                    // Last day of the budget period
	Status      string                     `json:"status" example:"Active" default:"Active"`                                                  // One of Active, Closed, Frozen
	Currency    string                     `json:"currency" example:"EUR"`                                                                    // Currency the amounts are in
	Categories  []BudgetAllocationEditable `json:"categories"`                                                                                // Per-category allocations
}

// model returns the database resource for the API representation of the
// editable fields. The account is always the authenticated one.
func (editable BudgetEditable) model(accountID uuid.UUID) models.Budget {
	categories := make([]models.BudgetCategory, 0, len(editable.Categories))
	for _, allocation := range editable.Categories {
		categories = append(categories, models.BudgetCategory{
			Category:  allocation.Category,
			Allocated: allocation.Allocated,
		})
	}

	return models.Budget{
		AccountID:   accountID,
		Name:        editable.Name,
		TotalAmount: editable.TotalAmount,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
		Status:      models.Status(editable.Status),
		Currency:    editable.Currency,
		Categories:  categories,
	}
}

type BudgetLinks struct {
	Self string `json:"self" example:"https://example.com/api/budgets/8d1c6d4e-9b6e-4b9c-8f5a-9c7e1d3b6a0f"` // The budget itself
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	Progress []models.CategoryProgress `json:"progress,omitempty"` // Freshly computed spending per allocation, only on the detail endpoint
	Links    BudgetLinks               `json:"links"`
}

// newBudget returns the API representation of the resource
func newBudget(c *gin.Context, model models.Budget) Budget {
	categories := make([]BudgetAllocationEditable, 0, len(model.Categories))
	for _, allocation := range model.Categories {
		categories = append(categories, BudgetAllocationEditable{
			Category:  allocation.Category,
			Allocated: allocation.Allocated,
		})
	}

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Name:        model.Name,
			TotalAmount: model.TotalAmount,
			StartDate:   model.StartDate,
			EndDate:     model.EndDate,
			Status:      string(model.Status),
			Currency:    model.Currency,
			Categories:  categories,
		},
		Links: BudgetLinks{
			Self: fmt.Sprintf("%s/api/budgets/%s", httputil.RequestHost(c), model.ID),
		},
	}
}

type BudgetResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Budget `json:"data"`                                                          // The resource
}

type BudgetListResponse struct {
	Data  []Budget `json:"data"`                                                          // List of resources
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetQueryFilter struct {
	Name     string `form:"name"`                      // Budgets with this exact name
	From     string `form:"from" filterField:"false"`  // Budgets whose period ends on or after this date
	Until    string `form:"until" filterField:"false"` // Budgets whose period starts on or before this date
	Status   string `form:"status"`                    // Filter by status
	Currency string `form:"currency"`                  // Filter by currency
}

// model returns the budget fields a filter maps onto directly. The date
// range is handled by the controller.
func (f BudgetQueryFilter) model() models.Budget {
	return models.Budget{
		Name:     f.Name,
		Status:   models.Status(f.Status),
		Currency: f.Currency,
	}
}
