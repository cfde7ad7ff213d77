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

type ExpenseEditable struct {
	Name           string          `json:"name" example:"Weekly groceries" default:""`                                              // Name of the expense
	Date           time.Time       `json:"date" example:"2024-03-04T00:00:00Z"`                                                     // Date of the expense. Defaults to the time of creation
	Category       string          `json:"category" example:"Food"`                                                                 // One of the expense categories
	CustomCategory *string         `json:"customCategory" example:"Beekeeping"`                                                     // Free-form category for expenses in the Other category
	Amount         decimal.Decimal `json:"amount" example:"83.17" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // Amount of the expense
	Note           *string         `json:"note" example:"Includes the birthday cake"`                                               // Note about the expense
	IsRecurring    bool            `json:"isRecurring" example:"false" default:"false"`                                             // Is this a recurring expense template?
}

// model returns the database resource for the API representation of the
// editable fields. The account is always the authenticated one.
func (editable ExpenseEditable) model(accountID uuid.UUID) models.Expense {
	return models.Expense{
		AccountID:      accountID,
		Name:           editable.Name,
		Date:           editable.Date,
		Category:       editable.Category,
		CustomCategory: editable.CustomCategory,
		Amount:         editable.Amount,
		Note:           editable.Note,
		IsRecurring:    editable.IsRecurring,
	}
}

type ExpenseLinks struct {
	Self string `json:"self" example:"https://example.com/api/expenses/5070dbab-4278-4a7a-953e-ba3dcd84e384"` // The expense itself
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Links ExpenseLinks `json:"links"`
}

// newExpense returns the API representation of the resource
func newExpense(c *gin.Context, model models.Expense) Expense {
	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			Name:           model.Name,
			Date:           model.Date,
			Category:       model.Category,
			CustomCategory: model.CustomCategory,
			Amount:         model.Amount,
			Note:           model.Note,
			IsRecurring:    model.IsRecurring,
		},
		Links: ExpenseLinks{
			Self: fmt.Sprintf("%s/api/expenses/%s", httputil.RequestHost(c), model.ID),
		},
	}
}

type ExpenseResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Expense `json:"data"`                                                          // The resource
}

type ExpenseListResponse struct {
	Data  []Expense `json:"data"`                                                          // List of resources
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ExpenseQueryFilter struct {
	StartDate  string `form:"startDate"`  // Expenses on or after this date
	EndDate    string `form:"endDate"`    // Expenses strictly before this date
	Categories string `form:"categories"` // Comma-separated set of categories
}
