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

type IncomeEditable struct {
	Name           string          `json:"name" example:"March salary" default:""`                                                  // Name of the income
	Date           time.Time       `json:"date" example:"2024-03-01T00:00:00Z"`                                                     // Date of the income. Defaults to the time of creation
	Category       string          `json:"category" example:"Salary"`                                                               // One of the income categories
	CustomCategory *string         `json:"customCategory" example:"Garage sale"`                                                    // Free-form category, required when category is Other
	Amount         decimal.Decimal `json:"amount" example:"2500" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // Amount of the income
	Note           *string         `json:"note" example:"Includes the yearly bonus"`                                                // Note about the income
	IsRecurring    bool            `json:"isRecurring" example:"true" default:"false"`                                              // Is this a recurring income template?
}

// model returns the database resource for the API representation of the
// editable fields. The account is always the authenticated one.
func (editable IncomeEditable) model(accountID uuid.UUID) models.Income {
	return models.Income{
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

type IncomeLinks struct {
	Self string `json:"self" example:"https://example.com/api/incomes/d1b7fe7e-9a91-4f6e-9a1e-66f0a6d0bd15"` // The income itself
}

type Income struct {
	models.DefaultModel
	IncomeEditable
	Links IncomeLinks `json:"links"`
}

// newIncome returns the API representation of the resource
func newIncome(c *gin.Context, model models.Income) Income {
	return Income{
		DefaultModel: model.DefaultModel,
		IncomeEditable: IncomeEditable{
			Name:           model.Name,
			Date:           model.Date,
			Category:       model.Category,
			CustomCategory: model.CustomCategory,
			Amount:         model.Amount,
			Note:           model.Note,
			IsRecurring:    model.IsRecurring,
		},
		Links: IncomeLinks{
			Self: fmt.Sprintf("%s/api/incomes/%s", httputil.RequestHost(c), model.ID),
		},
	}
}

type IncomeResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Income `json:"data"`                                                          // The resource
}

type IncomeListResponse struct {
	Data  []Income `json:"data"`                                                          // List of resources
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type IncomeQueryFilter struct {
	StartDate  string `form:"startDate"`  // Incomes on or after this date
	EndDate    string `form:"endDate"`    // Incomes strictly before this date
	Categories string `form:"categories"` // Comma-separated set of categories
}
