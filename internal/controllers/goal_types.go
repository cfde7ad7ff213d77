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

type GoalEditable struct {
	Name         string          `json:"name" example:"New car" default:""`                                                              // Name of the goal
	TargetAmount decimal.Decimal `json:"targetAmount" example:"15000" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // How much money should be saved
	StartDate    time.Time       `json:"startDate" example:"2024-01-01T00:00:00Z"`                                                       // When saving starts
	TargetDate   time.Time       `json:"targetDate" example:"2025-06-30T00:00:00Z"`                                                      // When the goal should be reached
}

// model returns the database resource for the API representation of the
// editable fields. The account is always the authenticated one.
func (editable GoalEditable) model(accountID uuid.UUID) models.Goal {
	return models.Goal{
		AccountID:    accountID,
		Name:         editable.Name,
		TargetAmount: editable.TargetAmount,
		StartDate:    editable.StartDate,
		TargetDate:   editable.TargetDate,
	}
}

type GoalLinks struct {
	Self    string `json:"self" example:"https://example.com/api/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c"`            // The goal itself
	Savings string `json:"savings" example:"https://example.com/api/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/savings"` // The savings of the goal
}

type Goal struct {
	models.DefaultModel
	GoalEditable
	CurrentSaving decimal.Decimal `json:"currentSaving" example:"2500"` // Sum of all saving amounts, maintained by the backend
	Savings       []Saving        `json:"savings,omitempty"`            // Savings of the goal, only on the detail endpoint
	Links         GoalLinks       `json:"links"`
}

// newGoal returns the API representation of the resource
func newGoal(c *gin.Context, model models.Goal) Goal {
	return Goal{
		DefaultModel: model.DefaultModel,
		GoalEditable: GoalEditable{
			Name:         model.Name,
			TargetAmount: model.TargetAmount,
			StartDate:    model.StartDate,
			TargetDate:   model.TargetDate,
		},
		CurrentSaving: model.CurrentSaving,
		Links: GoalLinks{
			Self:    fmt.Sprintf("%s/api/goals/%s", httputil.RequestHost(c), model.ID),
			Savings: fmt.Sprintf("%s/api/goals/%s/savings", httputil.RequestHost(c), model.ID),
		},
	}
}

type GoalResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Goal   `json:"data"`                                                          // The resource
}

type GoalListResponse struct {
	Data  []Goal  `json:"data"`                                                          // List of resources
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type SavingEditable struct {
	Name   string          `json:"name" example:"Tax refund" default:""`                                                 // Name of the saving
	Amount decimal.Decimal `json:"amount" example:"250" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // Amount of the saving
	Date   time.Time       `json:"date" example:"2024-04-12T00:00:00Z"`                                                  // Date of the saving. Defaults to the time of creation
}

// model returns the database resource for the API representation of the
// editable fields.
func (editable SavingEditable) model() models.Saving {
	return models.Saving{
		Name:   editable.Name,
		Amount: editable.Amount,
		Date:   editable.Date,
	}
}

type Saving struct {
	models.DefaultModel
	SavingEditable
}

// newSaving returns the API representation of the resource
func newSaving(model models.Saving) Saving {
	return Saving{
		DefaultModel: model.DefaultModel,
		SavingEditable: SavingEditable{
			Name:   model.Name,
			Amount: model.Amount,
			Date:   model.Date,
		},
	}
}

type SavingResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Saving `json:"data"`                                                          // The resource
}

type SavingListResponse struct {
	Data  []Saving `json:"data"`                                                          // List of resources
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
