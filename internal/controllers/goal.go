package controllers

import (
	"net/http"

	"github.com/centsible/backend/internal/httputil"
	"github.com/centsible/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterGoalRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsGoals)
		r.GET("", GetGoals)
		r.POST("", CreateGoal)
	}
	{
		r.OPTIONS("/:goalId", OptionsGoalDetail)
		r.GET("/:goalId", GetGoal)
		r.PATCH("/:goalId", UpdateGoal)
		r.DELETE("/:goalId", DeleteGoal)
	}
	{
		r.OPTIONS("/:goalId/savings", OptionsSavings)
		r.GET("/:goalId/savings", GetSavings)
		r.POST("/:goalId/savings", CreateSaving)
	}
	{
		r.OPTIONS("/:goalId/savings/:savingId", OptionsSavingDetail)
		r.PATCH("/:goalId/savings/:savingId", UpdateSaving)
		r.DELETE("/:goalId/savings/:savingId", DeleteSaving)
	}
}

func OptionsGoals(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsGoalDetail(c *gin.Context) {
	var uri URIGoal
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Goal{}, "id = ? AND account_id = ?", uri.GoalID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

func OptionsSavings(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsSavingDetail(c *gin.Context) {
	httputil.OptionsPatchDelete(c)
}

// CreateGoal creates a new goal for the authenticated account.
func CreateGoal(c *gin.Context) {
	var editable GoalEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	goal := editable.model(currentAccountID(c))
	err = models.DB.Create(&goal).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusCreated, GoalResponse{Data: &apiResource})
}

// GetGoals returns all goals of the authenticated account.
func GetGoals(c *gin.Context) {
	var goals []models.Goal
	err := models.DB.
		Where("account_id = ?", currentAccountID(c)).
		Order("date(target_date) ASC, name ASC").
		Find(&goals).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Goal, 0, len(goals))
	for _, goal := range goals {
		data = append(data, newGoal(c, goal))
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: data})
}

// GetGoal returns a specific goal with its savings.
func GetGoal(c *gin.Context) {
	var uri URIGoal
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	var goal models.Goal
	err = models.DB.
		Preload("Savings").
		First(&goal, "id = ? AND account_id = ?", uri.GoalID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	apiResource := newGoal(c, goal)
	apiResource.Savings = make([]Saving, 0, len(goal.Savings))
	for _, saving := range goal.Savings {
		apiResource.Savings = append(apiResource.Savings, newSaving(saving))
	}

	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// UpdateGoal updates a goal. Only values in the request body are
// updated. The current saving cannot be edited, it tracks the savings
// collection.
func UpdateGoal(c *gin.Context) {
	var uri URIGoal
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	var goal models.Goal
	err = models.DB.First(&goal, "id = ? AND account_id = ?", uri.GoalID, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, GoalEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	var data GoalEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&goal).Select("", updateFields...).Updates(data.model(goal.AccountID)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &e,
		})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// DeleteGoal deletes a goal and its savings.
func DeleteGoal(c *gin.Context) {
	var uri URIGoal
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var goal models.Goal
	err = models.DB.First(&goal, "id = ? AND account_id = ?", uri.GoalID, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Select("Savings").Delete(&goal).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// GetSavings returns the savings of a goal.
func GetSavings(c *gin.Context) {
	goal, err := goalFromURI(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingListResponse{
			Error: &e,
		})
		return
	}

	var savings []models.Saving
	err = models.DB.
		Where("goal_id = ?", goal.ID).
		Order("date(date) ASC").
		Find(&savings).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Saving, 0, len(savings))
	for _, saving := range savings {
		data = append(data, newSaving(saving))
	}

	c.JSON(http.StatusOK, SavingListResponse{Data: data})
}

// CreateSaving appends a saving to a goal. The goal's current saving is
// adjusted in the same transaction.
func CreateSaving(c *gin.Context) {
	goal, err := goalFromURI(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingResponse{
			Error: &e,
		})
		return
	}

	var editable SavingEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingResponse{
			Error: &e,
		})
		return
	}

	saving := editable.model()
	err = goal.AddSaving(models.DB, &saving)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingResponse{
			Error: &e,
		})
		return
	}

	apiResource := newSaving(saving)
	c.JSON(http.StatusCreated, SavingResponse{Data: &apiResource})
}

// UpdateSaving updates a saving of a goal. Amount changes adjust the
// goal's current saving by the difference, name and date edits do not.
func UpdateSaving(c *gin.Context) {
	goal, saving, err := savingFromURI(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingResponse{
			Error: &e,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, SavingEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingResponse{
			Error: &e,
		})
		return
	}

	var data SavingEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingResponse{
			Error: &e,
		})
		return
	}

	err = goal.UpdateSaving(models.DB, &saving, data.model(), updateFields)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SavingResponse{
			Error: &e,
		})
		return
	}

	apiResource := newSaving(saving)
	c.JSON(http.StatusOK, SavingResponse{Data: &apiResource})
}

// DeleteSaving removes a saving from a goal and adjusts the goal's
// current saving.
func DeleteSaving(c *gin.Context) {
	goal, saving, err := savingFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = goal.DeleteSaving(models.DB, saving)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// goalFromURI loads the goal the savings routes act on, scoped to the
// authenticated account.
func goalFromURI(c *gin.Context) (models.Goal, error) {
	var uri URIGoal
	if err := c.ShouldBindUri(&uri); err != nil {
		return models.Goal{}, err
	}

	var goal models.Goal
	err := models.DB.First(&goal, "id = ? AND account_id = ?", uri.GoalID, currentAccountID(c)).Error
	return goal, err
}

// savingFromURI loads a goal and one of its savings. A saving that
// exists but belongs to another goal is not found.
func savingFromURI(c *gin.Context) (models.Goal, models.Saving, error) {
	var uri URIGoalSaving
	if err := c.ShouldBindUri(&uri); err != nil {
		return models.Goal{}, models.Saving{}, err
	}

	var goal models.Goal
	err := models.DB.First(&goal, "id = ? AND account_id = ?", uri.GoalID, currentAccountID(c)).Error
	if err != nil {
		return models.Goal{}, models.Saving{}, err
	}

	var saving models.Saving
	err = models.DB.First(&saving, "id = ? AND goal_id = ?", uri.SavingID, goal.ID).Error
	return goal, saving, err
}
