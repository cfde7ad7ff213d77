package models_test

import (
	"time"

	"github.com/centsible/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (suite *TestSuiteStandard) TestGoalAfterSave() {
	tests := []struct {
		amount decimal.Decimal
		err    error
	}{
		{decimal.NewFromFloat(-10), models.ErrTargetAmountNotPositive},
		{decimal.Zero, models.ErrTargetAmountNotPositive},
		{decimal.NewFromFloat(750), nil},
	}

	for _, tt := range tests {
		g := models.Goal{
			TargetAmount: tt.amount,
		}

		err := g.AfterSave(&gorm.DB{})
		assert.Equal(suite.T(), tt.err, err)
	}
}

func (suite *TestSuiteStandard) TestGoalAccountRequired() {
	goal := models.Goal{
		AccountID:    uuid.New(),
		TargetAmount: decimal.NewFromFloat(100),
	}

	err := models.DB.Create(&goal).Error
	require.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

// TestGoalSavingInvariant verifies that the goal total tracks the
// savings collection through adds, amount updates and deletes.
func (suite *TestSuiteStandard) TestGoalSavingInvariant() {
	account := suite.createTestAccount(models.Account{})
	goal := suite.createTestGoal(models.Goal{AccountID: account.ID})

	// Add a saving of 100
	first := models.Saving{Name: "Initial", Amount: decimal.NewFromFloat(100)}
	require.NoError(suite.T(), goal.AddSaving(models.DB, &first))
	suite.assertGoalConsistent(goal, "100")

	// Raise the saving to 150
	err := goal.UpdateSaving(models.DB, &first, models.Saving{Amount: decimal.NewFromFloat(150)}, []any{"Amount"})
	require.NoError(suite.T(), err)
	suite.assertGoalConsistent(goal, "150")

	// Add a second saving of 50
	second := models.Saving{Name: "Second", Amount: decimal.NewFromFloat(50)}
	require.NoError(suite.T(), goal.AddSaving(models.DB, &second))
	suite.assertGoalConsistent(goal, "200")

	// Delete the first saving
	require.NoError(suite.T(), goal.DeleteSaving(models.DB, first))
	suite.assertGoalConsistent(goal, "50")
}

// TestGoalSavingNameEdit verifies that edits which do not touch the
// amount leave the total alone.
func (suite *TestSuiteStandard) TestGoalSavingNameEdit() {
	account := suite.createTestAccount(models.Account{})
	goal := suite.createTestGoal(models.Goal{AccountID: account.ID})

	saving := models.Saving{Name: "Bonus", Amount: decimal.NewFromFloat(75)}
	require.NoError(suite.T(), goal.AddSaving(models.DB, &saving))

	update := models.Saving{Name: "Christmas bonus", Date: time.Now()}
	err := goal.UpdateSaving(models.DB, &saving, update, []any{"Name", "Date"})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Christmas bonus", saving.Name)
	suite.assertGoalConsistent(goal, "75")
}

func (suite *TestSuiteStandard) TestSavingNegativeAmount() {
	account := suite.createTestAccount(models.Account{})
	goal := suite.createTestGoal(models.Goal{AccountID: account.ID})

	saving := models.Saving{Amount: decimal.NewFromFloat(-5)}
	err := goal.AddSaving(models.DB, &saving)
	require.ErrorIs(suite.T(), err, models.ErrSavingAmountNegative)

	// The failed add must not touch the total
	suite.assertGoalConsistent(goal, "0")
}

// assertGoalConsistent checks the invariant: the stored total equals
// the expected value and the sum over the savings collection.
func (suite *TestSuiteStandard) assertGoalConsistent(goal models.Goal, total string) {
	var reloaded models.Goal
	require.NoError(suite.T(), models.DB.Preload("Savings").First(&reloaded, goal.ID).Error)

	expected, err := decimal.NewFromString(total)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), reloaded.CurrentSaving.Equal(expected), "current saving is %s, not %s", reloaded.CurrentSaving, expected)

	sum := decimal.Zero
	for _, saving := range reloaded.Savings {
		sum = sum.Add(saving.Amount)
	}
	assert.True(suite.T(), reloaded.CurrentSaving.Equal(sum), "current saving %s does not match the collection sum %s", reloaded.CurrentSaving, sum)
}

// TestGoalSavingStaleUpdate verifies that the total moves by the delta
// against the stored amount, not against a copy loaded before the
// write. Two overlapping edits of the same saving must converge on the
// last write.
func (suite *TestSuiteStandard) TestGoalSavingStaleUpdate() {
	account := suite.createTestAccount(models.Account{})
	goal := suite.createTestGoal(models.Goal{AccountID: account.ID})

	saving := models.Saving{Amount: decimal.NewFromFloat(100)}
	require.NoError(suite.T(), goal.AddSaving(models.DB, &saving))

	// The saving as loaded by two overlapping requests
	var tabOne, tabTwo models.Saving
	require.NoError(suite.T(), models.DB.First(&tabOne, saving.ID).Error)
	require.NoError(suite.T(), models.DB.First(&tabTwo, saving.ID).Error)

	err := goal.UpdateSaving(models.DB, &tabOne, models.Saving{Amount: decimal.NewFromFloat(150)}, []any{"Amount"})
	require.NoError(suite.T(), err)

	// The second write still carries the stale amount of 100
	err = goal.UpdateSaving(models.DB, &tabTwo, models.Saving{Amount: decimal.NewFromFloat(120)}, []any{"Amount"})
	require.NoError(suite.T(), err)

	suite.assertGoalConsistent(goal, "120")
}
