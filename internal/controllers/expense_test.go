package controllers_test

import (
	"net/http"
	"time"

	"github.com/centsible/backend/internal/controllers"
	"github.com/centsible/backend/internal/models"
	"github.com/centsible/backend/internal/notify"
	"github.com/centsible/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier collects events instead of logging them.
type recordingNotifier struct {
	events []notify.BudgetEvent
}

func (n *recordingNotifier) BudgetThreshold(event notify.BudgetEvent) {
	n.events = append(n.events, event)
}

// swapNotifier installs a recording notifier for the duration of the
// test.
func (suite *TestSuiteStandard) swapNotifier() *recordingNotifier {
	recorder := &recordingNotifier{}
	previous := controllers.Notifier
	controllers.Notifier = recorder

	suite.T().Cleanup(func() {
		controllers.Notifier = previous
	})

	return recorder
}

func (suite *TestSuiteStandard) TestExpenseCreate() {
	account, headers := suite.signUp()

	recorder := test.Request(suite.T(), http.MethodPost, "/api/expenses", controllers.ExpenseEditable{
		Name:     "Groceries",
		Category: "Food",
		Amount:   decimal.NewFromFloat(42.50),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response controllers.ExpenseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)

	var expense models.Expense
	require.NoError(suite.T(), models.DB.First(&expense, response.Data.ID).Error)
	assert.Equal(suite.T(), account.ID, expense.AccountID)
}

func (suite *TestSuiteStandard) TestExpenseCreateInvalid() {
	_, headers := suite.signUp()

	tests := []struct {
		name    string
		expense controllers.ExpenseEditable
	}{
		{"income category", controllers.ExpenseEditable{Category: "Salary", Amount: decimal.NewFromFloat(10)}},
		{"negative amount", controllers.ExpenseEditable{Category: "Food", Amount: decimal.NewFromFloat(-10)}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			recorder := test.Request(suite.T(), http.MethodPost, "/api/expenses", tt.expense, headers)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseScoping() {
	owner, _ := suite.signUp()
	_, otherHeaders := suite.signUp()

	expense := suite.createTestExpense(models.Expense{AccountID: owner.ID, Amount: decimal.NewFromFloat(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/expenses/"+expense.ID.String(), nil, otherHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodDelete, "/api/expenses/"+expense.ID.String(), nil, otherHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

// thresholdBudget creates a budget with a single 100 Food allocation
// for March 2024.
func (suite *TestSuiteStandard) thresholdBudget(account models.Account) models.Budget {
	return suite.createTestBudget(models.Budget{
		AccountID: account.ID,
		Name:      "March groceries",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Categories: []models.BudgetCategory{
			{Category: "Food", Allocated: decimal.NewFromFloat(100)},
		},
	})
}

// TestExpenseThresholdEvents verifies the one-shot 90% and 100% events
// across create, update and delete.
func (suite *TestSuiteStandard) TestExpenseThresholdEvents() {
	account, headers := suite.signUp()
	budget := suite.thresholdBudget(account)
	notifier := suite.swapNotifier()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	// 85 of 100: below the warning threshold
	recorder := test.Request(suite.T(), http.MethodPost, "/api/expenses", controllers.ExpenseEditable{
		Category: "Food",
		Amount:   decimal.NewFromFloat(85),
		Date:     date,
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
	assert.Empty(suite.T(), notifier.events)

	// 95 of 100: crosses 90%
	recorder = test.Request(suite.T(), http.MethodPost, "/api/expenses", controllers.ExpenseEditable{
		Category: "Food",
		Amount:   decimal.NewFromFloat(10),
		Date:     date,
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
	require.Len(suite.T(), notifier.events, 1)
	assert.Equal(suite.T(), notify.LevelWarning, notifier.events[0].Level)
	assert.Equal(suite.T(), budget.ID, notifier.events[0].BudgetID)
	assert.Equal(suite.T(), "Food", notifier.events[0].Category)

	var response controllers.ExpenseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)

	// Raising the same expense to 20 pushes the total to 105: crosses 100%,
	// but does not repeat the warning
	recorder = test.Request(suite.T(), http.MethodPatch, "/api/expenses/"+response.Data.ID.String(),
		`{"amount": "20"}`, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	require.Len(suite.T(), notifier.events, 2)
	assert.Equal(suite.T(), notify.LevelCritical, notifier.events[1].Level)

	// Deleting it drops the total back to 85, no event
	recorder = test.Request(suite.T(), http.MethodDelete, "/api/expenses/"+response.Data.ID.String(), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Len(suite.T(), notifier.events, 2)
}

// TestExpenseThresholdBothAtOnce verifies that a single write crossing
// both thresholds emits the warning and the critical event together.
func (suite *TestSuiteStandard) TestExpenseThresholdBothAtOnce() {
	account, headers := suite.signUp()
	suite.thresholdBudget(account)
	notifier := suite.swapNotifier()

	recorder := test.Request(suite.T(), http.MethodPost, "/api/expenses", controllers.ExpenseEditable{
		Category: "Food",
		Amount:   decimal.NewFromFloat(120),
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	require.Len(suite.T(), notifier.events, 2)
	assert.Equal(suite.T(), notify.LevelWarning, notifier.events[0].Level)
	assert.Equal(suite.T(), notify.LevelCritical, notifier.events[1].Level)
}

// TestExpenseThresholdCategoryChange verifies that moving an expense to
// another category re-evaluates the budgets of both categories.
func (suite *TestSuiteStandard) TestExpenseThresholdCategoryChange() {
	account, headers := suite.signUp()
	suite.createTestBudget(models.Budget{
		AccountID: account.ID,
		Name:      "March plan",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Categories: []models.BudgetCategory{
			{Category: "Food", Allocated: decimal.NewFromFloat(100)},
			{Category: "Transport", Allocated: decimal.NewFromFloat(50)},
		},
	})
	notifier := suite.swapNotifier()

	recorder := test.Request(suite.T(), http.MethodPost, "/api/expenses", controllers.ExpenseEditable{
		Category: "Food",
		Amount:   decimal.NewFromFloat(60),
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
	assert.Empty(suite.T(), notifier.events)

	var response controllers.ExpenseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)

	// 60 of 50 Transport crosses both thresholds there, Food drops to 0
	recorder = test.Request(suite.T(), http.MethodPatch, "/api/expenses/"+response.Data.ID.String(),
		`{"category": "Transport"}`, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	require.Len(suite.T(), notifier.events, 2)
	for _, event := range notifier.events {
		assert.Equal(suite.T(), "Transport", event.Category)
	}
}
