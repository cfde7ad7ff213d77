package controllers_test

import (
	"net/http"
	"time"

	"github.com/centsible/backend/internal/controllers"
	"github.com/centsible/backend/internal/models"
	"github.com/centsible/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) seedLedger(account models.Account) {
	march := func(day int) time.Time {
		return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	}

	suite.createTestIncome(models.Income{AccountID: account.ID, Category: "Salary", Amount: decimal.NewFromFloat(2500), Date: march(1)})
	suite.createTestIncome(models.Income{AccountID: account.ID, Category: "Freelance", Amount: decimal.NewFromFloat(400), Date: march(20)})
	suite.createTestExpense(models.Expense{AccountID: account.ID, Category: "Food", Amount: decimal.NewFromFloat(180), Date: march(5)})
	suite.createTestExpense(models.Expense{AccountID: account.ID, Category: "Food", Amount: decimal.NewFromFloat(60), Date: march(18)})
	suite.createTestExpense(models.Expense{AccountID: account.ID, Category: "Housing", Amount: decimal.NewFromFloat(900), Date: march(1)})
}

func (suite *TestSuiteStandard) TestTransactionCategories() {
	account, headers := suite.signUp()
	suite.seedLedger(account)

	// A second account's ledger must not bleed into the sums
	other, _ := suite.signUp()
	suite.createTestExpense(models.Expense{AccountID: other.ID, Category: "Food", Amount: decimal.NewFromFloat(9999), Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/transactions/categories", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.CategorySummaryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)

	assert.True(suite.T(), response.Data.Incomes["Salary"].Equal(decimal.NewFromFloat(2500)))
	assert.True(suite.T(), response.Data.Incomes["Freelance"].Equal(decimal.NewFromFloat(400)))
	assert.True(suite.T(), response.Data.Expenses["Food"].Equal(decimal.NewFromFloat(240)))
	assert.True(suite.T(), response.Data.Expenses["Housing"].Equal(decimal.NewFromFloat(900)))
}

func (suite *TestSuiteStandard) TestTransactionCategoriesRange() {
	account, headers := suite.signUp()
	suite.seedLedger(account)

	// The end date is exclusive: the groceries on the 18th are out
	recorder := test.Request(suite.T(), http.MethodGet, "/api/transactions/categories?startDate=2024-03-01&endDate=2024-03-18", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.CategorySummaryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)

	assert.True(suite.T(), response.Data.Expenses["Food"].Equal(decimal.NewFromFloat(180)))
	assert.NotContains(suite.T(), response.Data.Incomes, "Freelance")
}

func (suite *TestSuiteStandard) TestTransactionSummary() {
	account, headers := suite.signUp()
	suite.seedLedger(account)

	recorder := test.Request(suite.T(), http.MethodGet, "/api/transactions/summary", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.TransactionSummaryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)

	assert.True(suite.T(), response.Data.TotalIncome.Equal(decimal.NewFromFloat(2900)))
	assert.True(suite.T(), response.Data.TotalExpense.Equal(decimal.NewFromFloat(1140)))
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromFloat(1760)))
}

func (suite *TestSuiteStandard) TestTransactionSummaryInvalidDate() {
	_, headers := suite.signUp()

	recorder := test.Request(suite.T(), http.MethodGet, "/api/transactions/summary?startDate=soon", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
