package controllers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/centsible/backend/internal/controllers"
	"github.com/centsible/backend/internal/models"
	"github.com/centsible/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestIncomesUnauthenticated() {
	recorder := test.Request(suite.T(), http.MethodGet, "/api/incomes", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestIncomeCreate() {
	account, headers := suite.signUp()

	recorder := test.Request(suite.T(), http.MethodPost, "/api/incomes", controllers.IncomeEditable{
		Name:     "March salary",
		Category: "Salary",
		Amount:   decimal.NewFromFloat(2500),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response controllers.IncomeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.NotNil(suite.T(), response.Data)
	assert.False(suite.T(), response.Data.Date.IsZero(), "date was not defaulted")

	// The account is always taken from the session
	var income models.Income
	require.NoError(suite.T(), models.DB.First(&income, response.Data.ID).Error)
	assert.Equal(suite.T(), account.ID, income.AccountID)
}

func (suite *TestSuiteStandard) TestIncomeCreateInvalid() {
	_, headers := suite.signUp()

	note := "note"
	tests := []struct {
		name   string
		income controllers.IncomeEditable
	}{
		{"invalid category", controllers.IncomeEditable{Category: "Food", Amount: decimal.NewFromFloat(10)}},
		{"negative amount", controllers.IncomeEditable{Category: "Salary", Amount: decimal.NewFromFloat(-10)}},
		{"Other without custom category", controllers.IncomeEditable{Category: "Other", Note: &note}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			recorder := test.Request(suite.T(), http.MethodPost, "/api/incomes", tt.income, headers)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

// TestIncomeScoping verifies that records of other accounts read as not
// found, never as forbidden.
func (suite *TestSuiteStandard) TestIncomeScoping() {
	owner, _ := suite.signUp()
	_, otherHeaders := suite.signUp()

	income := suite.createTestIncome(models.Income{AccountID: owner.ID, Amount: decimal.NewFromFloat(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/incomes/"+income.ID.String(), nil, otherHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodPatch, "/api/incomes/"+income.ID.String(), controllers.IncomeEditable{Name: "stolen"}, otherHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodDelete, "/api/incomes/"+income.ID.String(), nil, otherHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	// The owner's list does not leak into the other account
	recorder = test.Request(suite.T(), http.MethodGet, "/api/incomes", nil, otherHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.IncomeListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Empty(suite.T(), response.Data)
}

func (suite *TestSuiteStandard) TestIncomeMalformedID() {
	_, headers := suite.signUp()

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		recorder := test.Request(suite.T(), method, "/api/incomes/definitely-not-a-uuid", `{}`, headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

// TestIncomeFilterBoundaries verifies the range semantics: /filter is
// inclusive-start exclusive-end, /query covers the whole month.
func (suite *TestSuiteStandard) TestIncomeFilterBoundaries() {
	account, headers := suite.signUp()

	date := func(day int) time.Time {
		return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	}

	suite.createTestIncome(models.Income{AccountID: account.ID, Name: "first", Date: date(1), Amount: decimal.NewFromFloat(1)})
	suite.createTestIncome(models.Income{AccountID: account.ID, Name: "mid", Date: date(15), Amount: decimal.NewFromFloat(2)})

	// Late on the last day of the month, still part of the month query
	suite.createTestIncome(models.Income{AccountID: account.ID, Name: "last", Date: date(31).Add(18*time.Hour + 30*time.Minute), Amount: decimal.NewFromFloat(3)})
	suite.createTestIncome(models.Income{AccountID: account.ID, Name: "april", Date: date(31).AddDate(0, 0, 1), Amount: decimal.NewFromFloat(4)})

	// The end date is exclusive: the 31st is not part of the result
	recorder := test.Request(suite.T(), http.MethodGet, "/api/incomes/filter?startDate=2024-03-01&endDate=2024-03-31", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.IncomeListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)

	// The month query includes both boundaries
	recorder = test.Request(suite.T(), http.MethodGet, "/api/incomes/query?year=2024&month=3", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	response = controllers.IncomeListResponse{}
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 3)
}

func (suite *TestSuiteStandard) TestIncomeFilterCategories() {
	account, headers := suite.signUp()

	suite.createTestIncome(models.Income{AccountID: account.ID, Category: "Salary", Amount: decimal.NewFromFloat(1)})
	suite.createTestIncome(models.Income{AccountID: account.ID, Category: "Gifts", Amount: decimal.NewFromFloat(2)})
	suite.createTestIncome(models.Income{AccountID: account.ID, Category: "Freelance", Amount: decimal.NewFromFloat(3)})

	recorder := test.Request(suite.T(), http.MethodGet, "/api/incomes/filter?categories=Salary,Gifts", nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.IncomeListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
}

func (suite *TestSuiteStandard) TestIncomeQueryInvalid() {
	_, headers := suite.signUp()

	tests := []string{
		"/api/incomes/query",
		"/api/incomes/query?year=2024&month=13",
		"/api/incomes/query?year=0&month=5",
		"/api/incomes/filter?startDate=tomorrow",
	}

	for _, url := range tests {
		suite.Run(url, func() {
			recorder := test.Request(suite.T(), http.MethodGet, url, nil, headers)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

// TestIncomePatchUnset verifies the unset rules: an empty note is
// stored as NULL and a category change away from Other clears the
// custom category.
func (suite *TestSuiteStandard) TestIncomePatchUnset() {
	account, headers := suite.signUp()

	note := "sold the old couch"
	custom := "Flea market"
	income := suite.createTestIncome(models.Income{
		AccountID:      account.ID,
		Category:       "Other",
		CustomCategory: &custom,
		Note:           &note,
		Amount:         decimal.NewFromFloat(50),
	})

	// Move the category off Other
	recorder := test.Request(suite.T(), http.MethodPatch, "/api/incomes/"+income.ID.String(),
		`{"category": "Gifts"}`, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var reloaded models.Income
	require.NoError(suite.T(), models.DB.First(&reloaded, income.ID).Error)
	assert.Equal(suite.T(), "Gifts", reloaded.Category)
	assert.Nil(suite.T(), reloaded.CustomCategory, "custom category was left stale")

	// Empty the note
	recorder = test.Request(suite.T(), http.MethodPatch, "/api/incomes/"+income.ID.String(),
		`{"note": ""}`, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	require.NoError(suite.T(), models.DB.First(&reloaded, income.ID).Error)
	assert.Nil(suite.T(), reloaded.Note, "note was stored as empty string")
}

func (suite *TestSuiteStandard) TestIncomeDelete() {
	account, headers := suite.signUp()
	income := suite.createTestIncome(models.Income{AccountID: account.ID, Amount: decimal.NewFromFloat(10)})

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("/api/incomes/%s", income.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("/api/incomes/%s", income.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
