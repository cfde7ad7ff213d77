package controllers_test

import (
	"net/http"

	"github.com/centsible/backend/test"
)

func (suite *TestSuiteStandard) TestHealthz() {
	recorder := test.Request(suite.T(), http.MethodGet, "/healthz", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestOptions() {
	_, headers := suite.signUp()

	tests := []struct {
		url   string
		allow string
	}{
		{"/api/incomes", "OPTIONS, GET, POST"},
		{"/api/expenses/filter", "OPTIONS, GET"},
		{"/api/budgets", "OPTIONS, GET, POST"},
		{"/api/goals", "OPTIONS, GET, POST"},
		{"/api/transactions/summary", "OPTIONS, GET"},
	}

	for _, tt := range tests {
		suite.Run(tt.url, func() {
			recorder := test.Request(suite.T(), http.MethodOptions, tt.url, nil, headers)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
			suite.Assert().Equal(tt.allow, recorder.Header().Get("allow"))
		})
	}
}
