package models_test

import (
	"strings"
	"time"

	"github.com/centsible/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestIncomeAccountRequired() {
	income := models.Income{
		AccountID: uuid.New(),
		Category:  "Salary",
		Amount:    decimal.NewFromFloat(100),
	}

	err := models.DB.Create(&income).Error
	require.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestIncomeCategoryValidation() {
	account := suite.createTestAccount(models.Account{})

	note := "sold the old couch"
	custom := "Flea market"

	tests := []struct {
		name   string
		income models.Income
		err    error
	}{
		{
			"valid category",
			models.Income{Category: "Salary"},
			nil,
		},
		{
			"expense category is invalid for incomes",
			models.Income{Category: "Food"},
			models.ErrCategoryInvalid,
		},
		{
			"Other requires a custom category",
			models.Income{Category: "Other", Note: &note},
			models.ErrCustomCategoryRequired,
		},
		{
			"Other requires a note",
			models.Income{Category: "Other", CustomCategory: &custom},
			models.ErrNoteRequiredForOther,
		},
		{
			"Other with custom category and note",
			models.Income{Category: "Other", CustomCategory: &custom, Note: &note},
			nil,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			income := tt.income
			income.AccountID = account.ID

			err := models.DB.Create(&income).Error
			if tt.err == nil {
				assert.NoError(suite.T(), err)
			} else {
				assert.ErrorIs(suite.T(), err, tt.err)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeNegativeAmount() {
	account := suite.createTestAccount(models.Account{})

	income := models.Income{
		AccountID: account.ID,
		Category:  "Salary",
		Amount:    decimal.NewFromFloat(-1),
	}

	err := models.DB.Create(&income).Error
	require.ErrorIs(suite.T(), err, models.ErrAmountNegative)
}

func (suite *TestSuiteStandard) TestIncomeDateDefault() {
	account := suite.createTestAccount(models.Account{})

	income := suite.createTestIncome(models.Income{AccountID: account.ID})
	assert.False(suite.T(), income.Date.IsZero(), "date was not defaulted")
	assert.LessOrEqual(suite.T(), time.Since(income.Date), time.Minute)
}

// TestIncomeNoteUnset verifies that a whitespace-only note is stored
// as NULL, not as an empty string.
func (suite *TestSuiteStandard) TestIncomeNoteUnset() {
	account := suite.createTestAccount(models.Account{})

	note := "   \t"
	income := suite.createTestIncome(models.Income{
		AccountID: account.ID,
		Note:      &note,
	})

	var reloaded models.Income
	require.NoError(suite.T(), models.DB.First(&reloaded, income.ID).Error)
	assert.Nil(suite.T(), reloaded.Note)
}

func (suite *TestSuiteStandard) TestIncomeTrimWhitespace() {
	account := suite.createTestAccount(models.Account{})

	name := "  March salary \t"
	income := suite.createTestIncome(models.Income{
		AccountID: account.ID,
		Name:      name,
	})

	assert.Equal(suite.T(), strings.TrimSpace(name), income.Name)
}

// TestIncomeBatchCreate pins the bulk insert path the recurring poster
// uses: all hooks must work when the statement dest is a slice.
func (suite *TestSuiteStandard) TestIncomeBatchCreate() {
	account := suite.createTestAccount(models.Account{})

	incomes := []models.Income{
		{AccountID: account.ID, Category: "Salary", Amount: decimal.NewFromFloat(2500)},
		{AccountID: account.ID, Category: "Gifts", Amount: decimal.NewFromFloat(50)},
	}
	require.NoError(suite.T(), models.DB.Create(&incomes).Error)

	var count int64
	require.NoError(suite.T(), models.DB.Model(&models.Income{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.Equal(suite.T(), int64(2), count)

	// Every record got its own ID
	assert.NotEqual(suite.T(), incomes[0].ID, incomes[1].ID)
	assert.NotEqual(suite.T(), uuid.Nil, incomes[0].ID)
}
