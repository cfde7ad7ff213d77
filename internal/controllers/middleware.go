package controllers

import (
	"fmt"
	"strings"

	"github.com/centsible/backend/internal/auth"
	"github.com/centsible/backend/internal/models"
	"github.com/centsible/backend/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier receives budget threshold events from expense writes. It is
// replaced in main and in tests.
var Notifier notify.Notifier = notify.LogNotifier{Logger: log.Logger}

const (
	contextUserID    = "centsible:userID"
	contextAccountID = "centsible:accountID"
)

// Authenticate resolves the session token into a user and account and
// aborts requests that do not carry a valid one.
//
// The token is read from the "token" cookie or the Authorization header.
// Accounts that are not Active are rejected before any data operation.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(status(auth.ErrNoToken), httpError{
				Error: auth.ErrNoToken.Error(),
			})
			return
		}

		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		var account models.Account
		err = models.DB.First(&account, claims.AccountID).Error
		if err != nil {
			// A token referencing a deleted account is as good as no token
			c.AbortWithStatusJSON(status(auth.ErrInvalidToken), httpError{
				Error: auth.ErrInvalidToken.Error(),
			})
			return
		}

		if account.Status != models.StatusActive {
			err = fmt.Errorf("%w, it is %s", models.ErrAccountNotActive, account.Status)
			c.AbortWithStatusJSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextAccountID, account.ID)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

// currentAccountID returns the account the request acts on.
func currentAccountID(c *gin.Context) uuid.UUID {
	return c.MustGet(contextAccountID).(uuid.UUID)
}

// currentUserID returns the user the request acts as.
func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(contextUserID).(uuid.UUID)
}
