package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/centsible/backend/internal/auth"
	"github.com/centsible/backend/internal/config"
	"github.com/centsible/backend/internal/httputil"
	"github.com/centsible/backend/internal/mail"
	"github.com/centsible/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// verificationTTL is how long an email verification link stays valid.
const verificationTTL = 24 * time.Hour

var errPasswordTooShort = fmt.Errorf("the password must be at least %d characters long", minPasswordLength)

// RegisterAuthRoutes sets up the public authentication routes.
func RegisterAuthRoutes(r *gin.RouterGroup, cfg config.Config, sender mail.Sender) {
	{
		r.OPTIONS("/register", httputil.OptionsPost)
		r.POST("/register", Register(sender))
	}
	{
		r.OPTIONS("/login", httputil.OptionsPost)
		r.POST("/login", Login(cfg))
	}
	{
		r.OPTIONS("/verify-email", httputil.OptionsGet)
		r.GET("/verify-email", VerifyEmail)
	}
}

// RegisterPasswordRoute sets up the authenticated password change
// route. It must be attached to a group behind Authenticate.
func RegisterPasswordRoute(r *gin.RouterGroup) {
	r.OPTIONS("/password", httputil.OptionsPost)
	r.POST("/password", ChangePassword)
}

// RegisterAccountRoutes sets up the routes for the caller's own
// account. It must be attached to a group behind Authenticate.
func RegisterAccountRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAccount)
	r.GET("", GetAccount)
	r.DELETE("", CloseAccount)
}

func OptionsAccount(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// Register creates a user with their account and sends the email
// verification link.
func Register(sender mail.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request RegisterRequest
		err := httputil.BindData(c, &request)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), UserResponse{
				Error: &e,
			})
			return
		}

		if len(request.Password) < minPasswordLength {
			e := errPasswordTooShort.Error()
			c.JSON(status(errPasswordTooShort), UserResponse{
				Error: &e,
			})
			return
		}

		hash, err := auth.HashPassword(request.Password)
		if err != nil {
			e := models.ErrGeneral.Error()
			log.Error().Msgf("password hashing: %v", err)
			c.JSON(status(models.ErrGeneral), UserResponse{
				Error: &e,
			})
			return
		}

		expires := time.Now().In(time.UTC).Add(verificationTTL)
		user := models.User{
			Nickname:            request.Nickname,
			Email:               request.Email,
			VerificationToken:   uuid.NewString(),
			VerificationExpires: &expires,
			Phone:               request.Phone,
			Language:            request.Language,
		}

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			return tx.Create(&models.Account{
				UserID:       user.ID,
				PasswordHash: hash,
			}).Error
		})
		if err != nil {
			e := err.Error()
			c.JSON(status(err), UserResponse{
				Error: &e,
			})
			return
		}

		sendVerificationMail(c, sender, user)

		apiResource := newUser(user)
		c.JSON(http.StatusCreated, UserResponse{Data: &apiResource})
	}
}

// sendVerificationMail sends the verification link. Registration
// already succeeded at this point, so a delivery failure is only
// logged. The user can request a new link by registering support.
func sendVerificationMail(c *gin.Context, sender mail.Sender, user models.User) {
	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s&id=%s",
		httputil.RequestHost(c), user.VerificationToken, user.ID)

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>please confirm your email address by opening <a href=%q>this link</a>. It is valid for 24 hours.</p>",
		user.Nickname, link)

	err := sender.Send(user.Email, "Verify your Centsible email address", body)
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("verification mail: %v", err)
	}
}

// VerifyEmail marks a user as verified when the link from the
// verification mail is opened.
func VerifyEmail(c *gin.Context) {
	var query VerifyEmailQuery
	if err := c.Bind(&query); err != nil {
		e := errVerificationInvalid.Error()
		c.JSON(status(errVerificationInvalid), UserResponse{
			Error: &e,
		})
		return
	}

	userID, err := uuid.Parse(query.ID)
	if err != nil {
		e := errVerificationInvalid.Error()
		c.JSON(status(errVerificationInvalid), UserResponse{
			Error: &e,
		})
		return
	}

	var user models.User
	err = models.DB.First(&user, userID).Error
	if err != nil {
		e := errVerificationInvalid.Error()
		c.JSON(status(errVerificationInvalid), UserResponse{
			Error: &e,
		})
		return
	}

	if user.VerificationToken == "" ||
		user.VerificationToken != query.Token ||
		user.VerificationExpires == nil ||
		user.VerificationExpires.Before(time.Now()) {
		e := errVerificationInvalid.Error()
		c.JSON(status(errVerificationInvalid), UserResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&user).Updates(map[string]any{
		"verified":             true,
		"verification_token":   "",
		"verification_expires": nil,
	}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &e,
		})
		return
	}

	user.Verified = true
	apiResource := newUser(user)
	c.JSON(http.StatusOK, UserResponse{Data: &apiResource})
}

// Login checks the credentials and starts a session.
//
// Unknown emails and wrong passwords yield the same error so that the
// endpoint does not leak which addresses are registered.
func Login(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request LoginRequest
		err := httputil.BindData(c, &request)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), LoginResponse{
				Error: &e,
			})
			return
		}

		var user models.User
		err = models.DB.First(&user, "email = ?", request.Email).Error
		if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
			e := err.Error()
			c.JSON(status(err), LoginResponse{
				Error: &e,
			})
			return
		}

		if err != nil || !auth.CheckPasswordHash(request.Password, passwordHashForUser(user)) {
			e := errLoginFailed.Error()
			c.JSON(status(errLoginFailed), LoginResponse{
				Error: &e,
			})
			return
		}

		if !user.Verified {
			e := errNotVerified.Error()
			c.JSON(status(errNotVerified), LoginResponse{
				Error: &e,
			})
			return
		}

		var account models.Account
		err = models.DB.First(&account, "user_id = ?", user.ID).Error
		if err != nil {
			e := errLoginFailed.Error()
			c.JSON(status(errLoginFailed), LoginResponse{
				Error: &e,
			})
			return
		}

		if account.Status != models.StatusActive {
			err = fmt.Errorf("%w, it is %s", models.ErrAccountNotActive, account.Status)
			e := err.Error()
			c.JSON(status(err), LoginResponse{
				Error: &e,
			})
			return
		}

		token, err := auth.GenerateToken(cfg.JWTSecret, user.ID, account.ID, cfg.TokenTTL)
		if err != nil {
			e := models.ErrGeneral.Error()
			log.Error().Msgf("token issuance: %v", err)
			c.JSON(status(models.ErrGeneral), LoginResponse{
				Error: &e,
			})
			return
		}

		c.SetCookie("token", token, int(cfg.TokenTTL.Seconds()), "/", "", false, true)

		apiResource := newUser(user)
		c.JSON(http.StatusOK, LoginResponse{
			Token: token,
			Data:  &apiResource,
		})
	}
}

// passwordHashForUser returns the stored hash for the user's account.
// When no account or hash exists, the unusable sentinel is returned so
// that the bcrypt comparison still runs and fails.
func passwordHashForUser(user models.User) string {
	var account models.Account
	err := models.DB.First(&account, "user_id = ?", user.ID).Error
	if err != nil || account.PasswordHash == "" {
		return models.PasswordUnusable
	}

	return account.PasswordHash
}

// ChangePassword rotates the caller's password. The new password must
// not match the current one or any of the stored previous hashes.
func ChangePassword(c *gin.Context) {
	var request PasswordChangeRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var account models.Account
	err = models.DB.First(&account, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if !auth.CheckPasswordHash(request.CurrentPassword, account.PasswordHash) {
		c.JSON(status(models.ErrPasswordWrong), httpError{
			Error: models.ErrPasswordWrong.Error(),
		})
		return
	}

	if len(request.NewPassword) < minPasswordLength {
		c.JSON(status(errPasswordTooShort), httpError{
			Error: errPasswordTooShort.Error(),
		})
		return
	}

	if auth.CheckPasswordHash(request.NewPassword, account.PasswordHash) {
		c.JSON(status(models.ErrPasswordReused), httpError{
			Error: models.ErrPasswordReused.Error(),
		})
		return
	}

	hashes, err := account.RecentPasswordHashes(models.DB)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	for _, hash := range hashes {
		if auth.CheckPasswordHash(request.NewPassword, hash) {
			c.JSON(status(models.ErrPasswordReused), httpError{
				Error: models.ErrPasswordReused.Error(),
			})
			return
		}
	}

	newHash, err := auth.HashPassword(request.NewPassword)
	if err != nil {
		log.Error().Msgf("password hashing: %v", err)
		c.JSON(status(models.ErrGeneral), httpError{
			Error: models.ErrGeneral.Error(),
		})
		return
	}

	err = account.RotatePassword(models.DB, newHash)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	log.Info().Str("user", currentUserID(c).String()).Msg("password changed")

	c.JSON(http.StatusNoContent, nil)
}

// GetAccount returns the caller's account with the user profile.
func GetAccount(c *gin.Context) {
	var account models.Account
	err := models.DB.Preload("User").First(&account, currentAccountID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{
			Error: &e,
		})
		return
	}

	apiResource := AccountInfo{
		DefaultModel: account.DefaultModel,
		Status:       string(account.Status),
		User:         newUser(account.User),
	}
	c.JSON(http.StatusOK, AccountResponse{Data: &apiResource})
}

// CloseAccount sets the caller's account to Closed. The session cookie
// is removed, further requests with the token are rejected by the
// status check.
func CloseAccount(c *gin.Context) {
	var account models.Account
	err := models.DB.First(&account, currentAccountID(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Model(&account).Update("status", models.StatusClosed).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusNoContent, nil)
}
