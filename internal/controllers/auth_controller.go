package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	gocache "github.com/patrickmn/go-cache"

	"bustracker/internal/mailer"
	"bustracker/internal/middleware"
	"bustracker/internal/models"
	"bustracker/internal/repository"
	"bustracker/internal/response"
)

const resetTokenTTL = 5 * time.Minute

type registerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=developer admin team_lead member user"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type googleLoginInput struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Avatar string `json:"avatar"`
}

type AuthController struct {
	users  repository.UserRepository
	mailer *mailer.Mailer

	// resetTokens holds short-lived password-reset tokens keyed by token
	// string, value = user ID.
	resetTokens *gocache.Cache
}

func NewAuthController(users repository.UserRepository, m *mailer.Mailer) *AuthController {
	return &AuthController{
		users:       users,
		mailer:      m,
		resetTokens: gocache.New(resetTokenTTL, 10*time.Minute),
	}
}

func (a *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		response.ServerError(c, "could not hash password", err)
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Role:     input.Role,
	}
	if err := a.users.Create(&user); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		response.ServerError(c, "could not create user", err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		response.ServerError(c, "could not generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (a *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := a.users.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		} else {
			response.ServerError(c, "database error", err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		response.ServerError(c, "could not generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GoogleLogin upserts a user by email. First-time sign-ins get the
// default role and a random placeholder password they cannot use for
// password login.
func (a *AuthController) GoogleLogin(c *gin.Context) {
	var input googleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := a.users.FindByEmail(input.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			response.ServerError(c, "database error", err)
			return
		}

		hash, herr := bcrypt.GenerateFromPassword([]byte("google_"+uuid.NewString()), bcrypt.DefaultCost)
		if herr != nil {
			response.ServerError(c, "could not hash password", herr)
			return
		}

		user = &models.User{
			Name:     input.Name,
			Email:    input.Email,
			Password: string(hash),
			Avatar:   input.Avatar,
			Role:     "user",
		}
		if cerr := a.users.Create(user); cerr != nil {
			response.ServerError(c, "could not create user", cerr)
			return
		}
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		response.ServerError(c, "could not generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (a *AuthController) Me(c *gin.Context) {
	user, err := a.users.FindByID(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		} else {
			response.ServerError(c, "database error", err)
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout is a no-op server side; tokens simply expire. Kept so clients
// have a consistent endpoint to call.
func (a *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (a *AuthController) UpdateProfile(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required,max=255"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := a.users.FindByID(middleware.UserID(c))
	if err != nil {
		response.ServerError(c, "database error", err)
		return
	}

	user.Name = input.Name
	user.Email = input.Email
	if err := a.users.Save(user); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		response.ServerError(c, "could not update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (a *AuthController) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword      string `json:"current_password" binding:"required"`
		NewPassword          string `json:"new_password" binding:"required,min=6"`
		PasswordConfirmation string `json:"new_password_confirmation" binding:"required,eqfield=NewPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := a.users.FindByID(middleware.UserID(c))
	if err != nil {
		response.ServerError(c, "database error", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.ServerError(c, "could not hash password", err)
		return
	}
	user.Password = string(hash)
	if err := a.users.Save(user); err != nil {
		response.ServerError(c, "could not update password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// ForgotPassword validates the email and hands back a temporary token the
// client exchanges for a password reset within five minutes.
func (a *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := a.users.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
		} else {
			response.ServerError(c, "database error", err)
		}
		return
	}

	token := uuid.NewString()
	a.resetTokens.Set(token, user.ID, resetTokenTTL)

	c.JSON(http.StatusOK, gin.H{
		"message": "Email validated. Enter new password.",
		"token":   token,
	})
}

func (a *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Token                string `json:"token" binding:"required"`
		Password             string `json:"password" binding:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	userIDIfc, found := a.resetTokens.Get(input.Token)
	if !found {
		logrus.WithFields(logrus.Fields{
			"ip": c.ClientIP(),
		}).Warn("password reset attempt with invalid token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	user, err := a.users.FindByID(userIDIfc.(uint))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			response.ServerError(c, "database error", err)
		}
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		response.ServerError(c, "could not hash password", err)
		return
	}
	user.Password = string(hash)
	if err := a.users.Save(user); err != nil {
		response.ServerError(c, "could not update password", err)
		return
	}

	a.resetTokens.Delete(input.Token)

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("password reset successful")

	// Confirmation email is best effort; the reset already happened.
	if err := a.mailer.SendPasswordChanged(c.Request.Context(), user.Email, user.Name); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("failed to send password change email")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}

// ListUsers is developer-only.
func (a *AuthController) ListUsers(c *gin.Context) {
	users, err := a.users.List()
	if err != nil {
		response.ServerError(c, "Error listing users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}
