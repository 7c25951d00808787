package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/permauto/backend/dto"
	"github.com/permauto/backend/middleware"
	"github.com/permauto/backend/models"
	"github.com/permauto/backend/store"
	"github.com/permauto/backend/utils"
)

// POST /auth/register
func Register(users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body", "error": err.Error()})
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		user := models.User{
			Name:         body.Name,
			Email:        utils.NormalizeEmail(body.Email),
			PasswordHash: hash,
			Role:         models.RoleUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := users.Insert(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "user already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to register user", "error": err.Error()})
			return
		}

		token, err := utils.GenerateSessionToken(user.ID.Hex(), user.Email, string(user.Role), false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to generate token"})
			return
		}
		utils.SetSessionCookie(c, token, false)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "user registered",
			"user":    user,
		})
	}
}

// POST /auth/login
func Login(users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password are required", "error": err.Error()})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), body.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "incorrect credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to verify credentials", "error": err.Error()})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "incorrect credentials"})
			return
		}

		// The token carries the stored role verbatim; the access guard
		// re-reads it from the store anyway.
		token, err := utils.GenerateSessionToken(user.ID.Hex(), user.Email, string(user.Role), body.RememberMe)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to generate token"})
			return
		}
		utils.SetSessionCookie(c, token, body.RememberMe)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "login successful",
			"user":    user,
		})
	}
}

// POST /auth/logout
//
// Stateless tokens: clearing the cookie ends the browser session but an
// extracted token stays valid until expiry. The short default TTL bounds
// that window.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ClearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "session closed"})
	}
}

// GET /auth/me
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing auth context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}
