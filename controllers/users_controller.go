package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/permauto/backend/dto"
	"github.com/permauto/backend/middleware"
	"github.com/permauto/backend/models"
	"github.com/permauto/backend/store"
)

// GET /admin/users
func ListUsers(users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to list users", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "users": list})
	}
}

// PUT /admin/users/:id
func ChangeUserRole(users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing auth context"})
			return
		}

		// Self-modification is rejected before anything else, whatever
		// the submitted role value.
		id := c.Param("id")
		if id == caller.ID.Hex() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "you cannot change your own role"})
			return
		}

		var body dto.ChangeRoleDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid role", "error": err.Error()})
			return
		}

		user, err := users.UpdateRole(c.Request.Context(), id, models.Role(body.Role))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update user", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// DELETE /admin/users/:id
func DeleteUser(users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing auth context"})
			return
		}

		id := c.Param("id")
		if id == caller.ID.Hex() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "you cannot delete your own account"})
			return
		}

		if err := users.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete user", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
	}
}
