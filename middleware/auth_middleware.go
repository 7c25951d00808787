package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/permauto/backend/models"
	"github.com/permauto/backend/store"
	"github.com/permauto/backend/utils"
)

const userContextKey = "currentUser"

// RequireRoles is the single authorization checkpoint in front of every
// protected handler: read the session cookie, verify the token, load the
// referenced user and check the STORED role against the allowed set. The
// token's role claim is never consulted, so a role change or account
// deletion takes effect on the next request, not at token expiry.
//
// An empty role list means any authenticated user.
func RequireRoles(users store.Users, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(utils.SessionCookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "unauthorized - token not found",
			})
			return
		}

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			// A valid token pointing at a missing account is 404, not
			// 401: the account was deleted after issuance.
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"success": false,
					"message": "user not found",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to load user",
				"error":   err.Error(),
			})
			return
		}

		if len(roles) > 0 && !roleAllowed(user.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "access denied - insufficient role",
			})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// CurrentUser returns the user injected by RequireRoles. The bool is false
// on routes that skipped the guard.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
