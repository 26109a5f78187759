package handler

import (
	"reviewhub/internal/httpapi/models"

	"github.com/gin-gonic/gin"
)

// actorFrom reads the authenticated caller set by the auth middleware.
func actorFrom(c *gin.Context) (userID string, role models.Role, ok bool) {
	idVal, exists := c.Get("userID")
	if !exists {
		return "", "", false
	}
	userID, ok = idVal.(string)
	if !ok {
		return "", "", false
	}

	if roleVal, exists := c.Get("role"); exists {
		if r, isRole := roleVal.(models.Role); isRole {
			role = r
		}
	}
	return userID, role, true
}
