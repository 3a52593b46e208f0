package middleware

import (
	"net/http"
	"strings"

	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	PractitionerIDKey = "practitionerID"
	practitionerRole  = "practitioner"
)

// JWTAuthPractitionerMiddleware validates the bearer token and stores the practitioner ID in the context.
func JWTAuthPractitionerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		practitionerID, role, err := utils.ExtractClaims(tokenString)
		if err != nil {
			utils.RequestLogger(c).Debug("Token rejected", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", "")
			return
		}
		if role != practitionerRole {
			utils.JSONError(c, http.StatusForbidden, "Access denied", "practitioner role required")
			return
		}

		c.Set(PractitionerIDKey, practitionerID)
		c.Next()
	}
}
