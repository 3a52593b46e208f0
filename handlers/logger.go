package handlers

import (
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped Zap logger from the Gin context.
func getLogger(c *gin.Context) *zap.Logger {
	return utils.RequestLogger(c)
}
