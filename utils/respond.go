// utils/respond.go
package utils

import "github.com/gin-gonic/gin"

// RespondWithError writes the standard {"error": "..."} body used across
// all controllers.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
