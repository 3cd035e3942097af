package response

import (
	"github.com/gin-gonic/gin"
)

// Every API response is a flat {success, ...} envelope: success=true with the
// payload merged in, or success=false with a single error string. Screens key
// off the boolean; transport-level failures never reach this package.

// Success writes {"success": true} merged with payload.
func Success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes {"success": false, "error": message}.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// ErrorWithCode also writes a machine-readable code. One HTTP status can
// cover several failures (409 is both a period overlap and an invalid
// transition); the code tells clients which one happened.
func ErrorWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}
