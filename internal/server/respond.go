package server

import "github.com/gin-gonic/gin"

// respondError writes the error convention the client relies on: the
// body carries the human-readable reason under the "error" key and the
// client surfaces it verbatim.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
