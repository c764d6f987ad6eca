package handlers

import (
	"log"
	"net/http"

	"medical-cost-api/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error to an HTTP response. Client
// kinds (bad categorical value, too little data) surface their message
// with a 400; everything else is logged internally and answered with the
// generic message only.
func respondServiceError(c *gin.Context, err error, generic string) {
	if services.IsClientError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("%s: %v", generic, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
}
