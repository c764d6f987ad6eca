package handlers

import (
	"log"
	"net/http"

	"medical-cost-api/services"

	"github.com/gin-gonic/gin"
)

type RetrainHandler struct {
	retrainer *services.RetrainService
}

func NewRetrainHandler(retrainer *services.RetrainService) *RetrainHandler {
	return &RetrainHandler{retrainer: retrainer}
}

// Retrain handles POST /api/v1/retrain. Runs synchronously to completion
// or failure before responding.
func (h *RetrainHandler) Retrain(c *gin.Context) {
	log.Printf("retraining request received")

	summary, err := h.retrainer.Retrain(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "unexpected error during retraining")
		return
	}

	c.JSON(http.StatusOK, summary)
}
