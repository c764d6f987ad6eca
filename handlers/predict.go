package handlers

import (
	"net/http"

	"medical-cost-api/services"

	"github.com/gin-gonic/gin"
)

type PredictHandler struct {
	predictions *services.PredictionService
}

func NewPredictHandler(predictions *services.PredictionService) *PredictHandler {
	return &PredictHandler{predictions: predictions}
}

// PredictRequest is the beneficiary payload. Children is a pointer so
// that an explicit 0 passes "required" while a missing field does not.
// Categorical vocabulary is NOT validated here: the fitted preprocessor
// owns it and rejects unknown values.
type PredictRequest struct {
	Age            int     `json:"age" binding:"required,gt=0"`
	Sex            string  `json:"sex" binding:"required"`
	BMI            float64 `json:"bmi" binding:"required,gt=0"`
	Children       *int    `json:"children" binding:"required,gte=0"`
	Smoker         string  `json:"smoker" binding:"required"`
	Region         string  `json:"region" binding:"required"`
	IsTrainingData bool    `json:"is_training_data"`
}

type PredictResponse struct {
	PredictedCharges float64 `json:"predicted_charges"`
	Status           string  `json:"status"`
}

// Predict handles POST /api/v1/predict.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attrs := services.BeneficiaryAttributes{
		Age:      req.Age,
		Sex:      req.Sex,
		BMI:      req.BMI,
		Children: *req.Children,
		Smoker:   req.Smoker,
		Region:   req.Region,
	}

	predicted, err := h.predictions.PredictAndRecord(c.Request.Context(), attrs, req.IsTrainingData)
	if err != nil {
		respondServiceError(c, err, "prediction failed")
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		PredictedCharges: predicted,
		Status:           "success",
	})
}
