package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"medical-cost-api/models"
)

// PredictionEvent is published to redis after each stored prediction and
// fed to live websocket subscribers.
type PredictionEvent struct {
	RecordID         uint      `json:"record_id"`
	PredictedCharges float64   `json:"predicted_charges"`
	ModelVersion     string    `json:"model_version"`
	Region           string    `json:"region"`
	TS               time.Time `json:"ts"`
}

// PredictionService runs the predict-and-record path: artifact load,
// feature preparation, model predict, then a single transaction inserting
// the insurance record and its prediction result.
type PredictionService struct {
	db           *gorm.DB
	artifacts    *ArtifactStore
	cache        *CacheService
	modelVersion string
}

func NewPredictionService(db *gorm.DB, artifacts *ArtifactStore, cache *CacheService, modelVersion string) *PredictionService {
	return &PredictionService{
		db:           db,
		artifacts:    artifacts,
		cache:        cache,
		modelVersion: modelVersion,
	}
}

// PredictAndRecord predicts charges for one beneficiary and persists the
// record and prediction result together. The record's charges column
// holds the predicted value; is_training_data comes from the caller.
//
// The model is loaded fresh from disk on every call, so a retrain's
// atomic artifact swap is picked up by the next prediction without any
// cache invalidation.
func (s *PredictionService) PredictAndRecord(ctx context.Context, attrs BeneficiaryAttributes, isTrainingData bool) (float64, error) {
	model, err := s.artifacts.LoadModel()
	if err != nil {
		predictionsFailed.Inc()
		return 0, err
	}
	preprocessor, err := s.artifacts.LoadPreprocessor()
	if err != nil {
		predictionsFailed.Inc()
		return 0, err
	}

	features, err := preprocessor.Transform(attrs)
	if err != nil {
		predictionsFailed.Inc()
		return 0, err
	}

	predicted, err := model.Predict(features)
	if err != nil {
		predictionsFailed.Inc()
		return 0, err
	}

	// Insert record and prediction result together: both commit or both
	// roll back, so no prediction result is ever orphaned.
	var record models.InsuranceRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		charges := predicted
		record = models.InsuranceRecord{
			Age:            attrs.Age,
			Sex:            attrs.Sex,
			BMI:            attrs.BMI,
			Children:       attrs.Children,
			Smoker:         attrs.Smoker,
			Region:         attrs.Region,
			Charges:        &charges,
			IsTrainingData: isTrainingData,
			Source:         models.SourcePrediction,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		result := models.PredictionResult{
			RecordID:         record.ID,
			PredictedCharges: predicted,
			ModelVersion:     s.modelVersion,
		}
		return tx.Create(&result).Error
	})
	if err != nil {
		predictionsFailed.Inc()
		return 0, fmt.Errorf("%w: storing prediction: %v", ErrPersistence, err)
	}

	predictionsMade.Inc()
	log.Printf("prediction stored: record=%d charges=%.2f model=%s", record.ID, predicted, s.modelVersion)

	if err := s.cache.Publish(ctx, ChannelPredictions, PredictionEvent{
		RecordID:         record.ID,
		PredictedCharges: predicted,
		ModelVersion:     s.modelVersion,
		Region:           attrs.Region,
		TS:               time.Now().UTC(),
	}); err != nil {
		log.Printf("prediction event publish failed: %v", err)
	}

	return predicted, nil
}
