package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"medical-cost-api/config"
	"medical-cost-api/models"
)

// RetrainSummary is the caller-facing result of a completed retrain.
type RetrainSummary struct {
	Message         string  `json:"message"`
	R2Score         float64 `json:"r2_score"`
	RMSE            float64 `json:"rmse"`
	TrainingSamples int     `json:"training_samples"`
	TestSamples     int     `json:"test_samples"`
	Timestamp       string  `json:"timestamp"`
}

// RetrainEvent is published to redis after a successful retrain.
type RetrainEvent struct {
	ModelType       string    `json:"model_type"`
	R2Score         float64   `json:"r2_score"`
	RMSE            float64   `json:"rmse"`
	TrainingSamples int       `json:"training_samples"`
	TestSamples     int       `json:"test_samples"`
	TS              time.Time `json:"ts"`
}

// RetrainService refits the model from all persisted training rows:
// load, split, transform with the frozen preprocessor, fit, evaluate,
// atomically swap the model artifact, record metadata.
type RetrainService struct {
	db        *gorm.DB
	artifacts *ArtifactStore
	cache     *CacheService
	cfg       config.ModelConfig
}

func NewRetrainService(db *gorm.DB, artifacts *ArtifactStore, cache *CacheService, cfg config.ModelConfig) *RetrainService {
	return &RetrainService{db: db, artifacts: artifacts, cache: cache, cfg: cfg}
}

// fitResult is the outcome of the pure pipeline stages, before anything
// is persisted.
type fitResult struct {
	model   *LinearModel
	metrics EvalMetrics
	usable  int
	train   int
	test    int
}

// Retrain runs the full pipeline. Any failure before the artifact swap
// leaves the previous model untouched and writes no metadata.
func (s *RetrainService) Retrain(ctx context.Context) (*RetrainSummary, error) {
	start := time.Now()

	var records []models.InsuranceRecord
	if err := s.db.WithContext(ctx).
		Where("is_training_data = ?", true).
		Find(&records).Error; err != nil {
		retrainFailures.Inc()
		return nil, fmt.Errorf("%w: loading training records: %v", ErrPersistence, err)
	}
	log.Printf("retrain: loaded %d training records", len(records))

	result, err := s.fitFromRecords(records)
	if err != nil {
		retrainFailures.Inc()
		return nil, err
	}
	log.Printf("retrain: metrics - r2: %.4f, rmse: %.2f", result.metrics.R2, result.metrics.RMSE)

	// Atomic swap: concurrent predictions see the old model until the
	// rename lands, the new one after.
	if err := s.artifacts.SaveModel(result.model); err != nil {
		retrainFailures.Inc()
		return nil, fmt.Errorf("%w: writing model artifact: %v", ErrPersistence, err)
	}

	meta := models.ModelMetadata{
		ModelType:       result.model.ModelType,
		R2Score:         result.metrics.R2,
		MSE:             result.metrics.MSE,
		MAE:             result.metrics.MAE,
		TrainingSamples: result.train,
		TestSamples:     result.test,
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&meta).Error
	}); err != nil {
		retrainFailures.Inc()
		return nil, fmt.Errorf("%w: saving model metadata: %v", ErrPersistence, err)
	}

	s.artifacts.SaveMetrics(result.metrics)
	if err := s.cache.Delete(ctx, CacheKeyModelInfo, CacheKeyLatestMetadata); err != nil {
		log.Printf("retrain: cache invalidation failed: %v", err)
	}
	if err := s.cache.Publish(ctx, ChannelRetrains, RetrainEvent{
		ModelType:       result.model.ModelType,
		R2Score:         result.metrics.R2,
		RMSE:            result.metrics.RMSE,
		TrainingSamples: result.train,
		TestSamples:     result.test,
		TS:              time.Now().UTC(),
	}); err != nil {
		log.Printf("retrain: event publish failed: %v", err)
	}

	retrainRuns.Inc()
	retrainDuration.Observe(time.Since(start).Seconds())

	return &RetrainSummary{
		Message:         "Model retrained successfully with new data",
		R2Score:         roundTo(result.metrics.R2, 4),
		RMSE:            roundTo(result.metrics.RMSE, 2),
		TrainingSamples: result.usable,
		TestSamples:     result.test,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// fitFromRecords runs the pure pipeline stages: drop null targets,
// enforce the minimum-row threshold, split deterministically, transform
// with the frozen preprocessor, fit and evaluate. Nothing is written.
func (s *RetrainService) fitFromRecords(records []models.InsuranceRecord) (*fitResult, error) {
	usable, dropped := usableRecords(records)
	if dropped > 0 {
		log.Printf("retrain: excluded %d training rows with null charges", dropped)
	}
	if len(usable) < s.cfg.MinTrainingRows {
		return nil, fmt.Errorf("%w: need at least %d rows, got %d",
			ErrInsufficientData, s.cfg.MinTrainingRows, len(usable))
	}

	trainRows, testRows := splitTrainTest(usable, s.cfg.TestFraction, s.cfg.SplitSeed)

	// The preprocessor is frozen from initial offline training; it is
	// reloaded but never refit.
	preprocessor, err := s.artifacts.LoadPreprocessor()
	if err != nil {
		return nil, err
	}

	trainX, err := preprocessor.TransformBatch(recordAttributes(trainRows))
	if err != nil {
		return nil, fmt.Errorf("%w: preparing training features: %v", ErrTraining, err)
	}
	testX, err := preprocessor.TransformBatch(recordAttributes(testRows))
	if err != nil {
		return nil, fmt.Errorf("%w: preparing test features: %v", ErrTraining, err)
	}

	model, err := FitLinearRegression(trainX, recordTargets(trainRows))
	if err != nil {
		return nil, err
	}

	predicted, err := model.PredictBatch(testX)
	if err != nil {
		return nil, err
	}
	metrics, err := Evaluate(predicted, recordTargets(testRows))
	if err != nil {
		return nil, err
	}

	return &fitResult{
		model:   model,
		metrics: metrics,
		usable:  len(usable),
		train:   len(trainRows),
		test:    len(testRows),
	}, nil
}

// usableRecords drops training rows whose charges are null. A stray row
// without a target must not poison the fit; the count is logged by the
// caller.
func usableRecords(records []models.InsuranceRecord) ([]models.InsuranceRecord, int) {
	kept := make([]models.InsuranceRecord, 0, len(records))
	for _, r := range records {
		if r.Charges != nil {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// splitTrainTest partitions records deterministically: a Fisher-Yates
// shuffle seeded from config, with the trailing ceil(n*fraction) rows as
// the test set. Identical inputs and seed reproduce identical partitions.
func splitTrainTest(records []models.InsuranceRecord, testFraction float64, seed int64) (train, test []models.InsuranceRecord) {
	n := len(records)
	shuffled := append([]models.InsuranceRecord(nil), records...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(math.Ceil(float64(n) * testFraction))
	if testSize < 1 {
		testSize = 1
	}
	if testSize >= n {
		testSize = n - 1
	}
	return shuffled[:n-testSize], shuffled[n-testSize:]
}

func recordAttributes(records []models.InsuranceRecord) []BeneficiaryAttributes {
	out := make([]BeneficiaryAttributes, len(records))
	for i, r := range records {
		out[i] = BeneficiaryAttributes{
			Age:      r.Age,
			Sex:      r.Sex,
			BMI:      r.BMI,
			Children: r.Children,
			Smoker:   r.Smoker,
			Region:   r.Region,
		}
	}
	return out
}

func recordTargets(records []models.InsuranceRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = *r.Charges
	}
	return out
}

func roundTo(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}
