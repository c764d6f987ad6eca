package models

import "time"

// ModelMetadata is the append-only audit trail of retraining runs, one
// row per completed run. Never updated or deleted.
type ModelMetadata struct {
	ID              uint      `gorm:"column:id;primaryKey" json:"id"`
	ModelType       string    `gorm:"column:model_type;type:varchar(50);not null" json:"model_type"`
	R2Score         float64   `gorm:"column:r2_score;not null" json:"r2_score"`
	MSE             float64   `gorm:"column:mse;not null" json:"mse"`
	MAE             float64   `gorm:"column:mae;not null" json:"mae"`
	TrainingSamples int       `gorm:"column:training_samples;not null" json:"training_samples"`
	TestSamples     int       `gorm:"column:test_samples;not null" json:"test_samples"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ModelMetadata) TableName() string { return "model_metadata" }
