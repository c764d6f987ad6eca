package models

import "time"

// PredictionResult is one prediction made against an insurance record.
// Immutable after insert.
type PredictionResult struct {
	ID               uint      `gorm:"column:id;primaryKey" json:"id"`
	RecordID         uint      `gorm:"column:record_id;not null;index" json:"record_id"`
	PredictedCharges float64   `gorm:"column:predicted_charges;not null" json:"predicted_charges"`
	ModelVersion     string    `gorm:"column:model_version;type:varchar(50);not null" json:"model_version"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	InsuranceRecord *InsuranceRecord `gorm:"foreignKey:RecordID" json:"-"`
}

func (PredictionResult) TableName() string { return "prediction_results" }
