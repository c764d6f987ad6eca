package models

import "time"

// Data provenance tags for InsuranceRecord.Source.
const (
	SourceOriginal   = "original"
	SourcePrediction = "prediction"
	SourceUploaded   = "uploaded"
)

// InsuranceRecord is one beneficiary observation. Charges is nullable:
// pure-prediction records keep the predicted value there, but rows can
// arrive without it (e.g. an uploaded file with gaps).
type InsuranceRecord struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Age            int       `gorm:"column:age;not null" json:"age"`
	Sex            string    `gorm:"column:sex;type:varchar(10);not null" json:"sex"`
	BMI            float64   `gorm:"column:bmi;not null" json:"bmi"`
	Children       int       `gorm:"column:children;not null" json:"children"`
	Smoker         string    `gorm:"column:smoker;type:varchar(3);not null" json:"smoker"`
	Region         string    `gorm:"column:region;type:varchar(20);not null" json:"region"`
	Charges        *float64  `gorm:"column:charges" json:"charges"`
	IsTrainingData bool      `gorm:"column:is_training_data;default:true" json:"is_training_data"`
	Source         string    `gorm:"column:source;type:varchar(20);default:original" json:"source"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (InsuranceRecord) TableName() string { return "insurance_records" }
