// Command seed bulk-loads historical insurance rows from a CSV file into
// the insurance_records table as training-flagged, source="original"
// data, committing in batches.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"medical-cost-api/config"
	"medical-cost-api/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const batchSize = 50

func main() {
	csvPath := flag.String("csv", "data/insurance.csv", "path to the insurance CSV file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.InsuranceRecord{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV: %v", err)
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("No rows to seed in %s", *csvPath)
	}

	if err := db.CreateInBatches(records, batchSize).Error; err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d insurance records from %s", len(records), *csvPath)
}

// parseCSV reads rows of (age,sex,bmi,children,smoker,region,charges).
// A header row is required; an empty charges cell yields a null charge.
func parseCSV(r io.Reader) ([]models.InsuranceRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"age", "sex", "bmi", "children", "smoker", "region", "charges"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var out []models.InsuranceRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		age, err := strconv.Atoi(row[col["age"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid age: %w", line, err)
		}
		bmi, err := strconv.ParseFloat(row[col["bmi"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid bmi: %w", line, err)
		}
		children, err := strconv.Atoi(row[col["children"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid children: %w", line, err)
		}

		var charges *float64
		if raw := row[col["charges"]]; raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid charges: %w", line, err)
			}
			charges = &v
		}

		out = append(out, models.InsuranceRecord{
			Age:            age,
			Sex:            row[col["sex"]],
			BMI:            bmi,
			Children:       children,
			Smoker:         row[col["smoker"]],
			Region:         row[col["region"]],
			Charges:        charges,
			IsTrainingData: true,
			Source:         models.SourceOriginal,
		})
	}

	return out, nil
}
