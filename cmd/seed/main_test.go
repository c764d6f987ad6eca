package main

import (
	"strings"
	"testing"

	"medical-cost-api/models"
)

func TestParseCSV(t *testing.T) {
	input := `age,sex,bmi,children,smoker,region,charges
19,female,27.9,0,yes,southwest,16884.924
18,male,33.77,1,no,southeast,1725.5523
`
	records, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(records))
	}

	first := records[0]
	if first.Age != 19 || first.Sex != "female" || first.BMI != 27.9 {
		t.Errorf("first record = %+v", first)
	}
	if first.Children != 0 || first.Smoker != "yes" || first.Region != "southwest" {
		t.Errorf("first record = %+v", first)
	}
	if first.Charges == nil || *first.Charges != 16884.924 {
		t.Errorf("Charges = %v, want 16884.924", first.Charges)
	}
	if !first.IsTrainingData {
		t.Error("seeded rows must be flagged as training data")
	}
	if first.Source != models.SourceOriginal {
		t.Errorf("Source = %q, want %q", first.Source, models.SourceOriginal)
	}
}

func TestParseCSVColumnOrderIndependent(t *testing.T) {
	input := `charges,region,smoker,children,bmi,sex,age
16884.924,southwest,yes,0,27.9,female,19
`
	records, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("parsed %d records, want 1", len(records))
	}
	r := records[0]
	if r.Age != 19 || r.Region != "southwest" || r.Charges == nil || *r.Charges != 16884.924 {
		t.Errorf("record = %+v", r)
	}
}

func TestParseCSVEmptyCharges(t *testing.T) {
	input := `age,sex,bmi,children,smoker,region,charges
25,male,24.5,2,no,northwest,
`
	records, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("parsed %d records, want 1", len(records))
	}
	if records[0].Charges != nil {
		t.Errorf("Charges = %v, want nil for empty cell", *records[0].Charges)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"missing column",
			"age,sex,bmi,children,smoker,region\n19,female,27.9,0,yes,southwest\n",
		},
		{
			"invalid age",
			"age,sex,bmi,children,smoker,region,charges\nold,female,27.9,0,yes,southwest,100\n",
		},
		{
			"invalid bmi",
			"age,sex,bmi,children,smoker,region,charges\n19,female,heavy,0,yes,southwest,100\n",
		},
		{
			"invalid children",
			"age,sex,bmi,children,smoker,region,charges\n19,female,27.9,two,yes,southwest,100\n",
		},
		{
			"invalid charges",
			"age,sex,bmi,children,smoker,region,charges\n19,female,27.9,0,yes,southwest,lots\n",
		},
		{
			"ragged row",
			"age,sex,bmi,children,smoker,region,charges\n19,female\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	records, err := parseCSV(strings.NewReader("age,sex,bmi,children,smoker,region,charges\n"))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("parsed %d records, want 0", len(records))
	}
}
