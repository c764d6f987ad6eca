package services

import (
	"errors"
	"math"
	"testing"
)

// newTestPreprocessor mirrors the shape of the offline-fitted artifact:
// standard scaling for [age, bmi, children], one-hot for [sex, smoker,
// region] with sklearn's lexicographic category order.
func newTestPreprocessor() *Preprocessor {
	return &Preprocessor{
		Numeric: []NumericFeature{
			{Name: "age", Mean: 39.2, Scale: 14.0},
			{Name: "bmi", Mean: 30.66, Scale: 6.1},
			{Name: "children", Mean: 1.09, Scale: 1.2},
		},
		Categorical: []CategoricalFeature{
			{Name: "sex", Categories: []string{"female", "male"}},
			{Name: "smoker", Categories: []string{"no", "yes"}},
			{Name: "region", Categories: []string{"northeast", "northwest", "southeast", "southwest"}},
		},
	}
}

func validAttributes() BeneficiaryAttributes {
	return BeneficiaryAttributes{
		Age:      19,
		Sex:      "female",
		BMI:      27.9,
		Children: 0,
		Smoker:   "yes",
		Region:   "southwest",
	}
}

func TestPreprocessorWidth(t *testing.T) {
	p := newTestPreprocessor()
	// 3 numeric + 2 + 2 + 4 one-hot columns
	if got := p.Width(); got != 11 {
		t.Errorf("Width() = %d, want 11", got)
	}
}

func TestTransform(t *testing.T) {
	p := newTestPreprocessor()
	row, err := p.Transform(validAttributes())
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(row) != p.Width() {
		t.Fatalf("row width = %d, want %d", len(row), p.Width())
	}

	// Scaled numerics in order.
	if want := (19.0 - 39.2) / 14.0; math.Abs(row[0]-want) > 1e-9 {
		t.Errorf("scaled age = %v, want %v", row[0], want)
	}
	if want := (27.9 - 30.66) / 6.1; math.Abs(row[1]-want) > 1e-9 {
		t.Errorf("scaled bmi = %v, want %v", row[1], want)
	}
	if want := (0.0 - 1.09) / 1.2; math.Abs(row[2]-want) > 1e-9 {
		t.Errorf("scaled children = %v, want %v", row[2], want)
	}

	// One-hot blocks: sex=female -> [1 0], smoker=yes -> [0 1],
	// region=southwest -> [0 0 0 1].
	wantHot := []float64{1, 0, 0, 1, 0, 0, 0, 1}
	for i, want := range wantHot {
		if row[3+i] != want {
			t.Errorf("one-hot column %d = %v, want %v", 3+i, row[3+i], want)
		}
	}
}

func TestTransformUnknownCategory(t *testing.T) {
	p := newTestPreprocessor()

	tests := []struct {
		name  string
		attrs BeneficiaryAttributes
	}{
		{"unknown region", func() BeneficiaryAttributes {
			a := validAttributes()
			a.Region = "atlantis"
			return a
		}()},
		{"unknown sex", func() BeneficiaryAttributes {
			a := validAttributes()
			a.Sex = "other"
			return a
		}()},
		{"missing smoker", func() BeneficiaryAttributes {
			a := validAttributes()
			a.Smoker = ""
			return a
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Transform(tt.attrs)
			if err == nil {
				t.Fatal("expected error")
			}
			var prepErr *PreparationError
			if !errors.As(err, &prepErr) {
				t.Errorf("error = %v, want *PreparationError", err)
			}
			if !IsClientError(err) {
				t.Error("preparation errors should be client errors")
			}
		})
	}
}

func TestTransformBatch(t *testing.T) {
	p := newTestPreprocessor()

	batch := []BeneficiaryAttributes{
		validAttributes(),
		{Age: 45, Sex: "male", BMI: 33.1, Children: 2, Smoker: "no", Region: "northeast"},
	}

	X, err := p.TransformBatch(batch)
	if err != nil {
		t.Fatalf("TransformBatch failed: %v", err)
	}

	rows, cols := X.Dims()
	if rows != 2 || cols != p.Width() {
		t.Fatalf("dims = (%d, %d), want (2, %d)", rows, cols, p.Width())
	}

	// Batch rows must equal single-row transforms.
	for i, attrs := range batch {
		single, err := p.Transform(attrs)
		if err != nil {
			t.Fatalf("Transform failed: %v", err)
		}
		for j, want := range single {
			if got := X.At(i, j); got != want {
				t.Errorf("X[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestTransformBatchEmpty(t *testing.T) {
	p := newTestPreprocessor()
	if _, err := p.TransformBatch(nil); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestPreprocessorValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := newTestPreprocessor().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("zero scale", func(t *testing.T) {
		p := newTestPreprocessor()
		p.Numeric[0].Scale = 0
		if err := p.Validate(); err == nil {
			t.Error("expected error for zero scale")
		}
	})

	t.Run("empty vocabulary", func(t *testing.T) {
		p := newTestPreprocessor()
		p.Categorical[2].Categories = nil
		if err := p.Validate(); err == nil {
			t.Error("expected error for empty vocabulary")
		}
	})

	t.Run("no features", func(t *testing.T) {
		p := &Preprocessor{}
		if err := p.Validate(); err == nil {
			t.Error("expected error for empty preprocessor")
		}
	})
}
