package services

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BeneficiaryAttributes is the raw input shared by the prediction and
// retraining paths. Keeping it a single struct (rather than ad-hoc maps)
// pins the feature-column order in one place.
type BeneficiaryAttributes struct {
	Age      int
	Sex      string
	BMI      float64
	Children int
	Smoker   string
	Region   string
}

// NumericFeature holds the frozen standard-scaling parameters for one
// numeric column, fitted offline and never refit here.
type NumericFeature struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// CategoricalFeature holds the fitted one-hot vocabulary for one
// categorical column. All categories are kept (no drop-first).
type CategoricalFeature struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Preprocessor is the frozen, already-fitted transformation: numeric
// features scaled in order, then categorical features one-hot encoded in
// order. Output column order is [age, bmi, children, sex..., smoker...,
// region...] and is identical for predict and retrain.
type Preprocessor struct {
	Numeric     []NumericFeature     `json:"numeric_features"`
	Categorical []CategoricalFeature `json:"categorical_features"`
}

// Width is the number of columns a transformed row has.
func (p *Preprocessor) Width() int {
	width := len(p.Numeric)
	for _, c := range p.Categorical {
		width += len(c.Categories)
	}
	return width
}

// Validate checks the fitted parameters are usable.
func (p *Preprocessor) Validate() error {
	if len(p.Numeric) == 0 && len(p.Categorical) == 0 {
		return fmt.Errorf("preprocessor has no features")
	}
	for _, n := range p.Numeric {
		if n.Scale <= 0 {
			return fmt.Errorf("numeric feature %q has non-positive scale %v", n.Name, n.Scale)
		}
	}
	for _, c := range p.Categorical {
		if len(c.Categories) == 0 {
			return fmt.Errorf("categorical feature %q has empty vocabulary", c.Name)
		}
	}
	return nil
}

// Transform applies the frozen scaling and encoding to one beneficiary,
// yielding a fixed-width numeric row.
func (p *Preprocessor) Transform(attrs BeneficiaryAttributes) ([]float64, error) {
	row := make([]float64, 0, p.Width())

	for _, n := range p.Numeric {
		raw, err := numericValue(attrs, n.Name)
		if err != nil {
			return nil, err
		}
		row = append(row, (raw-n.Mean)/n.Scale)
	}

	for _, c := range p.Categorical {
		raw, err := categoricalValue(attrs, c.Name)
		if err != nil {
			return nil, err
		}
		hot := -1
		for i, cat := range c.Categories {
			if cat == raw {
				hot = i
				break
			}
		}
		if hot < 0 {
			return nil, &PreparationError{
				Feature: c.Name,
				Reason:  fmt.Sprintf("value %q is outside the fitted vocabulary %v", raw, c.Categories),
			}
		}
		for i := range c.Categories {
			if i == hot {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
	}

	return row, nil
}

// TransformBatch transforms a batch of beneficiaries into a feature
// matrix, one row per beneficiary.
func (p *Preprocessor) TransformBatch(batch []BeneficiaryAttributes) (*mat.Dense, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	width := p.Width()
	out := mat.NewDense(len(batch), width, nil)
	for i, attrs := range batch {
		row, err := p.Transform(attrs)
		if err != nil {
			return nil, err
		}
		out.SetRow(i, row)
	}
	return out, nil
}

func numericValue(attrs BeneficiaryAttributes, name string) (float64, error) {
	switch name {
	case "age":
		return float64(attrs.Age), nil
	case "bmi":
		return attrs.BMI, nil
	case "children":
		return float64(attrs.Children), nil
	}
	return 0, &PreparationError{Feature: name, Reason: "unknown numeric feature"}
}

func categoricalValue(attrs BeneficiaryAttributes, name string) (string, error) {
	var v string
	switch name {
	case "sex":
		v = attrs.Sex
	case "smoker":
		v = attrs.Smoker
	case "region":
		v = attrs.Region
	default:
		return "", &PreparationError{Feature: name, Reason: "unknown categorical feature"}
	}
	if v == "" {
		return "", &PreparationError{Feature: name, Reason: "value is required"}
	}
	return v, nil
}
