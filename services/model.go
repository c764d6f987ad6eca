package services

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const ModelTypeLinearRegression = "LinearRegression"

// epsilon is float64 machine epsilon, used for the rank tolerance cutoff.
const epsilon = 2.220446049250313e-16

// LinearModel is the serialized fitted model: an intercept plus one
// coefficient per preprocessed feature column. Predict is a pure
// function of the model and the prepared row.
type LinearModel struct {
	ModelType    string    `json:"model_type"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	TrainedAt    time.Time `json:"trained_at"`
}

// Predict returns the point estimate for one prepared feature row.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: feature width %d does not match model width %d",
			ErrTraining, len(features), len(m.Coefficients))
	}
	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return y, nil
}

// PredictBatch predicts every row of a prepared feature matrix.
func (m *LinearModel) PredictBatch(X *mat.Dense) ([]float64, error) {
	rows, cols := X.Dims()
	if cols != len(m.Coefficients) {
		return nil, fmt.Errorf("%w: feature width %d does not match model width %d",
			ErrTraining, cols, len(m.Coefficients))
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		y, err := m.Predict(mat.Row(nil, i, X))
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// FitLinearRegression fits ordinary least squares on the prepared
// training matrix and target vector. The solve is SVD-based with rank
// truncation: one-hot feature blocks are collinear with the intercept
// column, so the design matrix is rank deficient by construction and a
// plain QR solve would blow up. The minimum-norm solution is taken,
// which is also what sklearn's lstsq-backed LinearRegression yields.
func FitLinearRegression(X *mat.Dense, y []float64) (*LinearModel, error) {
	rows, cols := X.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("%w: %d feature rows but %d targets", ErrTraining, rows, len(y))
	}
	if rows <= cols {
		return nil, fmt.Errorf("%w: %d rows cannot determine %d coefficients", ErrTraining, rows, cols+1)
	}

	// Design matrix with a leading ones column for the intercept.
	design := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		design.Set(i, 0, 1)
	}
	design.Slice(0, rows, 1, cols+1).(*mat.Dense).Copy(X)

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: SVD factorization did not converge", ErrTraining)
	}

	values := svd.Values(nil)
	tol := float64(rows) * values[0] * epsilon
	rank := 0
	for _, v := range values {
		if v > tol {
			rank++
		}
	}
	if rank == 0 {
		return nil, fmt.Errorf("%w: design matrix has rank zero", ErrTraining)
	}

	target := mat.NewDense(rows, 1, append([]float64(nil), y...))
	var beta mat.Dense
	svd.SolveTo(&beta, target, rank)

	coefs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		coefs[j] = beta.At(j+1, 0)
	}
	for _, c := range append([]float64{beta.At(0, 0)}, coefs...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: degenerate fit produced non-finite coefficients", ErrTraining)
		}
	}

	return &LinearModel{
		ModelType:    ModelTypeLinearRegression,
		Intercept:    beta.At(0, 0),
		Coefficients: coefs,
		TrainedAt:    time.Now().UTC(),
	}, nil
}

// EvalMetrics is the held-out evaluation of a fitted model.
type EvalMetrics struct {
	R2   float64 `json:"r2_score"`
	MSE  float64 `json:"mse"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
}

// Evaluate computes r², mean squared error, mean absolute error and
// root-mean-squared error of predictions against actual targets.
func Evaluate(predicted, actual []float64) (EvalMetrics, error) {
	if len(predicted) != len(actual) || len(predicted) == 0 {
		return EvalMetrics{}, fmt.Errorf("%w: evaluation needs matching non-empty slices", ErrTraining)
	}

	var sse, sae float64
	for i := range predicted {
		diff := predicted[i] - actual[i]
		sse += diff * diff
		sae += math.Abs(diff)
	}
	n := float64(len(predicted))
	mse := sse / n

	return EvalMetrics{
		R2:   stat.RSquaredFrom(predicted, actual, nil),
		MSE:  mse,
		MAE:  sae / n,
		RMSE: math.Sqrt(mse),
	}, nil
}
