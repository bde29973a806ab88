package forecast

import (
	"fmt"
	"math"
)

// ModelType identifies the shape of a fitted model.
type ModelType uint8

const (
	ModelTypeLinear ModelType = iota
	ModelTypeLogarithmic
	ModelTypePower
	ModelTypeExponential
	ModelTypePolynomial
)

// String returns the string representation of the model type.
func (mt ModelType) String() string {
	switch mt {
	case ModelTypeLinear:
		return "linear"
	case ModelTypeLogarithmic:
		return "logarithmic"
	case ModelTypePower:
		return "power"
	case ModelTypeExponential:
		return "exponential"
	case ModelTypePolynomial:
		return "polynomial"
	default:
		return "unknown"
	}
}

// Model is one fitted trend model.
type Model struct {
	// Type is the model shape.
	Type ModelType
	// Coefficients holds a, b (and c for polynomial) as named in the package doc.
	Coefficients []float64
	// RSquared is the coefficient of determination (goodness of fit, at most 1).
	RSquared float64
	// RMSE is the root mean square error, in beneficiaries.
	RMSE float64
	// Formula is a human-readable representation of the model.
	Formula string
	// Points is the number of observations the model was fitted to.
	Points int
}

// Estimate evaluates the model at period ordinal x.
func (m *Model) Estimate(x float64) float64 {
	c := m.Coefficients
	switch m.Type {
	case ModelTypeLinear:
		return c[0] + c[1]*x
	case ModelTypeLogarithmic:
		if x <= 0 {
			return math.NaN()
		}

		return c[0] + c[1]*math.Log(x)
	case ModelTypePower:
		return c[0] * math.Pow(x, c[1])
	case ModelTypeExponential:
		return c[0] * math.Exp(c[1]*x)
	case ModelTypePolynomial:
		return c[0] + c[1]*x + c[2]*x*x
	default:
		return math.NaN()
	}
}

// Project returns the estimates for the steps periods following the fitted series.
func (m *Model) Project(steps int) []float64 {
	if steps <= 0 {
		return nil
	}

	out := make([]float64, steps)
	for i := range out {
		out[i] = m.Estimate(float64(m.Points + i + 1))
	}

	return out
}

// String returns a string representation of the model.
func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.4f, Formula: %s}",
		m.Type, m.RSquared, m.RMSE, m.Formula)
}

// Result is the outcome of fitting a series.
type Result struct {
	// BestFit is the model with the highest R².
	BestFit *Model
	// AllModels contains every fitted model ranked by R² (best first).
	AllModels []*Model
}

// String returns a string representation of the result.
func (r *Result) String() string {
	if r.BestFit == nil {
		return "Result{BestFit: nil}"
	}

	return fmt.Sprintf("Result{BestFit: %s, TotalModels: %d}", r.BestFit, len(r.AllModels))
}
