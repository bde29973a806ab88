package forecast

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/impact/delta"
	"github.com/arloliu/impact/errs"
)

// Fit fits every applicable model to series and ranks them by R².
//
// Returns errs.ErrInsufficientData for fewer than two points or a series
// containing non-finite values.
func Fit(series []float64) (*Result, error) {
	n := len(series)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", errs.ErrInsufficientData, n)
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: point %d is not finite", errs.ErrInsufficientData, i)
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i + 1)
	}
	y := slices.Clone(series)

	models := []*Model{
		fitLinear(x, y),
		fitLogarithmic(x, y),
	}
	if allPositive(y) {
		models = append(models, fitPower(x, y), fitExponential(x, y))
	}
	if n >= 3 {
		if m := fitPolynomial(x, y); m != nil {
			models = append(models, m)
		}
	}

	for _, m := range models {
		m.Points = n
	}

	slices.SortStableFunc(models, func(a, b *Model) int {
		return cmp.Compare(b.RSquared, a.RSquared)
	})

	return &Result{
		BestFit:   models[0],
		AllModels: models,
	}, nil
}

// FitSeries fits the decoded values of a delta series.
func FitSeries(s delta.Series) (*Result, error) {
	values := delta.Decode(s)
	series := make([]float64, len(values))
	for i, v := range values {
		series[i] = float64(v)
	}

	return Fit(series)
}

// leastSquares returns a and b of y = a + b*x.
func leastSquares(x, y []float64) (a, b float64) {
	n := float64(len(x))

	var sumX, sumY, sumXY, sumX2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}

	meanX := sumX / n
	meanY := sumY / n
	b = (sumXY - n*meanX*meanY) / (sumX2 - n*meanX*meanX)
	a = meanY - b*meanX

	return a, b
}

func fitLinear(x, y []float64) *Model {
	a, b := leastSquares(x, y)

	return finish(&Model{
		Type:         ModelTypeLinear,
		Coefficients: []float64{a, b},
		Formula:      fmt.Sprintf("y = %.2f + %.2f*x", a, b),
	}, x, y)
}

func fitLogarithmic(x, y []float64) *Model {
	lx := mapSlice(x, math.Log)
	a, b := leastSquares(lx, y)

	return finish(&Model{
		Type:         ModelTypeLogarithmic,
		Coefficients: []float64{a, b},
		Formula:      fmt.Sprintf("y = %.2f + %.2f*ln(x)", a, b),
	}, x, y)
}

// fitPower fits ln(y) = ln(a) + b*ln(x).
func fitPower(x, y []float64) *Model {
	logA, b := leastSquares(mapSlice(x, math.Log), mapSlice(y, math.Log))
	a := math.Exp(logA)

	return finish(&Model{
		Type:         ModelTypePower,
		Coefficients: []float64{a, b},
		Formula:      fmt.Sprintf("y = %.2f * x^%.3f", a, b),
	}, x, y)
}

// fitExponential fits ln(y) = ln(a) + b*x.
func fitExponential(x, y []float64) *Model {
	logA, b := leastSquares(x, mapSlice(y, math.Log))
	a := math.Exp(logA)

	return finish(&Model{
		Type:         ModelTypeExponential,
		Coefficients: []float64{a, b},
		Formula:      fmt.Sprintf("y = %.2f * e^(%.3f*x)", a, b),
	}, x, y)
}

// fitPolynomial solves the quadratic normal equations with Cramer's rule.
// Returns nil when the system is singular.
func fitPolynomial(x, y []float64) *Model {
	n := float64(len(x))

	var sumX, sumX2, sumX3, sumX4, sumY, sumXY, sumX2Y float64
	for i := range x {
		xi := x[i]
		xi2 := xi * xi
		sumX += xi
		sumX2 += xi2
		sumX3 += xi2 * xi
		sumX4 += xi2 * xi2
		sumY += y[i]
		sumXY += xi * y[i]
		sumX2Y += xi2 * y[i]
	}

	// cofactor expansion of the normal equation matrix
	//   [n     sumX   sumX2] [a]   [sumY  ]
	//   [sumX  sumX2  sumX3] [b] = [sumXY ]
	//   [sumX2 sumX3  sumX4] [c]   [sumX2Y]
	det := n*(sumX2*sumX4-sumX3*sumX3) - sumX*(sumX*sumX4-sumX3*sumX2) + sumX2*(sumX*sumX3-sumX2*sumX2)
	if math.Abs(det) < 1e-10 {
		return nil
	}

	detA := sumY*(sumX2*sumX4-sumX3*sumX3) - sumX*(sumXY*sumX4-sumX3*sumX2Y) + sumX2*(sumXY*sumX3-sumX2*sumX2Y)
	detB := n*(sumXY*sumX4-sumX3*sumX2Y) - sumY*(sumX*sumX4-sumX3*sumX2) + sumX2*(sumX*sumX2Y-sumXY*sumX2)
	detC := n*(sumX2*sumX2Y-sumXY*sumX3) - sumX*(sumX*sumX2Y-sumXY*sumX2) + sumY*(sumX*sumX3-sumX2*sumX2)

	a, b, c := detA/det, detB/det, detC/det

	return finish(&Model{
		Type:         ModelTypePolynomial,
		Coefficients: []float64{a, b, c},
		Formula:      fmt.Sprintf("y = %.2f + %.2f*x + %.4f*x²", a, b, c),
	}, x, y)
}

func finish(m *Model, x, y []float64) *Model {
	predicted := make([]float64, len(x))
	for i := range x {
		predicted[i] = m.Estimate(x[i])
	}
	m.RSquared = calculateRSquared(y, predicted)
	m.RMSE = calculateRMSE(y, predicted)

	return m
}

// calculateRSquared returns 1 - SS_res/SS_tot. A constant series scores 1 when
// predicted exactly and 0 otherwise.
func calculateRSquared(observed, predicted []float64) float64 {
	mean := calculateMean(observed)

	var ssTot, ssRes float64
	for i := range observed {
		ssTot += (observed[i] - mean) * (observed[i] - mean)
		ssRes += (observed[i] - predicted[i]) * (observed[i] - predicted[i])
	}

	if math.IsNaN(ssRes) {
		return math.Inf(-1)
	}
	if ssTot == 0 {
		if ssRes < 1e-12 {
			return 1
		}

		return 0
	}

	return 1.0 - (ssRes / ssTot)
}

func calculateRMSE(observed, predicted []float64) float64 {
	var sumSq float64
	for i := range observed {
		diff := observed[i] - predicted[i]
		sumSq += diff * diff
	}

	return math.Sqrt(sumSq / float64(len(observed)))
}

func calculateMean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func allPositive(values []float64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}

	return true
}

func mapSlice(values []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = fn(v)
	}

	return out
}
