package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/impact/delta"
	"github.com/arloliu/impact/errs"
)

func modelOf(t *testing.T, r *Result, mt ModelType) *Model {
	t.Helper()
	for _, m := range r.AllModels {
		if m.Type == mt {
			return m
		}
	}
	t.Fatalf("model %s not fitted", mt)

	return nil
}

func TestFit_Linear(t *testing.T) {
	r, err := Fit([]float64{100, 200, 300, 400})
	require.NoError(t, err)

	require.InDelta(t, 1.0, r.BestFit.RSquared, 1e-9)
	require.InDeltaSlice(t, []float64{500, 600}, r.BestFit.Project(2), 1e-6)

	linear := modelOf(t, r, ModelTypeLinear)
	require.InDeltaSlice(t, []float64{0, 100}, linear.Coefficients, 1e-9)
	require.InDelta(t, 0.0, linear.RMSE, 1e-9)
	require.Equal(t, 4, linear.Points)
}

func TestFit_Exponential(t *testing.T) {
	series := make([]float64, 6)
	for i := range series {
		series[i] = 50 * math.Pow(2, float64(i+1))
	}

	r, err := Fit(series)
	require.NoError(t, err)
	require.Equal(t, ModelTypeExponential, r.BestFit.Type)
	require.InDelta(t, 1.0, r.BestFit.RSquared, 1e-9)
	require.InDelta(t, 50*math.Pow(2, 7), r.BestFit.Project(1)[0], 1e-6)
}

func TestFit_Quadratic(t *testing.T) {
	series := make([]float64, 8)
	for i := range series {
		x := float64(i + 1)
		series[i] = 10 + 2*x + 3*x*x
	}

	r, err := Fit(series)
	require.NoError(t, err)

	poly := modelOf(t, r, ModelTypePolynomial)
	require.InDeltaSlice(t, []float64{10, 2, 3}, poly.Coefficients, 1e-6)
	require.InDelta(t, 1.0, poly.RSquared, 1e-9)
	require.GreaterOrEqual(t, r.BestFit.RSquared, poly.RSquared)
}

func TestFit_RankedByRSquared(t *testing.T) {
	r, err := Fit([]float64{120, 180, 150, 260, 240, 330})
	require.NoError(t, err)
	require.Len(t, r.AllModels, 5)

	for i := 1; i < len(r.AllModels); i++ {
		require.GreaterOrEqual(t, r.AllModels[i-1].RSquared, r.AllModels[i].RSquared)
	}
	require.Same(t, r.AllModels[0], r.BestFit)
	require.Contains(t, r.String(), "TotalModels: 5")
}

func TestFit_ConstantSeries(t *testing.T) {
	r, err := Fit([]float64{250, 250, 250})
	require.NoError(t, err)
	require.InDelta(t, 1.0, r.BestFit.RSquared, 1e-9)
	require.InDeltaSlice(t, []float64{250, 250}, r.BestFit.Project(2), 1e-6)
}

func TestFit_NonPositiveSkipsLogModels(t *testing.T) {
	r, err := Fit([]float64{-5, 0, 5})
	require.NoError(t, err)

	for _, m := range r.AllModels {
		require.NotEqual(t, ModelTypePower, m.Type)
		require.NotEqual(t, ModelTypeExponential, m.Type)
	}
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(nil)
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = Fit([]float64{1})
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, err = Fit([]float64{1, math.NaN()})
	require.ErrorIs(t, err, errs.ErrInsufficientData)
}

func TestFitSeries(t *testing.T) {
	r, err := FitSeries(delta.Series{Base: 200, Deltas: []int64{100}})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{400}, modelOf(t, r, ModelTypeLinear).Project(1), 1e-9)

	_, err = FitSeries(delta.Series{Base: 200})
	require.ErrorIs(t, err, errs.ErrInsufficientData)
}

func TestModel_ProjectAndString(t *testing.T) {
	m := &Model{Type: ModelTypeLinear, Coefficients: []float64{1, 2}, Points: 3}
	require.Nil(t, m.Project(0))
	require.Equal(t, []float64{9, 11}, m.Project(2))
	require.Contains(t, m.String(), "linear")

	require.True(t, math.IsNaN((&Model{Type: ModelType(99)}).Estimate(1)))
	require.Equal(t, "unknown", ModelType(99).String())
}
