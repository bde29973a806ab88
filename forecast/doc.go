// Package forecast fits trend models to a program's beneficiary series and
// projects it forward.
//
// The series is treated as y over the 1-based period ordinal x. Fit tries a
// set of least-squares models and ranks them by R²:
//
//   - Linear: y = a + b*x
//   - Logarithmic: y = a + b*ln(x)
//   - Power: y = a * x^b (positive series only)
//   - Exponential: y = a * e^(b*x) (positive series only)
//   - Polynomial: y = a + b*x + c*x² (three or more points)
//
// Example:
//
//	series, _ := b.Series("Food Bank")
//	result, err := forecast.FitSeries(series)
//	if err != nil {
//		return err
//	}
//	next := result.BestFit.Project(4) // the next four periods
package forecast
