package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/impact/analytics"
	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/forecast"
	"github.com/arloliu/impact/internal/config"
	"github.com/arloliu/impact/record"
)

// programForecast is the best fitting beneficiary model of one program.
type programForecast struct {
	Identifier string    `json:"identifier"`
	Model      string    `json:"model"`
	Formula    string    `json:"formula"`
	RSquared   float64   `json:"r_squared"`
	Projection []float64 `json:"projection"`
}

type trendReport struct {
	Points    []analytics.TrendPoint `json:"points"`
	Forecasts []programForecast      `json:"forecasts,omitempty"`
}

func (a *app) trendCmd() *cobra.Command {
	var (
		src   source
		steps int
	)

	cmd := &cobra.Command{
		Use:   "trend [records-or-block-file|-]",
		Short: "Show beneficiary growth per period",
		Long: `List every record in time period order with its growth rate against the
previous period of the same program.

With --forecast n, fit trend models to each program's beneficiary series and
project the next n periods.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadRecords(cmd, args, src)
			if err != nil {
				return err
			}
			if err := record.ValidateAll(records); err != nil {
				return err
			}

			report := trendReport{}
			for p := range analytics.GrowthTrend(records) {
				report.Points = append(report.Points, p)
			}

			if steps > 0 {
				if report.Forecasts, err = a.forecastPrograms(records, steps); err != nil {
					return err
				}
			}

			return a.renderTrend(cmd.OutOrStdout(), report)
		},
	}

	src.bind(cmd)
	cmd.Flags().IntVar(&steps, "forecast", 0, "project this many periods ahead (0 disables forecasting)")

	return cmd
}

// forecastPrograms fits each program's period-ordered beneficiary series. Programs with
// too few periods to fit are skipped.
func (a *app) forecastPrograms(records []record.ProgramRecord, steps int) ([]programForecast, error) {
	b, err := block.EncodeBatch(record.SortByPeriod(records))
	if err != nil {
		return nil, err
	}

	var out []programForecast
	for _, id := range b.Identifiers() {
		series, err := b.Series(id)
		if err != nil {
			return nil, err
		}

		res, err := forecast.FitSeries(series)
		if errors.Is(err, errs.ErrInsufficientData) {
			a.logger.Debug("skipping forecast", "program", id, "periods", series.Len())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("forecast %s: %w", id, err)
		}

		best := res.BestFit
		out = append(out, programForecast{
			Identifier: id,
			Model:      best.Type.String(),
			Formula:    best.Formula,
			RSquared:   best.RSquared,
			Projection: best.Project(steps),
		})
	}

	slices.SortFunc(out, func(x, y programForecast) int {
		return strings.Compare(x.Identifier, y.Identifier)
	})

	return out, nil
}

func (a *app) renderTrend(w io.Writer, r trendReport) error {
	if a.cfg.Output.Format != config.OutputTable {
		return renderData(w, a.cfg.Output.Format, r)
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Period", "Program", "Beneficiaries", "Growth"})
	for _, p := range r.Points {
		tbl.AppendRow(table.Row{p.TimePeriod, p.Identifier, humanize.Comma(p.Beneficiaries), formatGrowth(p.GrowthRate)})
	}
	tbl.Render()

	if len(r.Forecasts) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	heading(w, "Forecast")
	fc := newTable(w)
	fc.AppendHeader(table.Row{"Program", "Model", "Formula", "R²", "Projection"})
	for _, f := range r.Forecasts {
		projected := make([]string, len(f.Projection))
		for i, v := range f.Projection {
			projected[i] = humanize.CommafWithDigits(v, 0)
		}
		fc.AppendRow(table.Row{f.Identifier, f.Model, f.Formula, fmt.Sprintf("%.4f", f.RSquared), strings.Join(projected, ", ")})
	}
	fc.Render()

	return nil
}
