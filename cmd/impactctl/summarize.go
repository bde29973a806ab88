package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/impact/analytics"
	"github.com/arloliu/impact/internal/config"
	"github.com/arloliu/impact/metrics"
)

func (a *app) summarizeCmd() *cobra.Command {
	var (
		src         source
		top         int
		fixedBounds bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [records-or-block-file|-]",
		Short: "Score and rank programs",
		Long: `Compute the impact metrics of every record and rank programs by the
composite impact score of their latest period.

Scores are normalized against the ranges observed in the input unless
--fixed-bounds is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadRecords(cmd, args, src)
			if err != nil {
				return err
			}

			opts := []analytics.Option{
				analytics.WithConcurrency(a.cfg.Metrics.Concurrency),
				analytics.WithWeights(a.cfg.Weights),
			}
			if fixedBounds {
				opts = append(opts, analytics.WithBounds(metrics.FixedBounds()))
			}

			var cache *metrics.Cache
			if a.cfg.Metrics.CacheSize > 0 {
				cache = metrics.NewCache(a.cfg.Metrics.CacheSize)
				opts = append(opts, analytics.WithCache(cache))
			}

			summary, err := analytics.Summarize(records, opts...)
			if err != nil {
				return err
			}
			if cache != nil {
				stats := cache.Stats()
				a.logger.Debug("metric cache", "hits", stats.Hits, "misses", stats.Misses, "entries", stats.Entries, "hit_rate", stats.HitRate())
			}

			if top > 0 {
				summary.Ranking = analytics.Top(summary, top)
			}

			return a.renderSummary(cmd.OutOrStdout(), summary)
		},
	}

	src.bind(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "show only the n best ranked programs (0 shows all)")
	cmd.Flags().BoolVar(&fixedBounds, "fixed-bounds", false, "normalize against fixed reference ranges instead of the input")

	return cmd
}

func (a *app) renderSummary(w io.Writer, s analytics.Summary) error {
	if a.cfg.Output.Format != config.OutputTable {
		return renderData(w, a.cfg.Output.Format, s)
	}

	heading(w, "Summary")
	totals := newTable(w)
	totals.AppendRows([]table.Row{
		{"Programs", humanize.Comma(int64(s.TotalPrograms))},
		{"Records", humanize.Comma(int64(s.TotalRecords))},
		{"Beneficiaries", humanize.Comma(s.TotalBeneficiaries)},
		{"Total cost", humanize.CommafWithDigits(s.TotalCost, 2)},
		{"Average impact score", fmt.Sprintf("%.2f", s.AverageImpactScore)},
		{"Average outcome improvement", fmt.Sprintf("%.2f", s.AverageOutcomeImprovement)},
	})
	totals.Render()

	if len(s.Ranking) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	heading(w, "Ranking")
	ranking := newTable(w)
	ranking.AppendHeader(table.Row{"#", "Program", "Period", "Score", "Outcome", "Cost/Beneficiary", "Growth"})
	for _, p := range s.Ranking {
		name := p.Identifier
		if p.Rank == 1 && p.Score.Valid {
			name = goodColor.Sprint(name)
		}
		ranking.AppendRow(table.Row{
			p.Rank,
			name,
			p.TimePeriod,
			formatScore(p.Score),
			fmt.Sprintf("%.2f", p.Metrics.OutcomeImprovement),
			humanize.CommafWithDigits(p.Metrics.CostPerBeneficiary, 2),
			formatGrowth(p.Metrics.GrowthRate),
		})
	}
	ranking.Render()

	return nil
}
