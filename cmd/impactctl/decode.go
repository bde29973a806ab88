package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/internal/config"
	"github.com/arloliu/impact/record"
)

func (a *app) decodeCmd() *cobra.Command {
	var (
		src     source
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "decode [block-file|-]",
		Short: "Decode a block back into records",
		Long: `Decode a serialized block into the original program records.

Examples:
  impactctl decode programs.blk
  impactctl decode --name portfolio --out records.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBlock(cmd, args, src)
			if err != nil {
				return err
			}

			records, err := block.DecodeBlock(b)
			if err != nil {
				return err
			}
			a.logger.Debug("decoded block", "records", len(records), "identifiers", len(b.Names))

			if outPath != "" {
				if err := writeRecordsFile(outPath, records); err != nil {
					return err
				}
				a.logger.Info("wrote records", "path", outPath, "records", len(records))

				return nil
			}

			return a.renderRecords(cmd.OutOrStdout(), records)
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVar(&outPath, "out", "", "write the records to this file (json, yaml or csv by extension)")

	return cmd
}

func (a *app) renderRecords(w io.Writer, records []record.ProgramRecord) error {
	if a.cfg.Output.Format != config.OutputTable {
		return renderData(w, a.cfg.Output.Format, records)
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Identifier", "Period", "Beneficiaries", "Cost", "Pre", "Post"})
	for _, r := range records {
		tbl.AppendRow(table.Row{
			r.Identifier,
			r.TimePeriod,
			humanize.Comma(r.Beneficiaries),
			humanize.CommafWithDigits(r.Cost, 2),
			r.PreOutcomeScore,
			r.PostOutcomeScore,
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d records", len(records))})
	tbl.Render()

	return nil
}
