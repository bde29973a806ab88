package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/internal/config"
)

func (a *app) encodeCmd() *cobra.Command {
	var (
		src      source
		outPath  string
		saveName string
	)

	cmd := &cobra.Command{
		Use:   "encode <records-file|->",
		Short: "Encode a record file into a block",
		Long: `Encode program records into a dictionary and delta encoded block.

The block is written to --out, saved in the database under --save, or both.
Examples:
  impactctl encode records.csv --out programs.blk
  impactctl encode records.json --save portfolio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadRecords(cmd, args, src)
			if err != nil {
				return err
			}

			b, err := block.EncodeBatch(records)
			if err != nil {
				return err
			}

			data, err := block.Marshal(b, a.cfg.MarshalOptions()...)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0o600); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				a.logger.Info("wrote block", "path", outPath, "bytes", len(data))
			}

			var id string
			if saveName != "" {
				if id, err = a.saveBlock(cmd, saveName, b); err != nil {
					return err
				}
			}

			return a.renderEncoded(cmd.OutOrStdout(), b, len(data), id)
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVar(&outPath, "out", "", "write the serialized block to this file")
	cmd.Flags().StringVar(&saveName, "save", "", "save the block in the database under this name")

	return cmd
}

func (a *app) saveBlock(cmd *cobra.Command, name string, b *block.EncodedBlock) (string, error) {
	ctx := cmd.Context()

	s, err := a.openStore(ctx)
	if err != nil {
		return "", err
	}
	defer s.Close()

	id, err := s.Save(ctx, name, b, a.cfg.MarshalOptions()...)
	if err != nil {
		return "", err
	}
	a.logger.Info("saved block", "name", name, "id", id, "records", b.Len())

	return id, nil
}

type encodeReport struct {
	ID               string  `json:"id,omitempty"`
	Records          int     `json:"records"`
	Identifiers      int     `json:"identifiers"`
	Compression      string  `json:"compression"`
	SerializedBytes  int     `json:"serialized_bytes"`
	IdentifierRatio  float64 `json:"identifier_ratio"`
	BeneficiaryRatio float64 `json:"beneficiary_ratio"`
}

func (a *app) renderEncoded(w io.Writer, b *block.EncodedBlock, size int, id string) error {
	stats := b.Stats()
	report := encodeReport{
		ID:               id,
		Records:          b.Len(),
		Identifiers:      len(b.Names),
		Compression:      a.cfg.Block.Compression,
		SerializedBytes:  size,
		IdentifierRatio:  stats.IdentifierRatio(),
		BeneficiaryRatio: stats.BeneficiaryRatio(),
	}

	if a.cfg.Output.Format != config.OutputTable {
		return renderData(w, a.cfg.Output.Format, report)
	}

	tbl := newTable(w)
	if id != "" {
		tbl.AppendRow(table.Row{"ID", id})
	}
	tbl.AppendRows([]table.Row{
		{"Records", humanize.Comma(int64(report.Records))},
		{"Identifiers", humanize.Comma(int64(report.Identifiers))},
		{"Compression", report.Compression},
		{"Serialized size", humanize.Bytes(uint64(size))}, //nolint:gosec
		{"Identifier ratio", fmt.Sprintf("%.2fx", report.IdentifierRatio)},
		{"Beneficiary ratio", fmt.Sprintf("%.2fx", report.BeneficiaryRatio)},
	})
	tbl.Render()

	return nil
}
