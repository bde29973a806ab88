package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/compress"
	"github.com/arloliu/impact/endian"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/internal/config"
	"github.com/arloliu/impact/section"
)

var compressionTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

type headerReport struct {
	Magic          string `json:"magic"`
	Endian         string `json:"endian"`
	Version        uint8  `json:"version"`
	Compression    string `json:"compression"`
	Entries        uint32 `json:"entries"`
	Names          uint32 `json:"names"`
	PayloadSize    uint32 `json:"payload_size"`
	RawPayloadSize uint32 `json:"raw_payload_size"`
	NamesSize      uint32 `json:"names_size"`
	Checksum       string `json:"checksum"`
}

type compressionReport struct {
	Algorithm      string  `json:"algorithm"`
	CompressedSize int64   `json:"compressed_size"`
	Ratio          float64 `json:"ratio"`
	SpaceSavings   float64 `json:"space_savings_percent"`
}

type inspectReport struct {
	Header      headerReport        `json:"header"`
	Stats       block.Stats         `json:"stats"`
	Compression []compressionReport `json:"compression"`
}

func (a *app) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <block-file|->",
		Short: "Show the layout of a serialized block",
		Long: `Print the header of a serialized block, the savings of the dictionary
and delta encodings, and how each compression algorithm performs on its payload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			header, err := section.ParseBlockHeader(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			b, err := block.Unmarshal(data)
			if err != nil {
				return err
			}

			report, err := inspectBlock(header, b)
			if err != nil {
				return err
			}

			return a.renderInspect(cmd.OutOrStdout(), report)
		},
	}

	return cmd
}

func inspectBlock(header section.BlockHeader, b *block.EncodedBlock) (inspectReport, error) {
	report := inspectReport{
		Header: headerReport{
			Magic:          fmt.Sprintf("0x%04X", header.Flag.GetMagicNumber()),
			Endian:         endian.Name(header.Flag.GetEndianEngine()),
			Version:        header.Version,
			Compression:    header.Flag.Compression().String(),
			Entries:        header.EntryCount,
			Names:          header.NameCount,
			PayloadSize:    header.PayloadSize,
			RawPayloadSize: header.RawPayloadSize,
			NamesSize:      header.NamesSize,
			Checksum:       fmt.Sprintf("%016x", header.Checksum),
		},
		Stats: b.Stats(),
	}

	raw, err := block.Marshal(b, block.WithCompression(format.CompressionNone))
	if err != nil {
		return inspectReport{}, err
	}
	payload := raw[section.HeaderSize:]

	for _, ct := range compressionTypes {
		stats, err := compress.Measure(ct, payload)
		if err != nil {
			return inspectReport{}, err
		}
		report.Compression = append(report.Compression, compressionReport{
			Algorithm:      stats.Algorithm.String(),
			CompressedSize: stats.CompressedSize,
			Ratio:          stats.Ratio(),
			SpaceSavings:   stats.SpaceSavings(),
		})
	}

	return report, nil
}

func (a *app) renderInspect(w io.Writer, r inspectReport) error {
	if a.cfg.Output.Format != config.OutputTable {
		return renderData(w, a.cfg.Output.Format, r)
	}

	h := r.Header
	heading(w, "Header")
	header := newTable(w)
	header.AppendRows([]table.Row{
		{"Magic", h.Magic},
		{"Endian", h.Endian},
		{"Version", h.Version},
		{"Compression", h.Compression},
		{"Entries", humanize.Comma(int64(h.Entries))},
		{"Names", humanize.Comma(int64(h.Names))},
		{"Payload", humanize.Bytes(uint64(h.PayloadSize))},
		{"Raw payload", humanize.Bytes(uint64(h.RawPayloadSize))},
		{"Names section", humanize.Bytes(uint64(h.NamesSize))},
		{"Checksum", h.Checksum},
	})
	header.Render()

	fmt.Fprintln(w)
	heading(w, "Encoding")
	s := r.Stats
	enc := newTable(w)
	enc.AppendHeader(table.Row{"Column", "Plain", "Encoded", "Ratio"})
	enc.AppendRow(table.Row{"identifiers", humanize.Bytes(uint64(s.IdentifierBytes)), humanize.Bytes(uint64(s.EncodedIdentifierBytes)), fmt.Sprintf("%.2fx", s.IdentifierRatio())}) //nolint:gosec
	enc.AppendRow(table.Row{"beneficiaries", humanize.Bytes(uint64(s.BeneficiaryBytes)), humanize.Bytes(uint64(s.EncodedBeneficiaryBytes)), fmt.Sprintf("%.2fx", s.BeneficiaryRatio())}) //nolint:gosec
	enc.AppendFooter(table.Row{fmt.Sprintf("%d raw, %d delta", s.RawEntries, s.DeltaEntries)})
	enc.Render()

	fmt.Fprintln(w)
	heading(w, "Compression")
	comp := newTable(w)
	comp.AppendHeader(table.Row{"Algorithm", "Payload", "Ratio", "Savings"})
	for _, c := range r.Compression {
		comp.AppendRow(table.Row{
			c.Algorithm,
			humanize.Bytes(uint64(c.CompressedSize)), //nolint:gosec
			fmt.Sprintf("%.2f", c.Ratio),
			fmt.Sprintf("%.1f%%", c.SpaceSavings),
		})
	}
	comp.Render()

	return nil
}
