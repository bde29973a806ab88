package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/impact/internal/config"
	"github.com/arloliu/impact/store/sqlite"
)

type blockRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	Records     int       `json:"records"`
	Compression string    `json:"compression"`
	Size        int       `json:"size"`
	Checksum    string    `json:"checksum"`
}

func (a *app) blocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Manage blocks in the database",
	}

	cmd.AddCommand(a.blocksListCmd(), a.blocksDeleteCmd())

	return cmd
}

func (a *app) blocksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [name]",
		Short: "List stored blocks, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			var name string
			if len(args) == 1 {
				name = args[0]
			}

			infos, err := s.List(ctx, name)
			if err != nil {
				return err
			}

			return a.renderBlocks(cmd.OutOrStdout(), infos)
		},
	}
}

func (a *app) blocksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored blocks by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range args {
				if err := s.Delete(ctx, id); err != nil {
					return err
				}
				a.logger.Info("deleted block", "id", id)
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}

			return nil
		},
	}
}

func (a *app) renderBlocks(w io.Writer, infos []sqlite.BlockInfo) error {
	rows := make([]blockRow, len(infos))
	for i, info := range infos {
		rows[i] = blockRow{
			ID:          info.ID,
			Name:        info.Name,
			CreatedAt:   info.CreatedAt,
			Records:     info.RecordCount,
			Compression: info.Compression.String(),
			Size:        info.Size,
			Checksum:    fmt.Sprintf("%016x", info.Checksum),
		}
	}

	if a.cfg.Output.Format != config.OutputTable {
		return renderData(w, a.cfg.Output.Format, rows)
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"ID", "Name", "Created", "Records", "Compression", "Size"})
	for _, r := range rows {
		tbl.AppendRow(table.Row{
			r.ID,
			r.Name,
			humanize.Time(r.CreatedAt),
			humanize.Comma(int64(r.Records)),
			r.Compression,
			humanize.Bytes(uint64(r.Size)), //nolint:gosec
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d blocks", len(rows))})
	tbl.Render()

	return nil
}
