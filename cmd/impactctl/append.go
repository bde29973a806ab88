package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/impact/block"
)

var errBlockTarget = errors.New("exactly one of --block or --name is required")

func (a *app) appendCmd() *cobra.Command {
	var (
		src       source
		blockPath string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "append <records-file|->",
		Short: "Append records to an existing block",
		Long: `Append records to a block without re-encoding the existing entries.

The block is read from --block and written back in place (or to --out), or read
from the database with --name and saved there as a new version.
Examples:
  impactctl append new.csv --block programs.blk
  impactctl append new.json --name portfolio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (blockPath == "") == (src.name == "") {
				return errBlockTarget
			}

			records, err := parseInput(cmd, args[0], src.format)
			if err != nil {
				return err
			}

			var b *block.EncodedBlock
			if blockPath != "" {
				data, err := os.ReadFile(blockPath)
				if err != nil {
					return fmt.Errorf("read %s: %w", blockPath, err)
				}
				if b, err = block.Unmarshal(data); err != nil {
					return err
				}
			} else if b, err = a.loadStoredBlock(cmd, source{name: src.name}); err != nil {
				return err
			}

			for i, r := range records {
				if b, err = block.Append(b, r); err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
			}
			a.logger.Debug("appended records", "appended", len(records), "total", b.Len())

			data, err := block.Marshal(b, a.cfg.MarshalOptions()...)
			if err != nil {
				return err
			}

			if src.name != "" {
				id, err := a.saveBlock(cmd, src.name, b)
				if err != nil {
					return err
				}

				return a.renderEncoded(cmd.OutOrStdout(), b, len(data), id)
			}

			target := blockPath
			if outPath != "" {
				target = outPath
			}
			if err := os.WriteFile(target, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			a.logger.Info("wrote block", "path", target, "bytes", len(data))

			return a.renderEncoded(cmd.OutOrStdout(), b, len(data), "")
		},
	}

	cmd.Flags().StringVar(&src.format, "format", "", "record file format: json, yaml or csv (default from extension)")
	cmd.Flags().StringVar(&src.name, "name", "", "append to the latest block with this name in the database")
	cmd.Flags().StringVar(&blockPath, "block", "", "block file to append to")
	cmd.Flags().StringVar(&outPath, "out", "", "write the result here instead of overwriting --block")

	return cmd
}
