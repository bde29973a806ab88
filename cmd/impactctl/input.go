package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/record"
	"github.com/arloliu/impact/section"
)

// Record file formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSV  = "csv"
)

// stdinPath selects standard input instead of a file.
const stdinPath = "-"

var errNoInput = errors.New("no input: pass a file, --name or --id")

// csvColumns is the header written to and expected in CSV record files.
var csvColumns = []string{
	record.FieldIdentifier,
	record.FieldTimePeriod,
	record.FieldBeneficiaries,
	record.FieldCost,
	record.FieldPreOutcomeScore,
	record.FieldPostOutcomeScore,
}

// source selects where a command reads its records or block from.
type source struct {
	format string
	name   string
	id     string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.format, "format", "", "record file format: json, yaml or csv (default from extension)")
	cmd.Flags().StringVar(&s.name, "name", "", "read the latest block with this name from the database")
	cmd.Flags().StringVar(&s.id, "id", "", "read the block with this ID from the database")
}

func (s *source) fromStore() bool {
	return s.name != "" || s.id != ""
}

// loadBlock reads a block from the database or from args[0], which may hold
// either a serialized block or a record file.
func (a *app) loadBlock(cmd *cobra.Command, args []string, src source) (*block.EncodedBlock, error) {
	if src.fromStore() {
		return a.loadStoredBlock(cmd, src)
	}
	if len(args) == 0 {
		return nil, errNoInput
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return nil, err
	}
	if isBlock(data) {
		return block.Unmarshal(data)
	}

	records, err := parseRecords(data, args[0], src.format)
	if err != nil {
		return nil, err
	}

	return block.EncodeBatch(records)
}

// loadRecords reads records from the database or from args[0].
func (a *app) loadRecords(cmd *cobra.Command, args []string, src source) ([]record.ProgramRecord, error) {
	if src.fromStore() {
		b, err := a.loadStoredBlock(cmd, src)
		if err != nil {
			return nil, err
		}

		return block.DecodeBlock(b)
	}
	if len(args) == 0 {
		return nil, errNoInput
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return nil, err
	}
	if isBlock(data) {
		b, err := block.Unmarshal(data)
		if err != nil {
			return nil, err
		}

		return block.DecodeBlock(b)
	}

	return parseRecords(data, args[0], src.format)
}

func (a *app) loadStoredBlock(cmd *cobra.Command, src source) (*block.EncodedBlock, error) {
	ctx := cmd.Context()

	s, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var b *block.EncodedBlock
	if src.id != "" {
		b, _, err = s.Load(ctx, src.id)
	} else {
		b, _, err = s.LoadLatest(ctx, src.name)
	}
	if err != nil {
		return nil, err
	}

	return b, nil
}

// parseInput reads a record file; serialized blocks are not accepted.
func parseInput(cmd *cobra.Command, path, format string) ([]record.ProgramRecord, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}

	return parseRecords(data, path, format)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// isBlock reports whether data starts with a valid block header.
func isBlock(data []byte) bool {
	_, err := section.ParseBlockHeader(data)
	return err == nil
}

// detectFormat returns override if set, otherwise the format implied by the
// extension of path. Standard input defaults to JSON.
func detectFormat(path, override string) (string, error) {
	name := override
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if path == stdinPath {
			name = formatJSON
		}
	}

	switch name {
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	case formatCSV:
		return formatCSV, nil
	default:
		return "", fmt.Errorf("unknown record format %q for %s", name, path)
	}
}

func parseRecords(data []byte, path, override string) ([]record.ProgramRecord, error) {
	format, err := detectFormat(path, override)
	if err != nil {
		return nil, err
	}

	var records []record.ProgramRecord
	switch format {
	case formatJSON:
		err = json.Unmarshal(data, &records)
	case formatYAML:
		err = yaml.Unmarshal(data, &records)
	case formatCSV:
		records, err = readCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s records from %s: %w", format, path, err)
	}

	return records, nil
}

func readCSV(r io.Reader) ([]record.ProgramRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var records []record.ProgramRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		r, err := parseCSVRow(row, index)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
	}

	return records, nil
}

func parseCSVRow(row []string, index map[string]int) (record.ProgramRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[index[name]])
	}

	r := record.ProgramRecord{
		Identifier: field(record.FieldIdentifier),
		TimePeriod: field(record.FieldTimePeriod),
	}

	var err error
	if r.Beneficiaries, err = strconv.ParseInt(field(record.FieldBeneficiaries), 10, 64); err != nil {
		return r, fmt.Errorf("%s: %w", record.FieldBeneficiaries, err)
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{record.FieldCost, &r.Cost},
		{record.FieldPreOutcomeScore, &r.PreOutcomeScore},
		{record.FieldPostOutcomeScore, &r.PostOutcomeScore},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(field(f.name), 64); err != nil {
			return r, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	return r, nil
}

// writeRecordsFile writes records to path in the format implied by its extension.
func writeRecordsFile(path string, records []record.ProgramRecord) error {
	format, err := detectFormat(path, "")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeRecords(&buf, format, records); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func writeRecords(w io.Writer, format string, records []record.ProgramRecord) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(records)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}

		return enc.Close()
	case formatCSV:
		return writeCSV(w, records)
	default:
		return fmt.Errorf("unknown record format %q", format)
	}
}

func writeCSV(w io.Writer, records []record.ProgramRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Identifier,
			r.TimePeriod,
			strconv.FormatInt(r.Beneficiaries, 10),
			strconv.FormatFloat(r.Cost, 'g', -1, 64),
			strconv.FormatFloat(r.PreOutcomeScore, 'g', -1, 64),
			strconv.FormatFloat(r.PostOutcomeScore, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
