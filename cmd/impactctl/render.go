package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/impact/internal/config"
	"github.com/arloliu/impact/metrics"
)

const percentageValue = 100

var (
	goodColor    = color.New(color.FgGreen)
	badColor     = color.New(color.FgRed)
	mutedColor   = color.New(color.FgYellow)
	headingColor = color.New(color.FgCyan, color.Bold)
)

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	return tbl
}

// renderData writes v as indented JSON or as block-style YAML. The YAML form
// follows the JSON field names and order.
func renderData(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if format != config.OutputYAML {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	resetStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = w.Write(buf.Bytes())

	return err
}

// resetStyle drops the flow and quoting styles the JSON source imposed.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

func heading(w io.Writer, title string) {
	headingColor.Fprintln(w, title)
}

func formatScore(o metrics.Optional) string {
	v, ok := o.Get()
	if !ok {
		return mutedColor.Sprint(o.String())
	}

	return fmt.Sprintf("%.2f", v)
}

func formatGrowth(o metrics.Optional) string {
	v, ok := o.Get()
	switch {
	case !ok:
		return mutedColor.Sprint(o.String())
	case v > 0:
		return goodColor.Sprintf("%+.1f%%", v*percentageValue)
	case v < 0:
		return badColor.Sprintf("%+.1f%%", v*percentageValue)
	default:
		return fmt.Sprintf("%+.1f%%", v*percentageValue)
	}
}
