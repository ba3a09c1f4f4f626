package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	"github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printAvailableTable(w io.Writer, fields []searchwidget.Available) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tINPUT\tTITLE")
	for _, f := range fields {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Type, f.Input, f.Title)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d fields\n", len(fields))
}

func printTemplateTable(w io.Writer, data []searchfield.TemplateData) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tINPUT\tLABEL\tVALUE\tCHOICES")
	for _, td := range data {
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\t%s\n",
			td[searchfield.DataKey],
			td[searchfield.DataName],
			td[searchfield.DataInput],
			td[searchfield.DataLabel],
			td[searchfield.DataValue],
			choiceSummary(td),
		)
	}
	tw.Flush()
}

func printLegacyTable(w io.Writer, legacy []searchfield.LegacyFormat) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tINPUT\tTITLE")
	for _, l := range legacy {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Field, l.Input, l.Title)
	}
	tw.Flush()
}

// choiceSummary lists choice values, or "-" for fields without choices.
func choiceSummary(td searchfield.TemplateData) string {
	choices, ok := td[searchfield.DataChoices].([]searchfield.Choice)
	if !ok {
		return "-"
	}
	values := make([]string, len(choices))
	for i, c := range choices {
		values[i] = c.Value
	}
	return fmt.Sprint(values)
}
