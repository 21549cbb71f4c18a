package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/simstats/internal/config"
	"github.com/san-kum/simstats/internal/viz"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			runs, err := a.store.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tTIME\tROWS\tINPUTS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					run.ID,
					run.Kind,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Rows,
					strings.Join(run.Inputs, " "),
				)
			}
			return w.Flush()
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a recorded run with terminal charts of its series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			meta, err := a.store.Load(args[0])
			if err != nil {
				return err
			}

			metrics := []viz.Metric{
				{Label: "kind", Value: meta.Kind},
				{Label: "time", Value: meta.Timestamp.Format("2006-01-02 15:04:05")},
			}
			metrics = append(metrics, sortedMetrics(meta.Params, func(v string) string { return v })...)
			fmt.Println(viz.MetricsPanel(meta.ID, metrics))
			fmt.Println(viz.MetricsPanel("results", sortedMetrics(meta.Results, func(v float64) string {
				return fmt.Sprintf("%.6g", v)
			})))

			series, err := a.store.LoadSeries(args[0])
			if err != nil {
				a.lg.Printf("warning: %v", err)
				return nil
			}
			if len(series.Columns) < 2 {
				return nil
			}
			// The first column is the abscissa.
			for _, name := range series.Columns[1:] {
				col, _ := series.Column(name)
				out, err := viz.Graph(col, viz.GraphOptions{Caption: name + " vs " + series.Columns[0]})
				if err != nil {
					continue
				}
				fmt.Println(out)
				fmt.Println()
			}
			return nil
		},
	}
}

func sortedMetrics[V any](m map[string]V, format func(V) string) []viz.Metric {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]viz.Metric, len(keys))
	for i, k := range keys {
		out[i] = viz.Metric{Label: k, Value: format(m[k])}
	}
	return out
}

func exportJSONCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run's metadata and series as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			return a.store.ExportJSON(args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}
}
