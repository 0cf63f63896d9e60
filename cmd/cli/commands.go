package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"paxboard/app"
	"paxboard/domain/report"
	chartbuilder "paxboard/internal/chart"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the summary report of the filtered passengers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, c, err := setup(cmd)
			if err != nil {
				return err
			}
			view, err := svc.Filter(cmd.Context(), c)
			if err != nil {
				return err
			}
			summary, err := svc.Report(cmd.Context(), c)
			if err != nil {
				return err
			}

			pterm.DefaultHeader.WithFullWidth().Printf("%d of %d passengers", view.Table.Len(), view.Total)
			pterm.Info.Println(describeCriteria(view.Criteria))

			columns := pterm.TableData{{"Column", "Type", "Non-null", "Unique"}}
			for _, col := range summary.Columns {
				columns = append(columns, []string{col.Name, string(col.Type), strconv.Itoa(col.NonNull), strconv.Itoa(col.Unique)})
			}
			if err := renderTable(columns); err != nil {
				return err
			}

			numeric := pterm.TableData{{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"}}
			for _, s := range summary.Numeric {
				numeric = append(numeric, []string{
					s.Column, strconv.Itoa(s.Count),
					number(s.Mean), number(s.Std), number(s.Min), number(s.Q25), number(s.Q50), number(s.Q75), number(s.Max),
				})
			}
			if err := renderTable(numeric); err != nil {
				return err
			}

			categorical := pterm.TableData{{"Column", "Count", "Unique", "Top", "Freq"}}
			for _, s := range summary.Categorical {
				categorical = append(categorical, []string{s.Column, strconv.Itoa(s.Count), strconv.Itoa(s.Unique), s.Top, strconv.Itoa(s.Freq)})
			}
			return renderTable(categorical)
		},
	}
}

func newPreviewCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the first rows of the filtered passengers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, c, err := setup(cmd)
			if err != nil {
				return err
			}
			head, err := svc.Preview(cmd.Context(), c, rows)
			if err != nil {
				return err
			}
			if head.Len() == 0 {
				pterm.Warning.Println("no passengers match the filters")
				return nil
			}
			return renderTable(head.Records())
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "number of rows (default $PREVIEW_ROWS)")
	return cmd
}

func newCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts <column>",
		Short: "Print the value counts of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, c, err := setup(cmd)
			if err != nil {
				return err
			}
			counts, err := svc.Counts(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			data := pterm.TableData{{args[0], "Count"}}
			for _, vc := range counts {
				data = append(data, []string{vc.Value, strconv.Itoa(vc.Count)})
			}
			return renderTable(data)
		},
	}
}

func newCorrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "corr",
		Short: "Print the Pearson correlation matrix of the numeric columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, c, err := setup(cmd)
			if err != nil {
				return err
			}
			matrix, err := svc.Correlation(cmd.Context(), c)
			if err != nil {
				return err
			}
			data := pterm.TableData{append([]string{""}, matrix.Columns...)}
			for i, col := range matrix.Columns {
				row := []string{col}
				for _, v := range matrix.Values[i] {
					row = append(row, number(v))
				}
				data = append(data, row)
			}
			if err := renderTable(data); err != nil {
				return err
			}
			pterm.Info.Println("n/a marks pairs involving a constant column")
			return nil
		},
	}
}

func newChartCmd() *cobra.Command {
	var out string
	var opts app.ChartOptions
	cmd := &cobra.Command{
		Use:   "chart <name>",
		Short: "Render a dashboard chart or an ad-hoc chart kind to PNG",
		Long: fmt.Sprintf(`Render a chart to a PNG file.

Dashboard charts: %v
Ad-hoc kinds: histogram, bar, pie (--column) and scatter (--x, --y, --color).`, chartbuilder.PresetNames),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, c, err := setup(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + ".png"
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := svc.ChartImage(cmd.Context(), c, args[0], opts, f); err != nil {
				os.Remove(out)
				return err
			}
			pterm.Success.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <name>.png)")
	cmd.Flags().StringVar(&opts.Column, "column", "", "column of histogram, bar and pie charts")
	cmd.Flags().StringVar(&opts.X, "x", "", "x column of scatter charts")
	cmd.Flags().StringVar(&opts.Y, "y", "", "y column of scatter charts")
	cmd.Flags().StringVar(&opts.Color, "color", "", "color column of scatter charts")
	cmd.Flags().IntVar(&opts.Bins, "bins", 0, "numeric histogram bins (default $HISTOGRAM_BINS)")
	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "rows of the age preset")
	return cmd
}

func newExportCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the report and a preview of the filtered passengers to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, c, err := setup(cmd)
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := svc.Export(cmd.Context(), c, rows, f); err != nil {
				os.Remove(args[0])
				return err
			}
			pterm.Success.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "preview rows to include (default $PREVIEW_ROWS)")
	return cmd
}

func renderTable(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func number(n report.Number) string {
	if !n.Defined() {
		return "n/a"
	}
	return strconv.FormatFloat(n.Float(), 'f', 3, 64)
}
