package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/daemon"
	"github.com/theirongolddev/bkcost/internal/model"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Month-by-month cost table",
	RunE:  runProject,
}

var (
	projectPerPlan bool
	projectFormat  string
)

func init() {
	projectCmd.Flags().BoolVar(&projectPerPlan, "per-plan", false, "Add a cost column per plan")
	projectCmd.Flags().StringVar(&projectFormat, "format", "table", "Output format: table, csv or json")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	switch projectFormat {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", projectFormat)
	}

	in, pf, err := project(cmd)
	if err != nil {
		return err
	}
	if len(in.plans) == 0 {
		return errNoPlans
	}

	switch projectFormat {
	case "csv":
		return writeProjectCSV(os.Stdout, pf, projectPerPlan)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(daemon.NewProjectResponse(pf))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DETAILED RESULTS  %s", cli.FormatHorizon(pf.TotalMonths))))
	fmt.Println()

	headers, rows := projectRows(pf, projectPerPlan, cli.FormatUSD, cli.FormatGB)
	rows = append(rows, []string{"---"})
	total := []string{"TOTAL", ""}
	if projectPerPlan {
		for _, pp := range pf.Plans {
			total = append(total, cli.FormatUSD(pp.TotalCost))
		}
	}
	rows = append(rows, append(total, cli.FormatUSD(pf.TotalCost)))

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	return nil
}

// projectRows builds one row per month: month, combined storage, optional
// per-plan costs and the combined total.
func projectRows(pf model.Portfolio, perPlan bool, money, size func(float64) string) ([]string, [][]string) {
	headers := []string{"Month", "Storage"}
	if perPlan {
		for _, pp := range pf.Plans {
			headers = append(headers, truncate(pp.Plan.Label(), 20))
		}
	}
	headers = append(headers, "Total Monthly Cost")

	rows := make([][]string, 0, len(pf.Months)+2)
	for i, m := range pf.Months {
		row := []string{fmt.Sprintf("%d", m.Month), size(m.SizeGB)}
		if perPlan {
			for _, pp := range pf.Plans {
				row = append(row, money(pp.Months[i].Cost))
			}
		}
		rows = append(rows, append(row, money(m.Cost)))
	}
	return headers, rows
}

func writeProjectCSV(w io.Writer, pf model.Portfolio, perPlan bool) error {
	headers, rows := projectRows(pf, perPlan, cli.Fixed2, cli.Fixed2)
	headers[1] = "Storage GB"

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
