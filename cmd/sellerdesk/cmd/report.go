package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reportPeriod string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the sales report",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		report, err := app.api.SalesReport(cmd.Context(), reportPeriod)
		if err != nil {
			return err
		}

		fmt.Printf("Sales (%s)\n", report.Period)
		maxRevenue := 0.0
		for _, b := range report.Buckets {
			if b.Revenue > maxRevenue {
				maxRevenue = b.Revenue
			}
		}
		for _, b := range report.Buckets {
			bar := ""
			if maxRevenue > 0 {
				bar = strings.Repeat("#", int(b.Revenue/maxRevenue*40))
			}
			fmt.Printf("%-12s %4d orders %10.2f  %s\n", b.Label, b.Orders, b.Revenue, bar)
		}
		fmt.Printf("Total: %d orders, %.2f revenue\n", report.TotalOrders, report.TotalRevenue)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportPeriod, "period", "daily", "daily, weekly, or monthly")
	rootCmd.AddCommand(reportCmd)
}
