package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/audit"
)

var invoiceOrders string
var invoiceOut string

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Generate and download invoices",
}

var invoiceGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Submit a bulk invoice generation job",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		var orderIDs []string
		for _, id := range strings.Split(invoiceOrders, ",") {
			if id = strings.TrimSpace(id); id != "" {
				orderIDs = append(orderIDs, id)
			}
		}

		job, err := app.api.GenerateInvoices(cmd.Context(), orderIDs)
		if err != nil {
			app.activity.Record(app.actorEmail(), "invoice.generate", "", audit.OutcomeError, err.Error())
			return err
		}
		app.activity.Record(app.actorEmail(), "invoice.generate", job.ID, audit.OutcomeOK,
			fmt.Sprintf("%d orders", len(orderIDs)))
		fmt.Printf("Invoice job %s submitted for %d orders (%s)\n", job.ID, len(orderIDs), job.Status)
		return nil
	},
}

var invoiceStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the state of a bulk generation job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		job, err := app.api.InvoiceJobStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Job %s: %s (%d orders)\n", job.ID, job.Status, job.Count)
		return nil
	},
}

var invoiceDownloadCmd = &cobra.Command{
	Use:   "download <invoice-id>",
	Short: "Download an invoice PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		out := invoiceOut
		if out == "" {
			out = args[0] + ".pdf"
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		n, err := app.api.DownloadInvoicePDF(cmd.Context(), args[0], f)
		if err != nil {
			os.Remove(out)
			return err
		}
		fmt.Printf("Wrote %s (%d bytes)\n", out, n)
		return nil
	},
}

func init() {
	invoiceGenerateCmd.Flags().StringVar(&invoiceOrders, "orders", "", "comma-separated order ids")
	invoiceDownloadCmd.Flags().StringVar(&invoiceOut, "out", "", "output file (default: <invoice-id>.pdf)")
	invoiceCmd.AddCommand(invoiceGenerateCmd, invoiceStatusCmd, invoiceDownloadCmd)
	rootCmd.AddCommand(invoiceCmd)
}
