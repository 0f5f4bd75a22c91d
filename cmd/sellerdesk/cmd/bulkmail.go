package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/api"
	"github.com/sellerdesk/sellerdesk/internal/client"
)

var (
	bulkmailRecipients string
	bulkmailSubject    string
	bulkmailBodyFile   string
	bulkmailMetrics    string
)

var bulkmailCmd = &cobra.Command{
	Use:   "bulkmail",
	Short: "Send bulk mail to a recipient list",
}

var bulkmailSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message to every recipient in a YAML list",
	Long: `Send a message to every recipient in a YAML list, in batches.

The recipient file looks like:

  recipients:
    - name: Ada
      email: ada@example.com
    - name: Grace
      email: grace@example.com

With --metrics-addr the request metrics of the run are served on
/metrics while the batches are in flight.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		recipients, err := api.LoadRecipients(bulkmailRecipients)
		if err != nil {
			return err
		}

		body := ""
		if bulkmailBodyFile != "" {
			data, err := os.ReadFile(bulkmailBodyFile)
			if err != nil {
				return fmt.Errorf("read body file: %w", err)
			}
			body = string(data)
		}

		if bulkmailMetrics != "" {
			reg := prometheus.NewRegistry()
			client.WithMetrics(client.NewMetrics(reg))(app.api.Client())

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			srv := &http.Server{Addr: bulkmailMetrics, Handler: mux}
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					app.logger.Warn("metrics server failed", "error", err)
				}
			}()
			defer srv.Close()
		}

		report, err := app.api.SendBulkMail(cmd.Context(), bulkmailSubject, body, recipients,
			api.BulkMailOptions{
				BatchSize:  app.cfg.Mail.BatchSize,
				BatchDelay: app.cfg.Mail.BatchDelay,
				Audit:      app.activity,
			})
		if report != nil {
			fmt.Printf("Sent %d, failed %d, in %d batches\n",
				report.Sent, report.Failed, report.Batches)
		}
		return err
	},
}

func init() {
	bulkmailSendCmd.Flags().StringVar(&bulkmailRecipients, "recipients", "", "YAML recipient list (required)")
	bulkmailSendCmd.Flags().StringVar(&bulkmailSubject, "subject", "", "mail subject (required)")
	bulkmailSendCmd.Flags().StringVar(&bulkmailBodyFile, "body-file", "", "file containing the mail body")
	bulkmailSendCmd.Flags().StringVar(&bulkmailMetrics, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	_ = bulkmailSendCmd.MarkFlagRequired("recipients")
	_ = bulkmailSendCmd.MarkFlagRequired("subject")
	bulkmailCmd.AddCommand(bulkmailSendCmd)
	rootCmd.AddCommand(bulkmailCmd)
}
