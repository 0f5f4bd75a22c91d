package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sellerdesk/sellerdesk/internal/audit"
	"github.com/sellerdesk/sellerdesk/internal/client"
)

// Recipient is one bulk-mail addressee.
type Recipient struct {
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email" validate:"required,email"`
}

// recipientFile is the on-disk YAML shape of a recipient list.
type recipientFile struct {
	Recipients []Recipient `yaml:"recipients"`
}

// LoadRecipients reads a YAML recipient list and validates every address.
func LoadRecipients(path string) ([]Recipient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipient file: %w", err)
	}

	var file recipientFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse recipient file: %w", err)
	}
	if len(file.Recipients) == 0 {
		return nil, fmt.Errorf("recipient file %s lists no recipients", path)
	}

	for i, r := range file.Recipients {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("recipient %d (%s): %w", i+1, r.Email, err)
		}
	}
	return file.Recipients, nil
}

// BulkMailOptions tunes the batch dispatcher.
type BulkMailOptions struct {
	// BatchSize is how many recipients go into one API call. Default 50.
	BatchSize int
	// BatchDelay is the pause between batches, giving the backend's mail
	// queue room to drain. Default 2s.
	BatchDelay time.Duration
	// Audit, when non-nil, records one entry per batch.
	Audit *audit.Log
}

// BulkMailReport summarizes a bulk-mail run.
type BulkMailReport struct {
	Batches int
	Sent    int
	Failed  int
}

// bulkMailRequest is the wire payload for one mail batch.
type bulkMailRequest struct {
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	Recipients []Recipient `json:"recipients"`
}

// SendBulkMail dispatches subject/body to all recipients in batches. A
// failed batch is counted and logged but does not stop later batches;
// cancellation via ctx does.
func (a *API) SendBulkMail(ctx context.Context, subject, body string, recipients []Recipient, opts BulkMailOptions) (*BulkMailReport, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = 2 * time.Second
	}

	report := &BulkMailReport{}
	for start := 0; start < len(recipients); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(recipients))
		batch := recipients[start:end]

		if report.Batches > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(opts.BatchDelay):
			}
		}
		report.Batches++

		err := a.c.DoJSON(ctx, client.Request{
			Method: http.MethodPost,
			Path:   "/api/v1/mail/bulk",
			Body:   bulkMailRequest{Subject: subject, Body: body, Recipients: batch},
		}, nil)
		if err != nil {
			report.Failed += len(batch)
			a.logger.Warn("mail batch failed",
				"batch", report.Batches, "recipients", len(batch), "error", err)
			opts.Audit.Record(a.actor(), "mail.batch",
				fmt.Sprintf("batch-%d", report.Batches), audit.OutcomeError, err.Error())
			continue
		}

		report.Sent += len(batch)
		opts.Audit.Record(a.actor(), "mail.batch",
			fmt.Sprintf("batch-%d", report.Batches), audit.OutcomeOK,
			fmt.Sprintf("%d recipients", len(batch)))
	}

	return report, nil
}

// actor returns the session's email for audit attribution, if known.
func (a *API) actor() string {
	if p := a.store.Snapshot().Profile; p != nil {
		return p.Email
	}
	return ""
}
