package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault carries the scheduled store maintenance jobs.
	QueueDefault = "default"
	// QueueMail carries outbound mail so a slow SMTP relay cannot
	// starve the scans and summaries.
	QueueMail = "mail"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeLowStockScan walks every store's inventory for products
	// under the alert threshold.
	TaskTypeLowStockScan = "inventory:low_stock_scan"
	// TaskTypeDailySummary builds the previous day's sales digest and
	// enqueues it for delivery.
	TaskTypeDailySummary = "sales:daily_summary"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP/Mailpit.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// NewLowStockScanTask constructs the scheduled low-stock scan task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLowStockScan, nil)
}

// NewDailySummaryTask constructs the scheduled daily summary task.
func NewDailySummaryTask() *asynq.Task {
	return asynq.NewTask(TaskTypeDailySummary, nil)
}
