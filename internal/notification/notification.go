package notification

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Linuxfabrik/github-project-createrepo/internal/logging"
	"github.com/Linuxfabrik/github-project-createrepo/pkg/httputil"
)

// WebhookPayload represents the notification payload sent to the webhook
type WebhookPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SweepSummary condenses one sweep for notification purposes.
type SweepSummary struct {
	RunUUID    string
	Done       int
	Failed     int
	Downloaded []string // asset names fetched this sweep
	Failures   []string // "owner/name: STAGE: error" lines
}

// SendWebhook sends a notification to the configured webhook URL. An empty
// URL means notifications are off.
func SendWebhook(webhookURL, title, message string) error {
	if webhookURL == "" {
		return nil
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	payload := WebhookPayload{
		Title:   title,
		Message: message,
	}

	err := httputil.PostJSONWithRetry(context.Background(), client, webhookURL, payload, 3, 2*time.Second,
		func(attempt, maxAttempts int, err error) {
			logging.Warningf("webhook attempt %d/%d failed: %v", attempt, maxAttempts, err)
		})
	if err != nil {
		return fmt.Errorf("failed to send notification: %v", err)
	}

	logging.Infof("notification sent: %s", title)
	return nil
}

// SendSweepNotification reports a finished sweep. Failures never propagate;
// a dead webhook must not fail a sync run.
func SendSweepNotification(webhookURL string, summary SweepSummary) {
	if webhookURL == "" {
		return
	}

	title := fmt.Sprintf("repo sync: %d ok, %d failed", summary.Done, summary.Failed)

	var parts []string
	if len(summary.Downloaded) > 0 {
		parts = append(parts, "downloaded "+strings.Join(summary.Downloaded, ", "))
	}
	if len(summary.Failures) > 0 {
		parts = append(parts, strings.Join(summary.Failures, "; "))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing new")
	}
	message := fmt.Sprintf("run %s: %s", summary.RunUUID, strings.Join(parts, " | "))

	if err := SendWebhook(webhookURL, title, message); err != nil {
		logging.Warningf("failed to send sweep notification: %v", err)
	}
}
