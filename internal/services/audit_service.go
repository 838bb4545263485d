// internal/services/audit_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keygate/keygate-backend/internal/config"
)

// AuditEvent is the structured record of one authorization attempt. Reason is
// empty for successful verifications.
type AuditEvent struct {
	LicenseKey     string
	ProductName    string
	ProductVersion string
	TotalRequests  int64
	IP             string
	HWID           string
	UserID         string
	Reason         string
}

// Placeholder values for failures where the license or product could not be
// resolved.
const (
	UnknownProduct = "Unknown Product"
	UnknownVersion = "Unknown Version"
	UnknownUser    = "Unknown User"
)

// Notifier receives the outcome of every verification attempt. Delivery must
// never influence the verification result.
type Notifier interface {
	NotifySuccess(event AuditEvent)
	NotifyFailure(event AuditEvent)
}

// WebhookNotifier posts Discord-compatible embeds to a success sink and a
// failure sink. Delivery is fire-and-forget: it runs on its own goroutine
// with its own timeout, and failures are only logged.
type WebhookNotifier struct {
	client     *http.Client
	successURL string
	failureURL string
}

func NewWebhookNotifier(cfg config.WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		successURL: cfg.SuccessURL,
		failureURL: cfg.FailureURL,
	}
}

func (n *WebhookNotifier) NotifySuccess(event AuditEvent) {
	go n.send(n.successURL, "✅ AUTHORIZED LOGIN", event)
}

func (n *WebhookNotifier) NotifyFailure(event AuditEvent) {
	go n.send(n.failureURL, "❌ UNAUTHORIZED LOGIN", event)
}

type webhookEmbed struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Footer      webhookFooter `json:"footer"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

func (n *WebhookNotifier) send(url, title string, event AuditEvent) {
	if url == "" {
		logrus.WithField("title", title).Debug("Audit sink not configured, dropping event")
		return
	}

	payload := webhookPayload{
		Embeds: []webhookEmbed{{
			Title:       title,
			Description: formatEventDescription(event),
			Footer:      webhookFooter{Text: time.Now().UTC().Format(time.RFC3339)},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode audit event")
		return
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).WithField("url", url).Error("Failed to deliver audit event")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"url":    url,
			"status": resp.StatusCode,
		}).Error("Audit sink rejected event")
	}
}

func formatEventDescription(event AuditEvent) string {
	description := fmt.Sprintf(
		"**License Key:**\n```%s```\n\n"+
			"- License Information:\n"+
			"`🆔` **Product Name:** `%s`\n"+
			"`🔩` **Product Version:** `%s`\n"+
			"`⌛` **Total Requests:** `%d`\n\n"+
			"- Hardware Information:\n"+
			"`🔎` **IP:** `%s`\n"+
			"`💾` **HWID:** `%s`\n\n"+
			"- User Information:\n"+
			"`🗣️` **User:** <@%s>\n"+
			"`🆔` **User ID:** `%s`\n\n",
		event.LicenseKey, event.ProductName, event.ProductVersion,
		event.TotalRequests, event.IP, event.HWID, event.UserID, event.UserID,
	)

	if event.Reason != "" {
		description += fmt.Sprintf("- Problem Details:\n```🛠️ %s```", event.Reason)
	}

	return description
}
