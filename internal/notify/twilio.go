// Package notify delivers due reminders over Twilio SMS.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/verdantapp/verdant-backend/internal/apps/reminders"
)

// TwilioSender sends reminder texts from the configured number.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilio(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

// Notify sends the reminder to its proxy number. Reminders without a
// proxy target have no recipient on record and are skipped; that is
// not an error, the poller moves on to the next one.
func (t *TwilioSender) Notify(ctx context.Context, r reminders.Reminder) error {
	if !r.IsProxy || r.Proxy == "" {
		slog.Info("reminder has no proxy target, skipping delivery",
			"reminder_id", r.ID, "name", r.Name)
		return nil
	}

	body := "Reminder: " + r.Name
	if r.Notes != "" {
		body += "\n" + r.Notes
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(normalizeNumber(r.Proxy))
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	slog.Info("reminder delivered", "reminder_id", r.ID, "message_sid", sid)
	return nil
}

func normalizeNumber(number string) string {
	if strings.HasPrefix(number, "+") {
		return number
	}
	return "+" + number
}
