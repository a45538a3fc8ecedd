package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Kartik1014/Rentit/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorRed    = 16711680 // #FF0000
	ColorGreen  = 65280    // #00FF00
	ColorOrange = 16753920 // #FFA500
	ColorGrey   = 9807270  // #95A5A6

	Username = "RentIt Bookings"
)

type style struct {
	headline   string
	discord    int
	slackColor string
	emoji      string
}

var statusStyles = map[models.BookingStatus]style{
	models.BookingPending:   {"📬 **NEW BOOKING REQUEST**", ColorOrange, "warning", ":mailbox_with_mail:"},
	models.BookingApproved:  {"✅ **BOOKING APPROVED**", ColorGreen, "good", ":white_check_mark:"},
	models.BookingRejected:  {"❌ **BOOKING REJECTED**", ColorRed, "danger", ":x:"},
	models.BookingCancelled: {"🚫 **BOOKING CANCELLED**", ColorGrey, "#95A5A6", ":no_entry_sign:"},
}

// WebhookPublisher posts booking events to Discord and/or Slack incoming webhooks.
type WebhookPublisher struct {
	discordURL string
	slackURL   string
	client     *http.Client
}

func NewWebhookPublisher(discordURL, slackURL string) *WebhookPublisher {
	return &WebhookPublisher{
		discordURL: discordURL,
		slackURL:   slackURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookPublisher) Publish(ctx context.Context, event BookingEvent) error {
	if w.discordURL != "" {
		if err := w.post(ctx, w.discordURL, discordPayload(event)); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if w.slackURL != "" {
		if err := w.post(ctx, w.slackURL, slackPayload(event)); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func styleFor(status models.BookingStatus) style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return style{headline: "**BOOKING UPDATED**", discord: ColorGrey, slackColor: "#95A5A6"}
}

func discordPayload(event BookingEvent) DiscordWebhookRequest {
	s := styleFor(event.Status)

	return DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       s.headline,
				Description: fmt.Sprintf("Booking #%d for **%s** is now %s.", event.BookingID, event.PropertyTitle, event.Status),
				Color:       s.discord,
				Fields: []DiscordWebhookField{
					{Name: "🏠 Property", Value: event.PropertyTitle, Inline: true},
					{Name: "📅 Check-in", Value: event.CheckInDate, Inline: true},
					{Name: "⚠️ Status", Value: "**" + string(event.Status) + "**", Inline: true},
					{Name: "👤 Tenant ID", Value: fmt.Sprintf("%d", event.TenantID), Inline: true},
					{Name: "🔑 Owner ID", Value: fmt.Sprintf("%d", event.OwnerID), Inline: true},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Booking #%d | RentIt", event.BookingID),
				},
				Timestamp: event.OccurredAt.Format(time.RFC3339),
			},
		},
	}
}

func slackPayload(event BookingEvent) SlackWebhookRequest {
	s := styleFor(event.Status)

	return SlackWebhookRequest{
		Username:  Username,
		IconEmoji: s.emoji,
		Text:      fmt.Sprintf("%s *Booking %s*", s.emoji, event.Status),
		Attachments: []SlackAttachment{
			{
				Color: s.slackColor,
				Title: fmt.Sprintf("Booking #%d for '%s'", event.BookingID, event.PropertyTitle),
				Text:  fmt.Sprintf("Status changed from %s to %s.", previousOrNone(event), event.Status),
				Fields: []SlackField{
					{Title: "Property", Value: event.PropertyTitle, Short: true},
					{Title: "Check-in", Value: event.CheckInDate, Short: true},
					{Title: "Tenant ID", Value: fmt.Sprintf("%d", event.TenantID), Short: true},
					{Title: "Owner ID", Value: fmt.Sprintf("%d", event.OwnerID), Short: true},
				},
				Footer:    "RentIt",
				Timestamp: event.OccurredAt.Unix(),
			},
		},
	}
}

func previousOrNone(event BookingEvent) string {
	if event.PreviousStatus == "" {
		return "none"
	}
	return string(event.PreviousStatus)
}

func (w *WebhookPublisher) post(ctx context.Context, webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
