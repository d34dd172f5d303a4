// Package sender turns renewal reminder messages into e-mails.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/magabrotheeeer/nutriplan/internal/lib/metrics"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/lib/smtp"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

// ErrMalformedMessage marks a message that can never be delivered.
var ErrMalformedMessage = errors.New("malformed message")

// Transport opens relay sessions.
type Transport interface {
	Connect(ctx context.Context) (smtp.Client, error)
	Sender() string
}

// Service sends renewal reminder e-mails.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// NewService creates a Service.
func NewService(transport Transport, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// SendRenewalReminder handles one message from the renewal queue.
// Malformed messages and permanent (5xx) relay rejections are dropped by returning nil
// so they are not requeued forever.
func (s *Service) SendRenewalReminder(ctx context.Context, body []byte) error {
	const op = "sender.SendRenewalReminder"
	log := s.log.With(slog.String("op", op))

	var reminder models.RenewalReminder
	if err := decode(body, &reminder); err != nil {
		log.Error("dropping message", sl.Err(err))
		metrics.RemindersSent.WithLabelValues("dropped").Inc()
		return nil
	}

	subject, text := renewalEmail(reminder)
	if err := s.sendEmail(ctx, reminder.Email, subject, text); err != nil {
		if permanent(err) {
			log.Error("dropping undeliverable reminder", slog.String("user_uid", reminder.UserID), sl.Err(err))
			metrics.RemindersSent.WithLabelValues("dropped").Inc()
			return nil
		}
		metrics.RemindersSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.RemindersSent.WithLabelValues("sent").Inc()
	log.Info("renewal reminder sent", slog.String("user_uid", reminder.UserID), slog.String("tier", string(reminder.Tier)))
	return nil
}

// permanent reports whether the relay rejected the message with a 5xx reply.
func permanent(err error) bool {
	var tpErr *textproto.Error
	return errors.As(err, &tpErr) && tpErr.Code >= 500
}

func decode(body []byte, r *models.RenewalReminder) error {
	if err := json.Unmarshal(body, r); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: missing recipient", ErrMalformedMessage)
	}
	if r.EndDate.IsZero() {
		return fmt.Errorf("%w: missing end date", ErrMalformedMessage)
	}
	return nil
}

func renewalEmail(r models.RenewalReminder) (string, string) {
	subject := "Your NutriPlan subscription renews soon"
	text := fmt.Sprintf("Hello!\r\n\r\nYour %s plan ends on %s.\r\n"+
		"Renew it from the Subscriptions page to keep your meal planner and calculators.\r\n",
		r.Tier, r.EndDate.UTC().Format(time.DateOnly))
	return subject, text
}

func (s *Service) sendEmail(ctx context.Context, to, subject, text string) error {
	from := s.transport.Sender()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		text,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	envelope := from
	if addr, err := mail.ParseAddress(from); err == nil {
		envelope = addr.Address
	}
	if err := client.Mail(envelope); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}
