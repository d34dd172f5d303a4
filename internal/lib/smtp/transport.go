package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/nutriplan/internal/config"
)

// ErrStartTLSUnsupported is returned when TLS is required but the relay does not offer it.
var ErrStartTLSUnsupported = errors.New("smtp server does not support STARTTLS")

// Transport dials the configured relay and authenticates.
type Transport struct {
	cfg    config.SMTP
	dialer net.Dialer
}

// NewTransport creates a Transport.
func NewTransport(cfg config.SMTP) *Transport {
	return &Transport{cfg: cfg}
}

// Sender returns the envelope sender address.
func (t *Transport) Sender() string {
	if t.cfg.SMTPFrom != "" {
		return t.cfg.SMTPFrom
	}
	return t.cfg.SMTPUser
}

// Connect opens an authenticated session with the relay.
func (t *Transport) Connect(ctx context.Context) (Client, error) {
	const op = "smtp.Connect"
	conn, err := t.dialer.DialContext(ctx, "tcp", net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort))
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if t.cfg.StartTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			client.Close()
			return nil, fmt.Errorf("%s: %w", op, ErrStartTLSUnsupported)
		}
		tlsConfig := &tls.Config{ServerName: t.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("%s: starttls: %w", op, err)
		}
	}

	if t.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("%s: auth: %w", op, err)
		}
	}
	return client, nil
}
