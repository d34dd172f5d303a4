// Package smtp connects to the mail relay that delivers renewal reminders.
package smtp

import "io"

// Client is the subset of *smtp.Client needed to send one message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
