// Package mail is the boundary to the transactional email service.
package mail

import (
	"github.com/rs/zerolog"
)

// Sender delivers a single transactional email or returns an error.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// LogSender pretends to deliver mail by logging it. It stands in for a
// real delivery service in development and in tests.
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(to, subject, _ string) error {
	s.Logger.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("sending mail")

	return nil
}
