// Package notify holds the outbound notification boundary. Vendor
// email/SMS adapters plug in behind ports.Notifier; the default
// implementation only logs, so environments without a vendor account still
// run end to end.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier records credential deliveries in the log instead of sending
// them. Swap for a vendor-backed implementation in production.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// SendCredentials never fails; vendor failures must not reach the request
// path in any implementation.
func (n *LogNotifier) SendCredentials(_ context.Context, email, _ string) error {
	n.log.Info().Str("email", email).Msg("credentials notification queued")
	return nil
}
